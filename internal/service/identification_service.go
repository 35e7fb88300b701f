package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/vision"
)

type IIdentificationService interface {
	// Identify always produces an outcome. Remote failures are folded into the
	// outcome's error descriptor and never returned.
	Identify(ctx context.Context, image vision.Image) entity.IdentificationOutcome
}

// OfflineCatalog supplies the guess used when both remote tiers are unavailable.
type OfflineCatalog interface {
	Guess(rng *rand.Rand) (knowledge.Archetype, error)
}

type identificationService struct {
	primary   vision.Identifier
	secondary vision.Identifier
	care      ICareService
	catalog   OfflineCatalog
	logger    logger.ILogger
	tracer    trace.Tracer

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewIdentificationService wires the tiers. A nil primary or secondary is skipped.
// secondary should already carry its retry policy (see vision.WithRetry).
func NewIdentificationService(
	primary vision.Identifier,
	secondary vision.Identifier,
	care ICareService,
	catalog OfflineCatalog,
	rng *rand.Rand,
	log logger.ILogger,
) IIdentificationService {
	return &identificationService{
		primary:   primary,
		secondary: secondary,
		care:      care,
		catalog:   catalog,
		rng:       rng,
		logger:    log,
		tracer:    otel.Tracer("plantpal/identification"),
	}
}

func (s *identificationService) Identify(ctx context.Context, image vision.Image) (outcome entity.IdentificationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(logger.ModuleIdentify, "Identification chain panicked, using general care guidelines", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			outcome = terminalOutcome()
		}
	}()

	if s.primary != nil {
		candidate, err := s.runRemoteTier(ctx, "identify.primary", s.primary, image)
		if err == nil {
			return s.remoteOutcome(ctx, candidate, entity.SourcePrimaryVision)
		}
		s.logger.Warn(logger.ModuleIdentify, "Primary identification failed, trying secondary", map[string]interface{}{
			"provider": s.primary.Name(),
			"kind":     string(remote.KindOf(err)),
			"error":    err.Error(),
		})
	}

	var descriptor *entity.ErrorDescriptor
	if s.secondary != nil {
		candidate, err := s.runRemoteTier(ctx, "identify.secondary", s.secondary, image)
		if err == nil {
			return s.remoteOutcome(ctx, candidate, entity.SourceSecondaryVision)
		}
		descriptor = classifyIdentificationError(err)
		s.logger.Warn(logger.ModuleIdentify, "Secondary identification failed, using offline fallback", map[string]interface{}{
			"provider": s.secondary.Name(),
			"kind":     string(remote.KindOf(err)),
			"reason":   string(descriptor.Reason),
			"error":    err.Error(),
		})
	}

	return s.offlineOutcome(ctx, descriptor)
}

func (s *identificationService) runRemoteTier(ctx context.Context, spanName string, identifier vision.Identifier, image vision.Image) (*vision.Candidate, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("provider", identifier.Name())))
	defer span.End()

	candidate, err := identifier.Identify(ctx, image)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(remote.KindOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("species", candidate.ScientificName),
		attribute.Int("confidence", candidate.ConfidencePercent),
	)
	return candidate, nil
}

func (s *identificationService) remoteOutcome(ctx context.Context, candidate *vision.Candidate, source entity.IdentificationSource) entity.IdentificationOutcome {
	s.logger.Info(logger.ModuleIdentify, "Plant identified", map[string]interface{}{
		"source":     string(source),
		"species":    candidate.ScientificName,
		"confidence": candidate.ConfidencePercent,
	})

	return entity.IdentificationOutcome{
		Result: entity.IdentificationResult{
			ScientificName:    candidate.ScientificName,
			CommonName:        candidate.CommonName,
			ConfidencePercent: candidate.ConfidencePercent,
			Source:            source,
			Care:              s.care.Fetch(ctx, candidate.ScientificName),
		},
	}
}

func (s *identificationService) offlineOutcome(ctx context.Context, descriptor *entity.ErrorDescriptor) entity.IdentificationOutcome {
	_, span := s.tracer.Start(ctx, "identify.offline")
	defer span.End()

	guess, err := s.guess()
	if err != nil {
		span.RecordError(err)
		s.logger.Error(logger.ModuleIdentify, "Offline catalog failed, using general care guidelines", map[string]interface{}{
			"error": err.Error(),
		})
		return terminalOutcome()
	}

	s.logger.Info(logger.ModuleIdentify, "Using offline identification", map[string]interface{}{
		"archetype":  guess.Key,
		"confidence": guess.ConfidencePercent,
	})

	return entity.IdentificationOutcome{
		Result: entity.IdentificationResult{
			ScientificName:    guess.ScientificName,
			CommonName:        guess.CommonName,
			ConfidencePercent: guess.ConfidencePercent,
			Note:              knowledge.OfflineNote,
			Source:            entity.SourceOfflineDatabase,
			Care:              guess.Care,
		},
		Error:       descriptor,
		OfflineMode: true,
	}
}

// rand.Rand is not safe for concurrent use.
func (s *identificationService) guess() (knowledge.Archetype, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.catalog.Guess(s.rng)
}

func terminalOutcome() entity.IdentificationOutcome {
	return entity.IdentificationOutcome{
		Result: entity.IdentificationResult{
			ScientificName:    knowledge.UnidentifiedScientificName,
			CommonName:        knowledge.UnidentifiedCommonName,
			ConfidencePercent: 0,
			Source:            entity.SourceGenericFallback,
			Care:              knowledge.HouseplantCareProfile(),
		},
		Error: &entity.ErrorDescriptor{
			Reason:  entity.ReasonIdentificationFailed,
			Message: constant.MessageIdentifyFailed,
		},
		OfflineMode: true,
	}
}

func classifyIdentificationError(err error) *entity.ErrorDescriptor {
	switch remote.KindOf(err) {
	case remote.KindRateLimited:
		return &entity.ErrorDescriptor{Reason: entity.ReasonRateLimited, Message: constant.MessageRateLimited}
	case remote.KindUnauthorized:
		return &entity.ErrorDescriptor{Reason: entity.ReasonUnauthorized, Message: constant.MessageUnauthorized}
	default:
		return &entity.ErrorDescriptor{Reason: entity.ReasonServiceUnavailable, Message: constant.MessageServiceUnavailable}
	}
}
