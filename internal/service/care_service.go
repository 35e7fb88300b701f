package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/llm"
	"plantpal-be/pkg/remote"
	"plantpal-be/pkg/retry"
)

type ICareService interface {
	// Fetch never fails. Anything that goes wrong yields the generic profile.
	Fetch(ctx context.Context, speciesName string) entity.CareProfile
}

type careService struct {
	provider llm.LLMProvider
	retryCfg retry.Config
	logger   logger.ILogger
}

// NewCareService builds the care fetcher. A nil provider means no advice backend
// is configured.
func NewCareService(provider llm.LLMProvider, retryCfg retry.Config, log logger.ILogger) ICareService {
	return &careService{
		provider: provider,
		retryCfg: retryCfg,
		logger:   log,
	}
}

type careReply struct {
	Care struct {
		Watering    string `json:"watering"`
		Light       string `json:"light"`
		Humidity    string `json:"humidity"`
		Temperature string `json:"temperature"`
		Soil        string `json:"soil"`
		Fertilizer  string `json:"fertilizer"`
		Repotting   string `json:"repotting"`
	} `json:"care"`
	Tips []string `json:"tips"`
}

func (s *careService) Fetch(ctx context.Context, speciesName string) entity.CareProfile {
	if s.provider == nil {
		return knowledge.GenericCareProfile()
	}

	profile, err := retry.Do(ctx, s.retryCfg, isCareRetryable, func(ctx context.Context) (entity.CareProfile, error) {
		reply, err := s.provider.Generate(ctx, fmt.Sprintf(constant.CarePromptTemplate, speciesName), llm.WithMaxTokens(constant.CareMaxTokens))
		if err != nil {
			return entity.CareProfile{}, err
		}
		return parseCareReply(reply)
	}, func(attempt int, err error, wait time.Duration) {
		s.logger.Warn(logger.ModuleCare, "Care instructions attempt failed", map[string]interface{}{
			"species": speciesName,
			"attempt": attempt,
			"error":   err.Error(),
			"wait":    wait.String(),
		})
	})
	if err != nil {
		s.logger.Warn(logger.ModuleCare, "Using generic care profile", map[string]interface{}{
			"species": speciesName,
			"kind":    string(remote.KindOf(err)),
			"error":   err.Error(),
		})
		return knowledge.GenericCareProfile()
	}

	return profile
}

// Quota and credential problems will not go away within a second.
func isCareRetryable(err error) bool {
	switch remote.KindOf(err) {
	case remote.KindUnauthorized, remote.KindRateLimited:
		return false
	default:
		return true
	}
}

func parseCareReply(content string) (entity.CareProfile, error) {
	raw, ok := remote.ExtractJSONObject(content)
	if !ok {
		return entity.CareProfile{}, remote.Malformed("care", fmt.Errorf("reply contains no JSON object"))
	}

	var reply careReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return entity.CareProfile{}, remote.Malformed("care", fmt.Errorf("unmarshal care reply: %w", err))
	}

	profile := entity.CareProfile{
		Watering:    reply.Care.Watering,
		Light:       reply.Care.Light,
		Humidity:    reply.Care.Humidity,
		Temperature: reply.Care.Temperature,
		Soil:        reply.Care.Soil,
		Fertilizer:  reply.Care.Fertilizer,
		Repotting:   reply.Care.Repotting,
		Tips:        reply.Tips,
	}
	if !profile.IsComplete() {
		return entity.CareProfile{}, remote.Malformed("care", fmt.Errorf("care reply is missing fields"))
	}
	return profile, nil
}
