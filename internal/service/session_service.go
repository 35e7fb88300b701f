package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/dto"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/mapper"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/events"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/vision"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is satisfied by memory.SessionRepository.
type SessionStore interface {
	Save(session *entity.Session)
	Get(sessionId uuid.UUID) (*entity.Session, bool)
	Delete(sessionId uuid.UUID)
}

type ISessionService interface {
	Create(ctx context.Context) (*dto.SessionResponse, error)
	Get(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	Reset(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	Delete(ctx context.Context, sessionId uuid.UUID) error
	Identify(ctx context.Context, sessionId uuid.UUID, image entity.UploadedImage) (*dto.IdentifyResponse, error)
	Transcript(ctx context.Context, sessionId uuid.UUID) ([]dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, sessionId uuid.UUID, text string) (*dto.SendChatResponse, error)
	Exists(sessionId uuid.UUID) bool
}

type sessionService struct {
	store          SessionStore
	identification IIdentificationService
	chat           IChatService
	publisher      IPublisherService
	mapper         *mapper.SessionMapper
	logger         logger.ILogger
}

func NewSessionService(
	store SessionStore,
	identification IIdentificationService,
	chat IChatService,
	publisher IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		store:          store,
		identification: identification,
		chat:           chat,
		publisher:      publisher,
		mapper:         mapper.NewSessionMapper(),
		logger:         log,
	}
}

func (s *sessionService) Create(ctx context.Context) (*dto.SessionResponse, error) {
	session := entity.NewSession(uuid.New(), knowledge.Greeting, time.Now())
	s.store.Save(session)

	view := s.mapper.SessionToResponse(session.State())
	s.publish(ctx, constant.EventSessionCreated, session.Id(), view)
	s.logger.Info(logger.ModuleSession, "Session created", map[string]interface{}{"session_id": session.Id().String()})
	return view, nil
}

func (s *sessionService) Get(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.SessionToResponse(session.State()), nil
}

func (s *sessionService) Reset(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}

	state, err := session.Apply(entity.SessionReset{})
	if err != nil {
		return nil, err
	}

	view := s.mapper.SessionToResponse(state)
	s.publish(ctx, constant.EventSessionReset, sessionId, view)
	return view, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionId uuid.UUID) error {
	if _, err := s.find(sessionId); err != nil {
		return err
	}
	s.store.Delete(sessionId)
	s.logger.Info(logger.ModuleSession, "Session deleted", map[string]interface{}{"session_id": sessionId.String()})
	return nil
}

func (s *sessionService) Identify(ctx context.Context, sessionId uuid.UUID, image entity.UploadedImage) (*dto.IdentifyResponse, error) {
	session, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}

	state, err := session.Apply(entity.ImageUploaded{Image: image})
	if err != nil {
		return nil, err
	}
	attempt := state.Attempt
	s.publish(ctx, constant.EventIdentificationStarted, sessionId, s.mapper.SessionToResponse(state))

	outcome := s.identification.Identify(ctx, vision.Image{
		Filename:    image.Filename,
		ContentType: image.ContentType,
		Data:        image.Data,
	})

	state, err = session.Apply(entity.IdentificationFinished{Attempt: attempt, Outcome: outcome})
	if err != nil {
		return nil, err
	}
	if state.Attempt != attempt || state.Result == nil {
		s.logger.Info(logger.ModuleSession, "Identification finished after reset, result discarded", map[string]interface{}{
			"session_id": sessionId.String(),
			"attempt":    attempt,
		})
	}

	s.publish(ctx, constant.EventIdentificationCompleted, sessionId, s.mapper.SessionToResponse(state))
	return s.mapper.IdentifyToResponse(state), nil
}

func (s *sessionService) Transcript(ctx context.Context, sessionId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	view, err := s.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return view.Transcript, nil
}

func (s *sessionService) SendMessage(ctx context.Context, sessionId uuid.UUID, text string) (*dto.SendChatResponse, error) {
	session, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, entity.ErrEmptyMessage
	}

	state, err := session.Apply(entity.UserMessageSent{Text: text})
	if err != nil {
		return nil, err
	}
	sent := state.Transcript[len(state.Transcript)-1]
	s.publish(ctx, constant.EventChatMessageAdded, sessionId, s.mapper.ChatMessageToResponse(sent))

	reply := s.chat.Reply(ctx, text)

	state, err = session.Apply(entity.AssistantReplied{Text: reply.Text})
	if err != nil {
		return nil, err
	}
	answered := state.Transcript[len(state.Transcript)-1]
	s.publish(ctx, constant.EventChatMessageAdded, sessionId, s.mapper.ChatMessageToResponse(answered))

	s.logger.Info(logger.ModuleChat, "Chat reply sent", map[string]interface{}{
		"session_id": sessionId.String(),
		"tier":       string(reply.Tier),
	})

	return &dto.SendChatResponse{
		Sent:  s.mapper.ChatMessageToResponse(sent),
		Reply: s.mapper.ChatMessageToResponse(answered),
		Tier:  string(reply.Tier),
	}, nil
}

func (s *sessionService) Exists(sessionId uuid.UUID) bool {
	_, found := s.store.Get(sessionId)
	return found
}

func (s *sessionService) find(sessionId uuid.UUID) (*entity.Session, error) {
	session, found := s.store.Get(sessionId)
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// publish is best effort. A lost live update must not fail the user's request.
func (s *sessionService) publish(ctx context.Context, eventType string, sessionId uuid.UUID, data interface{}) {
	if s.publisher == nil {
		return
	}

	event, err := events.NewSessionEvent(eventType, sessionId, data)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn(logger.ModuleEvents, "Failed to publish session event", map[string]interface{}{
			"type":       eventType,
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}
