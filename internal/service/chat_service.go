package service

import (
	"context"
	"fmt"
	"strings"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/llm"
	"plantpal-be/pkg/remote"
)

type IChatService interface {
	Reply(ctx context.Context, utterance string) entity.ChatReply
}

type chatService struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

// NewChatService builds the chat orchestrator. A nil provider skips the remote tier.
// There is no retry here, a slow chat reply is worse than an offline one.
func NewChatService(provider llm.LLMProvider, log logger.ILogger) IChatService {
	return &chatService{
		provider: provider,
		logger:   log,
	}
}

func (s *chatService) Reply(ctx context.Context, utterance string) (reply entity.ChatReply) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(logger.ModuleChat, "Chat reply panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			reply = entity.ChatReply{Text: knowledge.ChatFailureReply, Tier: entity.ChatTierGeneric}
		}
	}()

	if advice, ok := knowledge.LookupAdvice(utterance); ok {
		return entity.ChatReply{Text: advice, Tier: entity.ChatTierKnowledgeBase}
	}

	if s.provider != nil {
		text, err := s.provider.Chat(ctx, []llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: constant.ChatPersonaPrompt},
			{Role: constant.ChatMessageRoleUser, Content: utterance},
		}, llm.WithMaxTokens(constant.ChatMaxTokens), llm.WithTemperature(constant.ChatTemperature))

		switch {
		case err == nil && strings.TrimSpace(text) != "":
			return entity.ChatReply{Text: text, Tier: entity.ChatTierRemote}
		case err == nil:
			s.logger.Warn(logger.ModuleChat, "Chat provider returned an empty reply", nil)
		case remote.KindOf(err) == remote.KindRateLimited:
			s.logger.Warn(logger.ModuleChat, "Chat provider rate limited, answering offline", map[string]interface{}{"error": err.Error()})
			offline, ok := knowledge.Heuristic(utterance)
			if !ok {
				offline = knowledge.RateLimitedFallback
			}
			return entity.ChatReply{Text: knowledge.RateLimitedPrefix + offline, Tier: entity.ChatTierRateLimited}
		default:
			s.logger.Warn(logger.ModuleChat, "Chat provider failed, using heuristics", map[string]interface{}{
				"kind":  string(remote.KindOf(err)),
				"error": err.Error(),
			})
		}
	}

	if heuristic, ok := knowledge.Heuristic(utterance); ok {
		return entity.ChatReply{Text: heuristic, Tier: entity.ChatTierHeuristic}
	}
	return entity.ChatReply{Text: knowledge.GenericChatReply, Tier: entity.ChatTierGeneric}
}
