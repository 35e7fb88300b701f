package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/remote"
)

func newChat(provider *fakeLLM) IChatService {
	if provider == nil {
		return NewChatService(nil, logger.NewNopLogger())
	}
	return NewChatService(provider, logger.NewNopLogger())
}

func TestChatReply_KeywordTableWinsOverRemote(t *testing.T) {
	provider := &fakeLLM{results: []llmResult{{reply: "remote says hi"}}}

	reply := newChat(provider).Reply(context.Background(), "Why are there Yellow Leaves on my fern?")

	assert.Equal(t, entity.ChatTierKnowledgeBase, reply.Tier)
	assert.True(t, strings.HasPrefix(reply.Text, "Yellow leaves usually indicate"))
	assert.True(t, strings.HasSuffix(reply.Text, knowledge.MoreDetailPrompt))
	assert.Equal(t, 0, provider.calls)
}

func TestChatReply_FertilizerHeuristicWithoutProvider(t *testing.T) {
	reply := newChat(nil).Reply(context.Background(), "What fertilizer should I use?")

	assert.Equal(t, entity.ChatTierHeuristic, reply.Tier)
	assert.True(t, strings.HasPrefix(reply.Text, "Feed your plants monthly"))
}

func TestChatReply_RemoteReplyIsVerbatim(t *testing.T) {
	provider := &fakeLLM{results: []llmResult{{reply: "Sounds like a calathea. How humid is the room?"}}}

	reply := newChat(provider).Reply(context.Background(), "my plant's leaves curl at night")

	assert.Equal(t, entity.ChatTierRemote, reply.Tier)
	assert.Equal(t, "Sounds like a calathea. How humid is the room?", reply.Text)
	require.Equal(t, 1, provider.calls)
	history := provider.history[0]
	require.Len(t, history, 2)
	assert.Equal(t, constant.ChatMessageRoleSystem, history[0].Role)
	assert.Equal(t, constant.ChatPersonaPrompt, history[0].Content)
	assert.Equal(t, "my plant's leaves curl at night", history[1].Content)
	assert.Equal(t, 300, provider.options[0].MaxTokens)
	assert.Equal(t, 0.7, provider.options[0].Temperature)
}

func TestChatReply_RemoteFailures(t *testing.T) {
	tests := []struct {
		name      string
		result    llmResult
		utterance string
		wantTier  entity.ChatTier
		wantText  func(t *testing.T, text string)
	}{
		{
			name:      "rate limited with heuristic",
			result:    llmResult{err: remoteErr(remote.KindRateLimited)},
			utterance: "how much water does it need",
			wantTier:  entity.ChatTierRateLimited,
			wantText: func(t *testing.T, text string) {
				assert.True(t, strings.HasPrefix(text, knowledge.RateLimitedPrefix+"Most plants should be watered"))
			},
		},
		{
			name:      "rate limited without heuristic",
			result:    llmResult{err: remoteErr(remote.KindRateLimited)},
			utterance: "is my cactus happy",
			wantTier:  entity.ChatTierRateLimited,
			wantText: func(t *testing.T, text string) {
				assert.Equal(t, knowledge.RateLimitedPrefix+knowledge.RateLimitedFallback, text)
			},
		},
		{
			name:      "server error falls to heuristic",
			result:    llmResult{err: remoteErr(remote.KindTransientNetwork)},
			utterance: "Is this enough LIGHT?",
			wantTier:  entity.ChatTierHeuristic,
			wantText: func(t *testing.T, text string) {
				assert.True(t, strings.HasPrefix(text, "Most houseplants prefer bright, indirect light."))
			},
		},
		{
			name:      "unauthorized falls to generic",
			result:    llmResult{err: remoteErr(remote.KindUnauthorized)},
			utterance: "hello there",
			wantTier:  entity.ChatTierGeneric,
			wantText: func(t *testing.T, text string) {
				assert.Equal(t, knowledge.GenericChatReply, text)
				assert.True(t, strings.HasSuffix(text, "?"))
			},
		},
		{
			name:      "empty reply",
			result:    llmResult{reply: "   "},
			utterance: "when should I feed it",
			wantTier:  entity.ChatTierHeuristic,
			wantText: func(t *testing.T, text string) {
				assert.True(t, strings.HasPrefix(text, "Feed your plants monthly"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{results: []llmResult{tt.result}}

			reply := newChat(provider).Reply(context.Background(), tt.utterance)

			assert.Equal(t, 1, provider.calls, "chat never retries")
			assert.Equal(t, tt.wantTier, reply.Tier)
			tt.wantText(t, reply.Text)
		})
	}
}

func TestChatReply_PanicIsAbsorbed(t *testing.T) {
	provider := &fakeLLM{panicOn: true}

	reply := newChat(provider).Reply(context.Background(), "hello")

	assert.Equal(t, knowledge.ChatFailureReply, reply.Text)
	assert.Equal(t, entity.ChatTierGeneric, reply.Tier)
}
