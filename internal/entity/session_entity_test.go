package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession(uuid.New(), "Hi!", time.Now())
}

func sampleOutcome(offline bool) IdentificationOutcome {
	return IdentificationOutcome{
		Result: IdentificationResult{
			ScientificName:    "Monstera deliciosa",
			CommonName:        "Swiss Cheese Plant",
			ConfidencePercent: 91,
			Source:            SourcePrimaryVision,
			Care:              CareProfile{Watering: "w", Light: "l", Humidity: "h", Temperature: "t", Soil: "s", Fertilizer: "f", Repotting: "r", Tips: []string{"tip"}},
		},
		Error:       &ErrorDescriptor{Reason: ReasonRateLimited, Message: "quota"},
		OfflineMode: offline,
	}
}

func TestNewSession_SeedsGreeting(t *testing.T) {
	state := newTestSession().State()

	require.Len(t, state.Transcript, 1)
	assert.Equal(t, 1, state.Transcript[0].Id)
	assert.Equal(t, ChatSenderAssistant, state.Transcript[0].Sender)
	assert.False(t, state.OfflineMode)
}

func TestSession_IdentificationLifecycle(t *testing.T) {
	s := newTestSession()

	state, err := s.Apply(ImageUploaded{Image: UploadedImage{Filename: "leaf.jpg", Size: 3}})
	require.NoError(t, err)
	assert.True(t, state.Analyzing)
	assert.Equal(t, 1, state.Attempt)

	_, err = s.Apply(ImageUploaded{Image: UploadedImage{Filename: "other.jpg"}})
	assert.ErrorIs(t, err, ErrIdentificationInProgress)

	state, err = s.Apply(IdentificationFinished{Attempt: 1, Outcome: sampleOutcome(true)})
	require.NoError(t, err)
	assert.False(t, state.Analyzing)
	require.NotNil(t, state.Result)
	assert.Equal(t, "Monstera deliciosa", state.Result.ScientificName)
	assert.True(t, state.OfflineMode)
	require.NotNil(t, state.Error)
	assert.Equal(t, ReasonRateLimited, state.Error.Reason)
}

func TestSession_OfflineModeIsStickyUntilReset(t *testing.T) {
	s := newTestSession()

	s.Apply(ImageUploaded{})
	s.Apply(IdentificationFinished{Attempt: 1, Outcome: sampleOutcome(true)})

	s.Apply(ImageUploaded{})
	state, _ := s.Apply(IdentificationFinished{Attempt: 2, Outcome: sampleOutcome(false)})
	assert.True(t, state.OfflineMode)

	state, _ = s.Apply(SessionReset{})
	assert.False(t, state.OfflineMode)
}

func TestSession_ResetPreservesTranscript(t *testing.T) {
	s := newTestSession()
	s.Apply(UserMessageSent{Text: "why are my leaves yellow?"})
	s.Apply(AssistantReplied{Text: "overwatering"})
	s.Apply(ImageUploaded{Image: UploadedImage{Filename: "leaf.jpg"}})
	s.Apply(IdentificationFinished{Attempt: 1, Outcome: sampleOutcome(true)})

	before := s.State()
	after, err := s.Apply(SessionReset{})
	require.NoError(t, err)

	assert.Nil(t, after.Image)
	assert.Nil(t, after.Result)
	assert.Nil(t, after.Error)
	assert.False(t, after.OfflineMode)
	assert.False(t, after.Analyzing)
	assert.Equal(t, before.Transcript, after.Transcript)
}

func TestSession_LateOutcomeAfterResetIsDropped(t *testing.T) {
	s := newTestSession()
	s.Apply(ImageUploaded{})
	s.Apply(SessionReset{})

	state, err := s.Apply(IdentificationFinished{Attempt: 1, Outcome: sampleOutcome(true)})
	require.NoError(t, err)
	assert.Nil(t, state.Result)
	assert.False(t, state.OfflineMode)
}

func TestSession_ChatMessagesAreMonotonic(t *testing.T) {
	s := newTestSession()

	_, err := s.Apply(UserMessageSent{Text: "hello"})
	require.NoError(t, err)

	_, err = s.Apply(UserMessageSent{Text: "again"})
	assert.ErrorIs(t, err, ErrChatInProgress)

	state, err := s.Apply(AssistantReplied{Text: "hi"})
	require.NoError(t, err)
	assert.False(t, state.ChatPending)

	ids := make([]int, 0, len(state.Transcript))
	for _, msg := range state.Transcript {
		ids = append(ids, msg.Id)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)

	_, err = s.Apply(UserMessageSent{Text: ""})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSession_StateIsACopy(t *testing.T) {
	s := newTestSession()
	state := s.State()
	state.Transcript[0].Text = "mutated"

	assert.Equal(t, "Hi!", s.State().Transcript[0].Text)
}
