package entity

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrIdentificationInProgress = errors.New("an identification is already in progress for this session")
	ErrChatInProgress           = errors.New("a chat reply is already pending for this session")
	ErrEmptyMessage             = errors.New("chat message is empty")
)

// SessionState is the per-session record. It is only changed through Session.Apply.
type SessionState struct {
	Id          uuid.UUID             `json:"id"`
	Image       *UploadedImage        `json:"image,omitempty"`
	Result      *IdentificationResult `json:"result,omitempty"`
	Error       *ErrorDescriptor      `json:"error,omitempty"`
	Analyzing   bool                  `json:"analyzing"`
	ChatPending bool                  `json:"chat_pending"`
	OfflineMode bool                  `json:"offline_mode"`
	Transcript  []ChatMessage         `json:"transcript"`
	Attempt     int                   `json:"attempt"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (s SessionState) clone() SessionState {
	s.Transcript = append([]ChatMessage(nil), s.Transcript...)
	if s.Result != nil {
		result := *s.Result
		result.Care = result.Care.Clone()
		s.Result = &result
	}
	if s.Error != nil {
		descriptor := *s.Error
		s.Error = &descriptor
	}
	if s.Image != nil {
		image := *s.Image
		s.Image = &image
	}
	return s
}

func (s *SessionState) appendMessage(sender ChatSender, text string, now time.Time) ChatMessage {
	nextId := 1
	if n := len(s.Transcript); n > 0 {
		nextId = s.Transcript[n-1].Id + 1
	}
	msg := ChatMessage{Id: nextId, Sender: sender, Text: text, CreatedAt: now}
	s.Transcript = append(s.Transcript, msg)
	return msg
}

// Session wraps SessionState with the lock that serializes its mutations.
type Session struct {
	mu    sync.Mutex
	state SessionState
}

// NewSession starts a session whose transcript holds a single assistant greeting.
func NewSession(id uuid.UUID, greeting string, now time.Time) *Session {
	s := &Session{state: SessionState{
		Id:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.state.appendMessage(ChatSenderAssistant, greeting, now)
	return s
}

func (s *Session) Id() uuid.UUID {
	return s.state.Id
}

// State returns a copy that is safe to read without the lock.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Apply is the single mutation point for a session. It returns the state after
// the action, or an error if the action was rejected and nothing changed.
func (s *Session) Apply(action SessionAction) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	next := s.state.clone()
	if err := action.apply(&next, now); err != nil {
		return s.state.clone(), err
	}
	next.UpdatedAt = now
	s.state = next
	return s.state.clone(), nil
}

// SessionAction is one of the actions declared in this package.
type SessionAction interface {
	apply(state *SessionState, now time.Time) error
}

// ImageUploaded starts an identification. Rejected while one is running.
type ImageUploaded struct {
	Image UploadedImage
}

func (a ImageUploaded) apply(s *SessionState, now time.Time) error {
	if s.Analyzing {
		return ErrIdentificationInProgress
	}
	image := a.Image
	if image.UploadedAt.IsZero() {
		image.UploadedAt = now
	}
	s.Image = &image
	s.Error = nil
	s.Analyzing = true
	s.Attempt++
	return nil
}

// IdentificationFinished records an orchestrator outcome for the given attempt.
// Outcomes for an attempt that was reset or superseded are dropped.
type IdentificationFinished struct {
	Attempt int
	Outcome IdentificationOutcome
}

func (a IdentificationFinished) apply(s *SessionState, now time.Time) error {
	if !s.Analyzing || a.Attempt != s.Attempt {
		return nil
	}
	result := a.Outcome.Result
	result.Care = result.Care.Clone()
	if result.IdentifiedAt.IsZero() {
		result.IdentifiedAt = now
	}
	s.Result = &result
	s.Error = a.Outcome.Error
	if a.Outcome.OfflineMode {
		s.OfflineMode = true
	}
	s.Analyzing = false
	return nil
}

// UserMessageSent appends the user's utterance and marks a reply as pending.
type UserMessageSent struct {
	Text string
}

func (a UserMessageSent) apply(s *SessionState, now time.Time) error {
	if a.Text == "" {
		return ErrEmptyMessage
	}
	if s.ChatPending {
		return ErrChatInProgress
	}
	s.appendMessage(ChatSenderUser, a.Text, now)
	s.ChatPending = true
	return nil
}

// AssistantReplied appends the assistant's reply and clears the pending flag.
type AssistantReplied struct {
	Text string
}

func (a AssistantReplied) apply(s *SessionState, now time.Time) error {
	s.appendMessage(ChatSenderAssistant, a.Text, now)
	s.ChatPending = false
	return nil
}

// SessionReset clears the identification state but keeps the transcript.
type SessionReset struct{}

func (SessionReset) apply(s *SessionState, _ time.Time) error {
	s.Image = nil
	s.Result = nil
	s.Error = nil
	s.Analyzing = false
	s.OfflineMode = false
	return nil
}
