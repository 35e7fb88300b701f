package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/internal/repository/memory"
	"plantpal-be/pkg/events"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/vision"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SessionEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// gatedIdentification blocks until release is closed.
type gatedIdentification struct {
	started chan struct{}
	release chan struct{}
	outcome entity.IdentificationOutcome
}

func (g *gatedIdentification) Identify(ctx context.Context, image vision.Image) entity.IdentificationOutcome {
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.outcome
}

type staticChat struct {
	reply entity.ChatReply
	calls int
}

func (c *staticChat) Reply(ctx context.Context, utterance string) entity.ChatReply {
	c.calls++
	return c.reply
}

func monsteraOutcome(offline bool) entity.IdentificationOutcome {
	return entity.IdentificationOutcome{
		Result: entity.IdentificationResult{
			ScientificName:    "Monstera deliciosa",
			CommonName:        "Swiss Cheese Plant",
			ConfidencePercent: 91,
			Source:            entity.SourcePrimaryVision,
			Care:              knowledge.GenericCareProfile(),
		},
		OfflineMode: offline,
	}
}

type sessionFixture struct {
	service   ISessionService
	publisher *recordingPublisher
	chat      *staticChat
}

func newSessionFixture(identification IIdentificationService) *sessionFixture {
	publisher := &recordingPublisher{}
	chat := &staticChat{reply: entity.ChatReply{Text: "Check the soil first.", Tier: entity.ChatTierHeuristic}}
	svc := NewSessionService(memory.NewSessionRepository(time.Hour), identification, chat, publisher, logger.NewNopLogger())
	return &sessionFixture{service: svc, publisher: publisher, chat: chat}
}

func TestSessionService_CreateAndGet(t *testing.T) {
	f := newSessionFixture(&gatedIdentification{})

	created, err := f.service.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, created.Transcript, 1)
	assert.Equal(t, knowledge.Greeting, created.Transcript[0].Text)
	assert.Equal(t, "assistant", created.Transcript[0].Sender)

	got, err := f.service.Get(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
	assert.True(t, f.service.Exists(created.Id))
	assert.Equal(t, []string{constant.EventSessionCreated}, f.publisher.types())

	_, err = f.service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_Identify(t *testing.T) {
	f := newSessionFixture(&gatedIdentification{outcome: monsteraOutcome(false)})
	created, _ := f.service.Create(context.Background())

	res, err := f.service.Identify(context.Background(), created.Id, entity.UploadedImage{Filename: "leaf.jpg", Data: []byte("x"), Size: 1})
	require.NoError(t, err)

	require.NotNil(t, res.Identification)
	assert.Equal(t, "Monstera deliciosa", res.Identification.ScientificName)
	assert.Equal(t, "PlantNet API", res.Identification.SourceLabel)
	assert.False(t, res.Analyzing)
	assert.False(t, res.OfflineMode)
	assert.Equal(t, []string{
		constant.EventSessionCreated,
		constant.EventIdentificationStarted,
		constant.EventIdentificationCompleted,
	}, f.publisher.types())
}

func TestSessionService_IdentifyWhileAnalyzingIsRejected(t *testing.T) {
	gate := &gatedIdentification{started: make(chan struct{}), release: make(chan struct{}), outcome: monsteraOutcome(false)}
	f := newSessionFixture(gate)
	created, _ := f.service.Create(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Identify(context.Background(), created.Id, entity.UploadedImage{Filename: "a.jpg"})
		done <- err
	}()
	<-gate.started

	_, err := f.service.Identify(context.Background(), created.Id, entity.UploadedImage{Filename: "b.jpg"})
	assert.ErrorIs(t, err, entity.ErrIdentificationInProgress)

	close(gate.release)
	require.NoError(t, <-done)
}

func TestSessionService_ResetDuringIdentificationDiscardsResult(t *testing.T) {
	gate := &gatedIdentification{started: make(chan struct{}), release: make(chan struct{}), outcome: monsteraOutcome(true)}
	f := newSessionFixture(gate)
	created, _ := f.service.Create(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := f.service.Identify(context.Background(), created.Id, entity.UploadedImage{Filename: "a.jpg"})
		if assert.NoError(t, err) {
			assert.Nil(t, res.Identification)
		}
	}()
	<-gate.started

	_, err := f.service.Reset(context.Background(), created.Id)
	require.NoError(t, err)
	close(gate.release)
	<-done

	view, err := f.service.Get(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Nil(t, view.Identification)
	assert.False(t, view.OfflineMode)
	assert.False(t, view.Analyzing)
}

func TestSessionService_SendMessage(t *testing.T) {
	f := newSessionFixture(&gatedIdentification{})
	created, _ := f.service.Create(context.Background())

	res, err := f.service.SendMessage(context.Background(), created.Id, "why is my fern crispy?")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Sent.Id)
	assert.Equal(t, "user", res.Sent.Sender)
	assert.Equal(t, 3, res.Reply.Id)
	assert.Equal(t, "Check the soil first.", res.Reply.Text)
	assert.Equal(t, string(entity.ChatTierHeuristic), res.Tier)

	transcript, err := f.service.Transcript(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Len(t, transcript, 3)

	_, err = f.service.SendMessage(context.Background(), created.Id, "   ")
	assert.ErrorIs(t, err, entity.ErrEmptyMessage)
	assert.Equal(t, 1, f.chat.calls)
}

func TestSessionService_ResetKeepsTranscript(t *testing.T) {
	f := newSessionFixture(&gatedIdentification{outcome: monsteraOutcome(true)})
	created, _ := f.service.Create(context.Background())
	f.service.SendMessage(context.Background(), created.Id, "hello")
	f.service.Identify(context.Background(), created.Id, entity.UploadedImage{Filename: "a.jpg"})

	before, _ := f.service.Get(context.Background(), created.Id)
	require.True(t, before.OfflineMode)

	after, err := f.service.Reset(context.Background(), created.Id)
	require.NoError(t, err)

	assert.Nil(t, after.Image)
	assert.Nil(t, after.Identification)
	assert.Nil(t, after.Error)
	assert.False(t, after.OfflineMode)
	assert.Equal(t, before.Transcript, after.Transcript)
}

func TestSessionService_Delete(t *testing.T) {
	f := newSessionFixture(&gatedIdentification{})
	created, _ := f.service.Create(context.Background())

	require.NoError(t, f.service.Delete(context.Background(), created.Id))
	assert.False(t, f.service.Exists(created.Id))
	assert.ErrorIs(t, f.service.Delete(context.Background(), created.Id), ErrSessionNotFound)
}
