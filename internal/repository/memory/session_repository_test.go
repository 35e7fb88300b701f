package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/internal/entity"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	session := entity.NewSession(uuid.New(), "hello", time.Now())

	repo.Save(session)
	got, found := repo.Get(session.Id())
	require.True(t, found)
	assert.Same(t, session, got)
	assert.Equal(t, 1, repo.Count())

	var evicted []uuid.UUID
	repo.OnEvicted(func(id uuid.UUID) { evicted = append(evicted, id) })
	repo.Delete(session.Id())

	_, found = repo.Get(session.Id())
	assert.False(t, found)
	assert.Equal(t, []uuid.UUID{session.Id()}, evicted)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	session := entity.NewSession(uuid.New(), "hello", time.Now())
	repo.Save(session)

	time.Sleep(40 * time.Millisecond)

	_, found := repo.Get(session.Id())
	assert.False(t, found)
}
