package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"plantpal-be/internal/entity"
)

// SessionRepository keeps sessions in process memory. Idle sessions expire after
// the configured TTL, and every Get pushes the expiry forward.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	// Purge expired items at a sixth of the TTL, matching 1h / 10m
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *SessionRepository) Save(session *entity.Session) {
	r.cache.Set(session.Id().String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionId uuid.UUID) (*entity.Session, bool) {
	key := sessionId.String()
	if x, found := r.cache.Get(key); found {
		session := x.(*entity.Session)
		r.cache.Set(key, session, cache.DefaultExpiration)
		return session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// OnEvicted registers f to run when a session expires or is deleted.
func (r *SessionRepository) OnEvicted(f func(sessionId uuid.UUID)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		if id, err := uuid.Parse(key); err == nil {
			f(id)
		}
	})
}
