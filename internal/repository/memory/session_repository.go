package memory

import (
	"context"
	"time"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps session auth state in process memory. Sessions fall
// out after the TTL with a periodic sweep every ten minutes.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) contract.SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// clone keeps stored sessions isolated from caller mutation; entries only
// change through Save.
func clone(s *entity.Session) *entity.Session {
	copied := entity.NewSession(s.ID)
	copied.AdminLoggedIn = s.AdminLoggedIn
	for slug, authed := range s.Notebooks {
		copied.Notebooks[slug] = authed
	}
	return copied
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return clone(x.(*entity.Session)), nil
	}
	return nil, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.cache.Set(session.ID, clone(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) PurgeNotebook(ctx context.Context, slug string) error {
	for id, item := range r.cache.Items() {
		session, valid := item.Object.(*entity.Session)
		if !valid || !session.IsAuthenticated(slug) {
			continue
		}
		updated := clone(session)
		updated.SetAuthenticated(slug, false)
		r.cache.Set(id, updated, cache.DefaultExpiration)
	}
	return nil
}

func (r *SessionRepository) TouchExpiry(ctx context.Context, sessionID string) error {
	if x, found := r.cache.Get(sessionID); found {
		r.cache.Set(sessionID, x, cache.DefaultExpiration)
	}
	return nil
}
