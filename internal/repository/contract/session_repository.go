package contract

import (
	"context"

	"cloudnote-be/internal/entity"
)

// SessionRepository holds ephemeral per-visitor auth state. Get returns
// (nil, nil) when the session is unknown or expired.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, sessionID string) error

	// PurgeNotebook removes the auth entry for slug from every live session.
	// Called after a notebook is deleted so no session stays authenticated
	// against a notebook that no longer exists.
	PurgeNotebook(ctx context.Context, slug string) error

	// TouchExpiry extends the session lifetime (sliding expiration). A miss is
	// not an error.
	TouchExpiry(ctx context.Context, sessionID string) error
}
