package contract

import (
	"context"

	"cloudnote-be/internal/entity"
)

// NotebookRepository is the durable store for notebooks. Absence is signalled
// with (nil, nil) for FindBySlug and an ok=false for the scalar getters, so
// callers can distinguish "not found" from an infrastructure failure.
type NotebookRepository interface {
	Exists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, notebook *entity.Notebook) error
	FindBySlug(ctx context.Context, slug string) (*entity.Notebook, error)

	GetContent(ctx context.Context, slug string) (content string, ok bool, err error)
	GetPasswordHash(ctx context.Context, slug string) (hash string, ok bool, err error)
	GetAlwaysRequirePassword(ctx context.Context, slug string) (value bool, ok bool, err error)
	IsPublic(ctx context.Context, slug string) (value bool, ok bool, err error)
	GetArchiveCode(ctx context.Context, slug string) (code string, ok bool, err error)

	// UpdateContent bumps updated_at; the flag setters deliberately do not.
	UpdateContent(ctx context.Context, slug, content string) (bool, error)
	SetAlwaysRequirePassword(ctx context.Context, slug string, value bool) (bool, error)
	SetPublic(ctx context.Context, slug string, value bool) (bool, error)
	SetArchiveCode(ctx context.Context, slug, code string) (bool, error)

	List(ctx context.Context, offset, limit int) ([]*entity.Notebook, error)
	Count(ctx context.Context) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) (bool, error)

	FindByArchiveCode(ctx context.Context, code string, offset, limit int) ([]*entity.Notebook, error)
	CountByArchiveCode(ctx context.Context, code string) (int64, error)
}
