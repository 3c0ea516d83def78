package unitofwork

import (
	"context"

	"cloudnote-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	AuditLogRepository() contract.AuditLogRepository
}
