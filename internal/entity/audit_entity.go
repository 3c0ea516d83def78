package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one notebook lifecycle event (create, save, flag change,
// delete) for the admin trail.
type AuditLog struct {
	Id           uuid.UUID
	NotebookSlug string
	Action       string
	Actor        string
	Details      map[string]interface{}
	CreatedAt    time.Time
}

const (
	ActorOwner = "owner"
	ActorAdmin = "admin"
)
