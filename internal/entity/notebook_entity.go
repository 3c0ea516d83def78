package entity

import "time"

// Notebook is a single password-protected document addressed by its slug.
// The slug doubles as the public URL segment and never changes after creation.
type Notebook struct {
	Slug                  string
	PasswordHash          string
	Content               string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	AlwaysRequirePassword bool
	IsPublic              bool
	ArchiveCode           string
}
