package dto

import "time"

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminNotebookItem struct {
	Id                    string    `json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	AlwaysRequirePassword bool      `json:"always_require_password"`
	IsPublic              bool      `json:"ispublic"`
	ArchiveCode           string    `json:"archive_code"`
}

type AdminListResponse struct {
	Notebooks  []*AdminNotebookItem `json:"notebooks"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
}

type AdminSetPublicRequest struct {
	IsPublic bool `json:"ispublic"`
}

type AdminSetArchiveCodeRequest struct {
	ArchiveCode string `json:"archive_code"`
}

type AuditLogItem struct {
	Id           string                 `json:"id"`
	NotebookSlug string                 `json:"notebook_slug"`
	Action       string                 `json:"action"`
	Actor        string                 `json:"actor"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}
