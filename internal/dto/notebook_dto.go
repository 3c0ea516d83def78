package dto

import "time"

// ActionRequest is the single inbound shape of the notebook action API.
// Optional fields use pointers so "absent" and "zero value" stay distinct.
type ActionRequest struct {
	Action                string  `json:"action" validate:"required"`
	Id                    string  `json:"id" validate:"required,notebookid"`
	Password              string  `json:"password"`
	ConfirmPassword       string  `json:"confirm_password"`
	Content               string  `json:"content"`
	AlwaysRequirePassword *bool   `json:"always_require_password"`
	IsPublic              *bool   `json:"ispublic"`
	ArchiveCode           *string `json:"archive_code"`
}

// ActionResult is the uniform outcome record for every dispatched action.
type ActionResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type VerifyPasswordResponse struct {
	AlwaysRequirePassword bool   `json:"always_require_password"`
	UnlockToken           string `json:"unlock_token"`
}

// NotebookStateResponse is what a fresh page load gets: enough to decide
// between the create form, the password prompt and the editor. Content is only
// present when the caller may read it.
type NotebookStateResponse struct {
	Id                    string     `json:"id"`
	Exists                bool       `json:"exists"`
	Authenticated         bool       `json:"authenticated"`
	IsPublic              bool       `json:"ispublic"`
	AlwaysRequirePassword bool       `json:"always_require_password"`
	Content               *string    `json:"content,omitempty"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

// NotebookEventMessage is the payload published on the notebook events topic
// and consumed into the audit trail.
type NotebookEventMessage struct {
	Slug       string                 `json:"slug"`
	Action     string                 `json:"action"`
	Actor      string                 `json:"actor"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
