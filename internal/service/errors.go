package service

import "errors"

// User-facing failures. The messages are surfaced verbatim by the dispatcher;
// anything not in this list is treated as an internal failure and masked.
var (
	ErrInvalidID        = errors.New("invalid notebook id")
	ErrInvalidAction    = errors.New("invalid action")
	ErrNotebookNotFound = errors.New("notebook does not exist")
	ErrNotebookExists   = errors.New("notebook id already exists")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrUnauthorized     = errors.New("unauthorized operation")
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrEmptyArchiveCode = errors.New("archive code must not be empty")
	ErrAdminRequired    = errors.New("admin login required")
)

// IsUserFacing reports whether err carries a message safe to return to the
// caller as-is.
func IsUserFacing(err error) bool {
	for _, known := range []error{
		ErrInvalidID, ErrInvalidAction, ErrNotebookNotFound, ErrNotebookExists,
		ErrWrongPassword, ErrUnauthorized, ErrEmptyPassword, ErrPasswordMismatch,
		ErrEmptyContent, ErrEmptyArchiveCode, ErrAdminRequired,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
