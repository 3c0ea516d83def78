package dto

import "time"

type ArchiveNotebookItem struct {
	Id        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsPublic  bool      `json:"ispublic"`
}

type ArchiveLookupResponse struct {
	ArchiveCode string                 `json:"archive_code"`
	Notebooks   []*ArchiveNotebookItem `json:"notebooks"`
	Total       int64                  `json:"total"`
	Page        int                    `json:"page"`
	PerPage     int                    `json:"per_page"`
	TotalPages  int                    `json:"total_pages"`
}
