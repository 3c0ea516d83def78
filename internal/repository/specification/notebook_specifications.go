package specification

import "gorm.io/gorm"

// BySlug filters by the notebook primary key
type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

// ByArchiveCode matches the archive code exactly (case-sensitive). An empty
// code means "not archived" and must never act as a searchable category, so
// it matches nothing.
type ByArchiveCode struct {
	Code string
}

func (s ByArchiveCode) Apply(db *gorm.DB) *gorm.DB {
	if s.Code == "" {
		return db.Where("1 = 0")
	}
	return db.Where("archive_code = ?", s.Code)
}
