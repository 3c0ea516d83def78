package model

import "time"

type Notebook struct {
	Slug                  string    `gorm:"type:text;primaryKey"`
	PasswordHash          string    `gorm:"type:text;not null"`
	Content               string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index:idx_notebooks_created_at,sort:desc"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
	AlwaysRequirePassword bool      `gorm:"not null;default:false"`
	IsPublic              bool      `gorm:"not null;default:false"`
	ArchiveCode           string    `gorm:"type:text;not null;default:'';index"`
}

func (Notebook) TableName() string {
	return "notebooks"
}
