package mapper

import (
	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/model"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}
	return &entity.Notebook{
		Slug:                  n.Slug,
		PasswordHash:          n.PasswordHash,
		Content:               n.Content,
		CreatedAt:             n.CreatedAt,
		UpdatedAt:             n.UpdatedAt,
		AlwaysRequirePassword: n.AlwaysRequirePassword,
		IsPublic:              n.IsPublic,
		ArchiveCode:           n.ArchiveCode,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}
	return &model.Notebook{
		Slug:                  n.Slug,
		PasswordHash:          n.PasswordHash,
		Content:               n.Content,
		CreatedAt:             n.CreatedAt,
		UpdatedAt:             n.UpdatedAt,
		AlwaysRequirePassword: n.AlwaysRequirePassword,
		IsPublic:              n.IsPublic,
		ArchiveCode:           n.ArchiveCode,
	}
}

func (m *NotebookMapper) ToEntities(models []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, 0, len(models))
	for _, n := range models {
		entities = append(entities, m.ToEntity(n))
	}
	return entities
}
