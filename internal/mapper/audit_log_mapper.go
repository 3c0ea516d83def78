package mapper

import (
	"encoding/json"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/model"

	"gorm.io/datatypes"
)

type AuditLogMapper struct{}

func NewAuditLogMapper() *AuditLogMapper {
	return &AuditLogMapper{}
}

func (m *AuditLogMapper) ToModel(e *entity.AuditLog) *model.AuditLog {
	if e == nil {
		return nil
	}
	var details datatypes.JSON
	if e.Details != nil {
		// Marshal failure only happens for unserializable values; store nothing then.
		if raw, err := json.Marshal(e.Details); err == nil {
			details = raw
		}
	}
	return &model.AuditLog{
		Id:           e.Id,
		NotebookSlug: e.NotebookSlug,
		Action:       e.Action,
		Actor:        e.Actor,
		Details:      details,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *AuditLogMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}
	var details map[string]interface{}
	if len(a.Details) > 0 {
		_ = json.Unmarshal(a.Details, &details)
	}
	return &entity.AuditLog{
		Id:           a.Id,
		NotebookSlug: a.NotebookSlug,
		Action:       a.Action,
		Actor:        a.Actor,
		Details:      details,
		CreatedAt:    a.CreatedAt,
	}
}

func (m *AuditLogMapper) ToEntities(models []*model.AuditLog) []*entity.AuditLog {
	entities := make([]*entity.AuditLog, 0, len(models))
	for _, a := range models {
		entities = append(entities, m.ToEntity(a))
	}
	return entities
}
