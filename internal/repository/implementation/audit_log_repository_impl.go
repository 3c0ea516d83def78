package implementation

import (
	"context"
	"time"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/mapper"
	"cloudnote-be/internal/model"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditLogMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditLogMapper(),
	}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m := r.mapper.ToModel(log)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AuditLogRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	query := specification.OrderBy{Field: "created_at", Desc: true}.Apply(r.db.WithContext(ctx))
	query = specification.Pagination{Limit: limit}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
