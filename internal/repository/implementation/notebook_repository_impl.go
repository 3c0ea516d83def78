package implementation

import (
	"context"
	"errors"
	"time"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/mapper"
	"cloudnote-be/internal/model"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NotebookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotebookMapper
}

func NewNotebookRepository(db *gorm.DB) contract.NotebookRepository {
	return &NotebookRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotebookMapper(),
	}
}

func (r *NotebookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotebookRepositoryImpl) Exists(ctx context.Context, slug string) (bool, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notebook{}), specification.BySlug{Slug: slug})
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NotebookRepositoryImpl) Create(ctx context.Context, notebook *entity.Notebook) error {
	m := r.mapper.ToModel(notebook)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notebook = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotebookRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.Notebook, error) {
	var m model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySlug{Slug: slug})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// selectColumn loads a single column of one notebook into dest.
func (r *NotebookRepositoryImpl) selectColumn(ctx context.Context, slug, column string, dest interface{}) (bool, error) {
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.Notebook{}).Select(column),
		specification.BySlug{Slug: slug},
	)
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *NotebookRepositoryImpl) GetContent(ctx context.Context, slug string) (string, bool, error) {
	var content string
	ok, err := r.selectColumn(ctx, slug, "content", &content)
	return content, ok, err
}

func (r *NotebookRepositoryImpl) GetPasswordHash(ctx context.Context, slug string) (string, bool, error) {
	var hash string
	ok, err := r.selectColumn(ctx, slug, "password_hash", &hash)
	return hash, ok, err
}

func (r *NotebookRepositoryImpl) GetAlwaysRequirePassword(ctx context.Context, slug string) (bool, bool, error) {
	var value bool
	ok, err := r.selectColumn(ctx, slug, "always_require_password", &value)
	return value, ok, err
}

func (r *NotebookRepositoryImpl) IsPublic(ctx context.Context, slug string) (bool, bool, error) {
	var value bool
	ok, err := r.selectColumn(ctx, slug, "is_public", &value)
	return value, ok, err
}

func (r *NotebookRepositoryImpl) GetArchiveCode(ctx context.Context, slug string) (string, bool, error) {
	var code string
	ok, err := r.selectColumn(ctx, slug, "archive_code", &code)
	return code, ok, err
}

func (r *NotebookRepositoryImpl) UpdateContent(ctx context.Context, slug, content string) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notebook{}), specification.BySlug{Slug: slug})
	result := query.Updates(map[string]interface{}{
		"content":    content,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// setColumn updates a single attribute without touching updated_at: flag
// changes are metadata, not edits.
func (r *NotebookRepositoryImpl) setColumn(ctx context.Context, slug, column string, value interface{}) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notebook{}), specification.BySlug{Slug: slug})
	result := query.UpdateColumn(column, value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotebookRepositoryImpl) SetAlwaysRequirePassword(ctx context.Context, slug string, value bool) (bool, error) {
	return r.setColumn(ctx, slug, "always_require_password", value)
}

func (r *NotebookRepositoryImpl) SetPublic(ctx context.Context, slug string, value bool) (bool, error) {
	return r.setColumn(ctx, slug, "is_public", value)
}

func (r *NotebookRepositoryImpl) SetArchiveCode(ctx context.Context, slug, code string) (bool, error) {
	return r.setColumn(ctx, slug, "archive_code", code)
}

func (r *NotebookRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*entity.Notebook, error) {
	var models []*model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NotebookRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Notebook{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotebookRepositoryImpl) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySlug{Slug: slug})
	result := query.Delete(&model.Notebook{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotebookRepositoryImpl) FindByArchiveCode(ctx context.Context, code string, offset, limit int) ([]*entity.Notebook, error) {
	var models []*model.Notebook
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByArchiveCode{Code: code},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NotebookRepositoryImpl) CountByArchiveCode(ctx context.Context, code string) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notebook{}), specification.ByArchiveCode{Code: code})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
