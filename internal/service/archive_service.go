package service

import (
	"context"
	"fmt"
	"strings"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/repository/unitofwork"
)

type IArchiveService interface {
	Find(ctx context.Context, archiveCode string, page int) (*dto.ArchiveLookupResponse, error)
}

// archiveService serves the public archive lookup: anyone holding a code can
// list the notebooks grouped under it, but never their content.
type archiveService struct {
	uowFactory unitofwork.RepositoryFactory
	pageSize   int
}

func NewArchiveService(uowFactory unitofwork.RepositoryFactory, pageSize int) IArchiveService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &archiveService{
		uowFactory: uowFactory,
		pageSize:   pageSize,
	}
}

func (s *archiveService) Find(ctx context.Context, archiveCode string, page int) (*dto.ArchiveLookupResponse, error) {
	archiveCode = strings.TrimSpace(archiveCode)
	if archiveCode == "" {
		return nil, ErrEmptyArchiveCode
	}
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotebookRepository()

	total, err := repo.CountByArchiveCode(ctx, archiveCode)
	if err != nil {
		return nil, fmt.Errorf("count archived notebooks: %w", err)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	offset := (page - 1) * s.pageSize

	notebooks, err := repo.FindByArchiveCode(ctx, archiveCode, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("find archived notebooks: %w", err)
	}

	items := make([]*dto.ArchiveNotebookItem, 0, len(notebooks))
	for _, n := range notebooks {
		items = append(items, &dto.ArchiveNotebookItem{
			Id:        n.Slug,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
			IsPublic:  n.IsPublic,
		})
	}

	return &dto.ArchiveLookupResponse{
		ArchiveCode: archiveCode,
		Notebooks:   items,
		Total:       total,
		Page:        page,
		PerPage:     s.pageSize,
		TotalPages:  totalPages,
	}, nil
}
