package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/pkg/logger"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/unitofwork"
	adminEvents "cloudnote-be/pkg/admin/events"
	"cloudnote-be/pkg/credential"
)

type IAdminService interface {
	Login(ctx context.Context, sessionID, password string) (bool, error)
	Logout(ctx context.Context, sessionID string) error
	IsLoggedIn(ctx context.Context, sessionID string) (bool, error)

	ListNotebooks(ctx context.Context, sessionID string, page int) (*dto.AdminListResponse, error)
	DeleteNotebook(ctx context.Context, sessionID, slug string) error
	SetPublic(ctx context.Context, sessionID, slug string, isPublic bool) error
	SetArchiveCode(ctx context.Context, sessionID, slug, archiveCode string) error
	GetAuditLogs(ctx context.Context, sessionID string, limit int) ([]*dto.AuditLogItem, error)
}

// AdminCredentials holds the single global admin credential. PasswordHash is
// preferred; Password is a plaintext fallback for local setups and compared in
// constant time.
type AdminCredentials struct {
	PasswordHash string
	Password     string
}

type adminService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       contract.SessionRepository
	credentials    AdminCredentials
	pageSize       int
	eventPublisher adminEvents.Publisher
	logger         logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	sessions contract.SessionRepository,
	credentials AdminCredentials,
	pageSize int,
	eventPublisher adminEvents.Publisher,
	sysLogger logger.ILogger,
) IAdminService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &adminService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		credentials:    credentials,
		pageSize:       pageSize,
		eventPublisher: eventPublisher,
		logger:         sysLogger,
	}
}

func (s *adminService) checkPassword(password string) bool {
	if s.credentials.PasswordHash != "" {
		return credential.Verify(password, s.credentials.PasswordHash)
	}
	if s.credentials.Password != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password)) == 1
	}
	// No credential configured means the admin surface is disabled.
	return false
}

func (s *adminService) Login(ctx context.Context, sessionID, password string) (bool, error) {
	if !s.checkPassword(password) {
		return false, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		session = entity.NewSession(sessionID)
	}
	session.AdminLoggedIn = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}

func (s *adminService) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil || session == nil {
		return err
	}
	session.AdminLoggedIn = false
	return s.sessions.Save(ctx, session)
}

func (s *adminService) IsLoggedIn(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session != nil && session.AdminLoggedIn, nil
}

func (s *adminService) requireLogin(ctx context.Context, sessionID string) error {
	loggedIn, err := s.IsLoggedIn(ctx, sessionID)
	if err != nil {
		return err
	}
	if !loggedIn {
		return ErrAdminRequired
	}
	return nil
}

func (s *adminService) ListNotebooks(ctx context.Context, sessionID string, page int) (*dto.AdminListResponse, error) {
	if err := s.requireLogin(ctx, sessionID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotebookRepository()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notebooks: %w", err)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	offset := (page - 1) * s.pageSize

	notebooks, err := repo.List(ctx, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}

	items := make([]*dto.AdminNotebookItem, 0, len(notebooks))
	for _, n := range notebooks {
		items = append(items, &dto.AdminNotebookItem{
			Id:                    n.Slug,
			CreatedAt:             n.CreatedAt,
			UpdatedAt:             n.UpdatedAt,
			AlwaysRequirePassword: n.AlwaysRequirePassword,
			IsPublic:              n.IsPublic,
			ArchiveCode:           n.ArchiveCode,
		})
	}

	return &dto.AdminListResponse{
		Notebooks:  items,
		Total:      total,
		Page:       page,
		PerPage:    s.pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *adminService) DeleteNotebook(ctx context.Context, sessionID, slug string) error {
	if err := s.requireLogin(ctx, sessionID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Row delete and audit row commit together; session purge follows so no
	// session can stay authenticated against a notebook that is gone.
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.NotebookRepository().DeleteBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if !deleted {
		return ErrNotebookNotFound
	}

	audit := &entity.AuditLog{
		NotebookSlug: slug,
		Action:       "notebook_deleted",
		Actor:        entity.ActorAdmin,
		CreatedAt:    time.Now(),
	}
	if err := uow.AuditLogRepository().Create(ctx, audit); err != nil {
		return fmt.Errorf("record deletion: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	if err := s.sessions.PurgeNotebook(ctx, slug); err != nil {
		// The notebook is gone; a failed purge only risks stale session
		// entries that mutations will reject anyway.
		s.logger.Warn("ADMIN", "Failed to purge sessions after delete", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}

	s.eventPublisher.PublishNotebookDeleted(ctx, slug)
	return nil
}

func (s *adminService) SetPublic(ctx context.Context, sessionID, slug string, isPublic bool) error {
	if err := s.requireLogin(ctx, sessionID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.NotebookRepository().SetPublic(ctx, slug, isPublic)
	if err != nil {
		return fmt.Errorf("set public: %w", err)
	}
	if !updated {
		return ErrNotebookNotFound
	}

	s.eventPublisher.PublishPublicChanged(ctx, slug, isPublic)
	return nil
}

func (s *adminService) SetArchiveCode(ctx context.Context, sessionID, slug, archiveCode string) error {
	if err := s.requireLogin(ctx, sessionID); err != nil {
		return err
	}

	archiveCode = strings.TrimSpace(archiveCode)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.NotebookRepository().SetArchiveCode(ctx, slug, archiveCode)
	if err != nil {
		return fmt.Errorf("set archive code: %w", err)
	}
	if !updated {
		return ErrNotebookNotFound
	}

	s.eventPublisher.PublishArchiveCodeChanged(ctx, slug, archiveCode)
	return nil
}

func (s *adminService) GetAuditLogs(ctx context.Context, sessionID string, limit int) ([]*dto.AuditLogItem, error) {
	if err := s.requireLogin(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load audit logs: %w", err)
	}

	items := make([]*dto.AuditLogItem, 0, len(logs))
	for _, l := range logs {
		items = append(items, &dto.AuditLogItem{
			Id:           l.Id.String(),
			NotebookSlug: l.NotebookSlug,
			Action:       l.Action,
			Actor:        l.Actor,
			Details:      l.Details,
			CreatedAt:    l.CreatedAt,
		})
	}
	return items, nil
}
