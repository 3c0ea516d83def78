package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/unitofwork"
	"cloudnote-be/pkg/credential"
)

type INotebookService interface {
	VerifyPassword(ctx context.Context, sessionID, slug, password string) (*dto.VerifyPasswordResponse, error)
	Create(ctx context.Context, sessionID, slug, password, confirmPassword string) error
	SaveContent(ctx context.Context, sessionID, slug, content string) error
	UpdateSettings(ctx context.Context, sessionID, slug string, alwaysRequirePassword bool) error
	UpdatePublic(ctx context.Context, sessionID, slug string, isPublic bool) error
	GetPublicStatus(ctx context.Context, sessionID, slug string) (bool, error)
	SetArchiveCode(ctx context.Context, sessionID, slug, archiveCode string) error
	Logout(ctx context.Context, sessionID, slug string) error

	// ReEvaluateOnAccess applies the always-require-password rule and returns
	// whether the session is still authenticated afterwards.
	ReEvaluateOnAccess(ctx context.Context, sessionID, slug string, plainNavigation, verifiedMarker bool) (bool, error)
	GetState(ctx context.Context, sessionID, slug string, plainNavigation bool, unlockToken string) (*dto.NotebookStateResponse, error)
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   contract.SessionRepository
	publisher  IPublisherService
	unlock     *UnlockTokens
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	sessions contract.SessionRepository,
	publisher IPublisherService,
	unlock *UnlockTokens,
) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
		sessions:   sessions,
		publisher:  publisher,
		unlock:     unlock,
	}
}

func defaultContent(slug string) string {
	return fmt.Sprintf(`# %s

Welcome to your new notebook.

- Edit on the left, preview on the right
- Everything is saved under this id and protected by your password
- Mark the notebook public from settings to share a read-only link

Start writing...
`, slug)
}

// session loads the caller's session, creating an empty one on first contact.
func (s *notebookService) session(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = entity.NewSession(sessionID)
	}
	return session, nil
}

func (s *notebookService) setAuthenticated(ctx context.Context, sessionID, slug string, authenticated bool) error {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	session.SetAuthenticated(slug, authenticated)
	return s.sessions.Save(ctx, session)
}

func (s *notebookService) isAuthenticated(ctx context.Context, sessionID, slug string) (bool, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session != nil && session.IsAuthenticated(slug), nil
}

// purgeStaleAuth drops a session's auth entry for a notebook that turned out
// not to exist anymore.
func (s *notebookService) purgeStaleAuth(ctx context.Context, sessionID, slug string) {
	_ = s.setAuthenticated(ctx, sessionID, slug, false)
}

func (s *notebookService) publishEvent(ctx context.Context, slug, action, actor string, details map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	event := dto.NotebookEventMessage{
		Slug:       slug,
		Action:     action,
		Actor:      actor,
		Details:    details,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	// Audit publishing is best effort; the user operation already succeeded.
	_ = s.publisher.Publish(ctx, payload)
}

func (s *notebookService) VerifyPassword(ctx context.Context, sessionID, slug, password string) (*dto.VerifyPasswordResponse, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotebookRepository()

	hash, found, err := repo.GetPasswordHash(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if !found {
		s.purgeStaleAuth(ctx, sessionID, slug)
		return nil, ErrNotebookNotFound
	}
	if hash == "" {
		return nil, fmt.Errorf("notebook %s has no credential", slug)
	}

	if !credential.Verify(password, hash) {
		// State unchanged; one generic message regardless of why.
		return nil, ErrWrongPassword
	}

	if err := s.setAuthenticated(ctx, sessionID, slug, true); err != nil {
		return nil, fmt.Errorf("save auth state: %w", err)
	}

	alwaysRequire, _, err := repo.GetAlwaysRequirePassword(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	token, err := s.unlock.Issue(sessionID, slug)
	if err != nil {
		return nil, err
	}

	return &dto.VerifyPasswordResponse{
		AlwaysRequirePassword: alwaysRequire,
		UnlockToken:           token,
	}, nil
}

func (s *notebookService) Create(ctx context.Context, sessionID, slug, password, confirmPassword string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotebookRepository()

	exists, err := repo.Exists(ctx, slug)
	if err != nil {
		return fmt.Errorf("check notebook: %w", err)
	}
	if exists {
		return ErrNotebookExists
	}

	hash, err := credential.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	notebook := &entity.Notebook{
		Slug:         slug,
		PasswordHash: hash,
		Content:      defaultContent(slug),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, notebook); err != nil {
		return fmt.Errorf("create notebook: %w", err)
	}

	// The creator starts out authenticated.
	if err := s.setAuthenticated(ctx, sessionID, slug, true); err != nil {
		return fmt.Errorf("save auth state: %w", err)
	}

	s.publishEvent(ctx, slug, "notebook_created", entity.ActorOwner, nil)
	return nil
}

func (s *notebookService) SaveContent(ctx context.Context, sessionID, slug, content string) error {
	authed, err := s.isAuthenticated(ctx, sessionID, slug)
	if err != nil {
		return err
	}
	if !authed {
		return ErrUnauthorized
	}
	if content == "" {
		return ErrEmptyContent
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.NotebookRepository().UpdateContent(ctx, slug, content)
	if err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	if !updated {
		s.purgeStaleAuth(ctx, sessionID, slug)
		return ErrNotebookNotFound
	}

	s.publishEvent(ctx, slug, "content_saved", entity.ActorOwner, map[string]interface{}{
		"content_bytes": len(content),
	})
	return nil
}

// mutateFlag is the shared path of the authenticated attribute setters.
func (s *notebookService) mutateFlag(
	ctx context.Context,
	sessionID, slug, action string,
	details map[string]interface{},
	apply func(repo contract.NotebookRepository) (bool, error),
) error {
	authed, err := s.isAuthenticated(ctx, sessionID, slug)
	if err != nil {
		return err
	}
	if !authed {
		return ErrUnauthorized
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := apply(uow.NotebookRepository())
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if !updated {
		s.purgeStaleAuth(ctx, sessionID, slug)
		return ErrNotebookNotFound
	}

	s.publishEvent(ctx, slug, action, entity.ActorOwner, details)
	return nil
}

func (s *notebookService) UpdateSettings(ctx context.Context, sessionID, slug string, alwaysRequirePassword bool) error {
	return s.mutateFlag(ctx, sessionID, slug, "settings_updated",
		map[string]interface{}{"always_require_password": alwaysRequirePassword},
		func(repo contract.NotebookRepository) (bool, error) {
			return repo.SetAlwaysRequirePassword(ctx, slug, alwaysRequirePassword)
		})
}

func (s *notebookService) UpdatePublic(ctx context.Context, sessionID, slug string, isPublic bool) error {
	return s.mutateFlag(ctx, sessionID, slug, "public_updated",
		map[string]interface{}{"ispublic": isPublic},
		func(repo contract.NotebookRepository) (bool, error) {
			return repo.SetPublic(ctx, slug, isPublic)
		})
}

func (s *notebookService) SetArchiveCode(ctx context.Context, sessionID, slug, archiveCode string) error {
	return s.mutateFlag(ctx, sessionID, slug, "archive_code_updated",
		map[string]interface{}{"archive_code": archiveCode},
		func(repo contract.NotebookRepository) (bool, error) {
			return repo.SetArchiveCode(ctx, slug, archiveCode)
		})
}

func (s *notebookService) GetPublicStatus(ctx context.Context, sessionID, slug string) (bool, error) {
	authed, err := s.isAuthenticated(ctx, sessionID, slug)
	if err != nil {
		return false, err
	}
	if !authed {
		return false, ErrUnauthorized
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	isPublic, found, err := uow.NotebookRepository().IsPublic(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("load public status: %w", err)
	}
	if !found {
		s.purgeStaleAuth(ctx, sessionID, slug)
		return false, ErrNotebookNotFound
	}
	return isPublic, nil
}

func (s *notebookService) Logout(ctx context.Context, sessionID, slug string) error {
	// Always succeeds, authenticated or not.
	return s.setAuthenticated(ctx, sessionID, slug, false)
}

func (s *notebookService) ReEvaluateOnAccess(ctx context.Context, sessionID, slug string, plainNavigation, verifiedMarker bool) (bool, error) {
	authed, err := s.isAuthenticated(ctx, sessionID, slug)
	if err != nil {
		return false, err
	}
	if !authed {
		return false, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	alwaysRequire, found, err := uow.NotebookRepository().GetAlwaysRequirePassword(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		s.purgeStaleAuth(ctx, sessionID, slug)
		return false, nil
	}

	// A fresh page load on an always-require-password notebook demotes the
	// session unless it carries the unlock marker from the verification that
	// just happened. In-page actions (POSTs) keep their authentication.
	if alwaysRequire && plainNavigation && !verifiedMarker {
		if err := s.setAuthenticated(ctx, sessionID, slug, false); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (s *notebookService) GetState(ctx context.Context, sessionID, slug string, plainNavigation bool, unlockToken string) (*dto.NotebookStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load notebook: %w", err)
	}

	state := &dto.NotebookStateResponse{Id: slug}
	if notebook == nil {
		// A deleted notebook must not leave a lingering auth entry behind.
		s.purgeStaleAuth(ctx, sessionID, slug)
		return state, nil
	}

	verified := s.unlock.Validate(unlockToken, sessionID, slug)
	authed, err := s.ReEvaluateOnAccess(ctx, sessionID, slug, plainNavigation, verified)
	if err != nil {
		return nil, err
	}

	state.Exists = true
	state.Authenticated = authed
	state.IsPublic = notebook.IsPublic
	state.AlwaysRequirePassword = notebook.AlwaysRequirePassword
	if authed || notebook.IsPublic {
		content := notebook.Content
		updatedAt := notebook.UpdatedAt
		state.Content = &content
		state.UpdatedAt = &updatedAt
	}
	return state, nil
}
