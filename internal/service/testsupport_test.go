package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/pkg/logger"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/memory"
	"cloudnote-be/internal/repository/unitofwork"
	"cloudnote-be/pkg/credential"

	"golang.org/x/crypto/bcrypt"
)

// fakeNotebookRepo is an in-memory stand-in for the GORM-backed store.
type fakeNotebookRepo struct {
	mu        sync.Mutex
	notebooks map[string]*entity.Notebook

	failWith error
}

func newFakeNotebookRepo() *fakeNotebookRepo {
	return &fakeNotebookRepo{notebooks: map[string]*entity.Notebook{}}
}

func (r *fakeNotebookRepo) seed(slug, password string, mutate ...func(*entity.Notebook)) *entity.Notebook {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	n := &entity.Notebook{
		Slug:         slug,
		PasswordHash: string(hash),
		Content:      "seeded content",
		CreatedAt:    time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Minute),
	}
	for _, m := range mutate {
		m(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notebooks[slug] = n
	return n
}

func (r *fakeNotebookRepo) get(slug string) (*entity.Notebook, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notebooks[slug]
	return n, ok
}

func (r *fakeNotebookRepo) Exists(ctx context.Context, slug string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	_, ok := r.get(slug)
	return ok, nil
}

func (r *fakeNotebookRepo) Create(ctx context.Context, notebook *entity.Notebook) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *notebook
	r.notebooks[notebook.Slug] = &copied
	return nil
}

func (r *fakeNotebookRepo) FindBySlug(ctx context.Context, slug string) (*entity.Notebook, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotebookRepo) GetContent(ctx context.Context, slug string) (string, bool, error) {
	if r.failWith != nil {
		return "", false, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return "", false, nil
	}
	return n.Content, true, nil
}

func (r *fakeNotebookRepo) GetPasswordHash(ctx context.Context, slug string) (string, bool, error) {
	if r.failWith != nil {
		return "", false, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return "", false, nil
	}
	return n.PasswordHash, true, nil
}

func (r *fakeNotebookRepo) GetAlwaysRequirePassword(ctx context.Context, slug string) (bool, bool, error) {
	if r.failWith != nil {
		return false, false, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return false, false, nil
	}
	return n.AlwaysRequirePassword, true, nil
}

func (r *fakeNotebookRepo) IsPublic(ctx context.Context, slug string) (bool, bool, error) {
	if r.failWith != nil {
		return false, false, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return false, false, nil
	}
	return n.IsPublic, true, nil
}

func (r *fakeNotebookRepo) GetArchiveCode(ctx context.Context, slug string) (string, bool, error) {
	if r.failWith != nil {
		return "", false, r.failWith
	}
	n, ok := r.get(slug)
	if !ok {
		return "", false, nil
	}
	return n.ArchiveCode, true, nil
}

func (r *fakeNotebookRepo) UpdateContent(ctx context.Context, slug, content string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notebooks[slug]
	if !ok {
		return false, nil
	}
	n.Content = content
	n.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeNotebookRepo) setFlag(slug string, apply func(*entity.Notebook)) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notebooks[slug]
	if !ok {
		return false, nil
	}
	apply(n)
	return true, nil
}

func (r *fakeNotebookRepo) SetAlwaysRequirePassword(ctx context.Context, slug string, value bool) (bool, error) {
	return r.setFlag(slug, func(n *entity.Notebook) { n.AlwaysRequirePassword = value })
}

func (r *fakeNotebookRepo) SetPublic(ctx context.Context, slug string, value bool) (bool, error) {
	return r.setFlag(slug, func(n *entity.Notebook) { n.IsPublic = value })
}

func (r *fakeNotebookRepo) SetArchiveCode(ctx context.Context, slug, code string) (bool, error) {
	return r.setFlag(slug, func(n *entity.Notebook) { n.ArchiveCode = code })
}

func (r *fakeNotebookRepo) sortedSlugs() []string {
	slugs := make([]string, 0, len(r.notebooks))
	for slug := range r.notebooks {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func (r *fakeNotebookRepo) List(ctx context.Context, offset, limit int) ([]*entity.Notebook, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notebook
	for i, slug := range r.sortedSlugs() {
		if i < offset || len(out) >= limit {
			continue
		}
		copied := *r.notebooks[slug]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeNotebookRepo) Count(ctx context.Context) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notebooks)), nil
}

func (r *fakeNotebookRepo) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notebooks[slug]; !ok {
		return false, nil
	}
	delete(r.notebooks, slug)
	return true, nil
}

func (r *fakeNotebookRepo) FindByArchiveCode(ctx context.Context, code string, offset, limit int) ([]*entity.Notebook, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notebook
	matched := 0
	for _, slug := range r.sortedSlugs() {
		n := r.notebooks[slug]
		if code == "" || n.ArchiveCode != code {
			continue
		}
		if matched >= offset && len(out) < limit {
			copied := *n
			out = append(out, &copied)
		}
		matched++
	}
	return out, nil
}

func (r *fakeNotebookRepo) CountByArchiveCode(ctx context.Context, code string) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notebooks {
		if code != "" && n.ArchiveCode == code {
			count++
		}
	}
	return count, nil
}

// fakeAuditLogRepo records audit rows in memory.
type fakeAuditLogRepo struct {
	mu   sync.Mutex
	logs []*entity.AuditLog
}

func (r *fakeAuditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *log
	copied.CreatedAt = time.Now()
	r.logs = append(r.logs, &copied)
	return nil
}

func (r *fakeAuditLogRepo) FindRecent(ctx context.Context, limit int) ([]*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AuditLog, 0, limit)
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.logs[i]
		out = append(out, &copied)
	}
	return out, nil
}

// fakeUow hands out the shared fakes; Begin/Commit/Rollback only track calls.
type fakeUow struct {
	notebooks *fakeNotebookRepo
	audits    *fakeAuditLogRepo

	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *fakeUow) Commit() error                   { u.committed = true; return nil }
func (u *fakeUow) Rollback() error                 { u.rolledBack = true; return nil }

func (u *fakeUow) NotebookRepository() contract.NotebookRepository { return u.notebooks }
func (u *fakeUow) AuditLogRepository() contract.AuditLogRepository { return u.audits }

type fakeFactory struct {
	uow *fakeUow
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUow{
		notebooks: newFakeNotebookRepo(),
		audits:    &fakeAuditLogRepo{},
	}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// capturingPublisher collects published payloads for assertions.
type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

// nopLogger satisfies logger.ILogger without writing anywhere.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func newTestSessions() contract.SessionRepository {
	return memory.NewSessionRepository(time.Hour)
}

func hashFor(password string) string {
	h, _ := credential.Hash(password)
	return h
}
