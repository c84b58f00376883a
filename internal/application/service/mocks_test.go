package service

import (
	"context"
	"sync"

	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// Mock repositories keep records in maps; func fields override individual calls.

type mockCompanyRepo struct {
	companies map[int64]*entity.Company
	nextID    int64

	createFunc       func(ctx context.Context, c *entity.Company) error
	markVerifiedFunc func(ctx context.Context, id int64) error
}

func newMockCompanyRepo(companies ...*entity.Company) *mockCompanyRepo {
	m := &mockCompanyRepo{companies: map[int64]*entity.Company{}}
	for _, c := range companies {
		m.companies[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	m.nextID++
	c.ID = m.nextID
	m.companies[c.ID] = c
	return nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	if c, ok := m.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *mockCompanyRepo) GetByOwner(ctx context.Context, ownerUserID int64) (*entity.Company, error) {
	for _, c := range m.companies {
		if c.OwnerUserID == ownerUserID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCompanyRepo) UpdateProfile(ctx context.Context, c *entity.Company) error {
	stored := m.companies[c.ID]
	verified := stored.PaymentVerified
	cp := *c
	cp.PaymentVerified = verified
	m.companies[c.ID] = &cp
	return nil
}

func (m *mockCompanyRepo) MarkPaymentVerified(ctx context.Context, id int64) error {
	if m.markVerifiedFunc != nil {
		return m.markVerifiedFunc(ctx, id)
	}
	m.companies[id].PaymentVerified = true
	return nil
}

func (m *mockCompanyRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.companies)), nil
}

type mockPaymentRepo struct {
	proofs map[int64]*entity.PaymentProof
	nextID int64

	saveDecisionFunc func(ctx context.Context, p *entity.PaymentProof, expected workflow.State) (bool, error)
}

func newMockPaymentRepo(proofs ...*entity.PaymentProof) *mockPaymentRepo {
	m := &mockPaymentRepo{proofs: map[int64]*entity.PaymentProof{}}
	for _, p := range proofs {
		m.proofs[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *entity.PaymentProof) error {
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.proofs[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*entity.PaymentProof, error) {
	if p, ok := m.proofs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockPaymentRepo) GetCurrent(ctx context.Context, companyID int64) (*entity.PaymentProof, error) {
	var current *entity.PaymentProof
	for _, p := range m.proofs {
		if p.CompanyID == companyID && (current == nil || p.ID > current.ID) {
			current = p
		}
	}
	return current, nil
}

func (m *mockPaymentRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.PaymentProof, error) {
	var out []*entity.PaymentProof
	for _, p := range m.proofs {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) ListByStatus(ctx context.Context, status workflow.State) ([]*entity.PaymentProof, error) {
	var out []*entity.PaymentProof
	for _, p := range m.proofs {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) SaveDecision(ctx context.Context, p *entity.PaymentProof, expected workflow.State) (bool, error) {
	if m.saveDecisionFunc != nil {
		return m.saveDecisionFunc(ctx, p, expected)
	}
	stored, ok := m.proofs[p.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	cp := *p
	m.proofs[p.ID] = &cp
	return true, nil
}

type mockJobRepo struct {
	jobs   map[int64]*entity.Job
	nextID int64

	saveFunc       func(ctx context.Context, j *entity.Job, expected workflow.State) (bool, error)
	listActiveFunc func(ctx context.Context, f entity.JobFilter) ([]*entity.Job, int64, error)
}

func newMockJobRepo(jobs ...*entity.Job) *mockJobRepo {
	m := &mockJobRepo{jobs: map[int64]*entity.Job{}}
	for _, j := range jobs {
		m.jobs[j.ID] = j
		if j.ID > m.nextID {
			m.nextID = j.ID
		}
	}
	return m
}

func (m *mockJobRepo) Create(ctx context.Context, j *entity.Job) error {
	m.nextID++
	j.ID = m.nextID
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id int64) (*entity.Job, error) {
	if j, ok := m.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *mockJobRepo) Save(ctx context.Context, j *entity.Job, expected workflow.State) (bool, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, j, expected)
	}
	stored, ok := m.jobs[j.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	cp := *j
	m.jobs[j.ID] = &cp
	return true, nil
}

func (m *mockJobRepo) ListActive(ctx context.Context, f entity.JobFilter) ([]*entity.Job, int64, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx, f)
	}
	var out []*entity.Job
	for _, j := range m.jobs {
		if j.Status == entity.JobActive {
			out = append(out, j)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockJobRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range m.jobs {
		if j.CompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) ListByStatus(ctx context.Context, status workflow.State) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range m.jobs {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, j := range m.jobs {
		counts[j.Status.String()]++
	}
	return counts, nil
}

type mockApplicationRepo struct {
	apps   map[int64]*entity.Application
	nextID int64

	existsFunc func(ctx context.Context, jobID, jobSeekerID int64) (bool, error)
}

func newMockApplicationRepo(apps ...*entity.Application) *mockApplicationRepo {
	m := &mockApplicationRepo{apps: map[int64]*entity.Application{}}
	for _, a := range apps {
		m.apps[a.ID] = a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *mockApplicationRepo) Create(ctx context.Context, a *entity.Application) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *mockApplicationRepo) Exists(ctx context.Context, jobID, jobSeekerID int64) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, jobID, jobSeekerID)
	}
	for _, a := range m.apps {
		if a.JobID == jobID && a.JobSeekerID == jobSeekerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApplicationRepo) Save(ctx context.Context, a *entity.Application, expected workflow.State) (bool, error) {
	stored, ok := m.apps[a.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	cp := *a
	m.apps[a.ID] = &cp
	return true, nil
}

func (m *mockApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range m.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListByJobSeeker(ctx context.Context, jobSeekerID int64) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range m.apps {
		if a.JobSeekerID == jobSeekerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListPipeline(ctx context.Context, employerID int64) ([]*entity.PipelineEntry, error) {
	return []*entity.PipelineEntry{}, nil
}

func (m *mockApplicationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.apps)), nil
}

type mockUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newMockUserRepo(users ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{users: map[int64]*entity.User{}}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	if u, ok := m.users[id]; ok {
		u.Enabled = enabled
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, role access.Role) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) ListIDsByRole(ctx context.Context, role access.Role) ([]int64, error) {
	var ids []int64
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok && u.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, u := range m.users {
		counts[string(u.Role)]++
	}
	return counts, nil
}

type mockNotificationRepo struct {
	mu    sync.Mutex
	items []*entity.Notification

	createFunc func(ctx context.Context, n *entity.Notification) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = int64(len(m.items) + 1)
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int64, error) {
	var mine []*entity.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, item := range m.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	for _, item := range m.items {
		if item.ID == id && item.UserID == userID {
			item.Read = true
			return true, nil
		}
	}
	return false, nil
}

type mockHistoryRepo struct {
	records []*entity.TransitionRecord

	appendFunc func(ctx context.Context, r *entity.TransitionRecord) error
}

func (m *mockHistoryRepo) Append(ctx context.Context, r *entity.TransitionRecord) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, r)
	}
	m.records = append(m.records, r)
	return nil
}

func (m *mockHistoryRepo) List(ctx context.Context, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error) {
	var out []*entity.TransitionRecord
	for _, r := range m.records {
		if r.EntityType == entityType && r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
