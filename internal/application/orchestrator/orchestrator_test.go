package orchestrator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/dispatcher"
	"github.com/garyjia/jobsphere/internal/application/orchestrator"
	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/application/service"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
	"github.com/garyjia/jobsphere/internal/infrastructure/export"
	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/repository"
	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/jobsphere/internal/infrastructure/storage"
	"github.com/garyjia/jobsphere/pkg/database"
	"github.com/garyjia/jobsphere/pkg/utils"
)

// syncDispatcher delivers events before the publishing call returns
type syncDispatcher struct {
	dispatcher.Dispatcher
}

func (d syncDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	_ = d.Dispatch(ctx, evt)
}

type harness struct {
	o       *orchestrator.Orchestrator
	files   *storage.LocalFileStorage
	mu      sync.Mutex
	events  []*event.Event
	baseDir string
	admin   access.Principal
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	zl := zap.NewNop()
	logger := utils.NewServiceLogger(zl)

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "orchestrator.db")}, zl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.NewMigrator(db, zl).Migrate())

	tx := sqlite.NewTxManager(db.DB, zl)
	history := repository.NewHistoryRepository(db.DB, zl)
	users := service.NewUserService(repository.NewUserRepository(db.DB, zl), logger)
	companyRepo := repository.NewCompanyRepository(db.DB, zl)
	companies := service.NewCompanyService(companyRepo, logger)
	payments := service.NewPaymentService(repository.NewPaymentRepository(db.DB, zl), companyRepo, history, tx, logger)
	jobs := service.NewJobService(repository.NewJobRepository(db.DB, zl), history, tx, logger)
	applications := service.NewApplicationService(repository.NewApplicationRepository(db.DB, zl), history, tx, logger)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db.DB, zl), logger)
	reports := service.NewReportService(users, companies, jobs, applications, history)

	baseDir := t.TempDir()
	files, err := storage.NewLocalFileStorage(baseDir, 1<<20, zl)
	require.NoError(t, err)

	h := &harness{files: files, baseDir: baseDir}
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(logger))
	handler := service.NewNotificationHandler(notifications, users, logger)
	d.SubscribeAll(handler.Types(), "notifications", handler.Handle)
	for _, et := range append(handler.Types(), event.TypeJobClosed) {
		d.SubscribeNamed(et, "recorder", func(_ context.Context, evt *event.Event) error {
			h.mu.Lock()
			h.events = append(h.events, evt)
			h.mu.Unlock()
			return nil
		})
	}

	h.o = orchestrator.New(orchestrator.Services{
		Users:         users,
		Companies:     companies,
		Payments:      payments,
		Jobs:          jobs,
		Applications:  applications,
		Notifications: notifications,
		Reports:       reports,
	}, tx, logger,
		orchestrator.WithDispatcher(syncDispatcher{d}),
		orchestrator.WithFileStore(files),
		orchestrator.WithExporter(export.NewPipelineExcelExporter(zl)),
	)
	return h
}

func (h *harness) register(t *testing.T, email string, role access.Role) access.Principal {
	t.Helper()
	u, err := h.o.RegisterUser(context.Background(), h.admin, email, "Test", string(role), role)
	require.NoError(t, err)
	p, err := h.o.CurrentPrincipal(context.Background(), u.ID)
	require.NoError(t, err)
	if role == access.RoleAdmin && h.admin.UserID == 0 {
		h.admin = p
	}
	return p
}

func (h *harness) principal(t *testing.T, id int64) access.Principal {
	t.Helper()
	p, err := h.o.CurrentPrincipal(context.Background(), id)
	require.NoError(t, err)
	return p
}

// verifiedEmployer registers an employer whose company already passed payment review
func (h *harness) verifiedEmployer(t *testing.T, email string, admin access.Principal) (access.Principal, *entity.Company) {
	t.Helper()
	ctx := context.Background()
	emp := h.register(t, email, access.RoleEmployer)
	company, err := h.o.CreateCompany(ctx, emp, entity.CompanyProfile{Name: "Acme " + email})
	require.NoError(t, err)
	proof, err := h.o.SubmitPayment(ctx, emp, "REF-"+email, pdf("proof.pdf"))
	require.NoError(t, err)
	_, err = h.o.DecidePayment(ctx, admin, proof.ID, entity.PaymentVerified, "")
	require.NoError(t, err)
	return emp, company
}

func (h *harness) activeJob(t *testing.T, emp, admin access.Principal, title string) *entity.Job {
	t.Helper()
	ctx := context.Background()
	job, err := h.o.CreateJob(ctx, emp, jobData(title))
	require.NoError(t, err)
	job, err = h.o.ApproveJob(ctx, admin, job.ID)
	require.NoError(t, err)
	return job
}

func (h *harness) notificationTypes(t *testing.T, p access.Principal) []string {
	t.Helper()
	page, err := h.o.ListNotifications(context.Background(), p, 0, 50)
	require.NoError(t, err)
	types := make([]string, 0, len(page.Items))
	for _, n := range page.Items {
		types = append(types, n.Type)
	}
	return types
}

func pdf(name string) port.Upload {
	return port.Upload{Filename: name, Content: strings.NewReader("%PDF-1.4 test")}
}

func jobData(title string) entity.JobData {
	return entity.JobData{Title: title, Description: "Build services", Category: "IT", Location: "Berlin", EmploymentType: entity.EmploymentFullTime}
}

func TestMarketplaceLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := orchestrator.WithCorrelationID(context.Background(), "req-1")

	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp := h.register(t, "hr@acme.test", access.RoleEmployer)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)

	// no company yet
	_, err := h.o.CreateJob(ctx, emp, jobData("Go Engineer"))
	assert.True(t, apperr.IsPaymentNotVerified(err), "got %v", err)

	company, err := h.o.CreateCompany(ctx, emp, entity.CompanyProfile{Name: "Acme"})
	require.NoError(t, err)
	assert.False(t, company.PaymentVerified)

	_, err = h.o.CreateJob(ctx, emp, jobData("Go Engineer"))
	assert.True(t, apperr.IsPaymentNotVerified(err))

	status, err := h.o.MyPaymentStatus(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentNone, status.Status)

	// rejected proof, then a verified resubmission
	first, err := h.o.SubmitPayment(ctx, emp, "TX-1", pdf("receipt.pdf"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPendingReview, first.Status)
	assert.Contains(t, h.notificationTypes(t, admin), entity.NotifyPaymentSubmitted)

	_, err = h.o.DecidePayment(ctx, admin, first.ID, entity.PaymentRejected, "")
	assert.True(t, apperr.IsValidation(err), "rejection needs notes")

	_, err = h.o.DecidePayment(ctx, admin, first.ID, entity.PaymentRejected, "amount does not match")
	require.NoError(t, err)
	assert.Contains(t, h.notificationTypes(t, emp), entity.NotifyPaymentRejected)

	_, err = h.o.DecidePayment(ctx, admin, first.ID, entity.PaymentVerified, "")
	assert.True(t, apperr.IsInvalidTransition(err))

	second, err := h.o.SubmitPayment(ctx, emp, "TX-2", pdf("receipt2.pdf"))
	require.NoError(t, err)
	_, err = h.o.DecidePayment(ctx, admin, second.ID, entity.PaymentVerified, "")
	require.NoError(t, err)

	status, err = h.o.MyPaymentStatus(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentVerified, status.Status)
	assert.True(t, status.PaymentVerified)

	proofs, err := h.o.ListMyPayments(ctx, emp)
	require.NoError(t, err)
	assert.Len(t, proofs, 2)

	// job review
	job, err := h.o.CreateJob(ctx, emp, jobData("Go Engineer"))
	require.NoError(t, err)
	assert.Equal(t, entity.JobPendingApproval, job.Status)
	assert.Contains(t, h.notificationTypes(t, admin), entity.NotifyJobSubmitted)

	_, err = h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "")
	assert.True(t, apperr.IsJobNotAvailable(err))

	_, err = h.o.GetJob(ctx, seeker, job.ID)
	assert.True(t, apperr.IsNotFound(err), "pending jobs are hidden from the public")

	job, err = h.o.ApproveJob(ctx, admin, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobActive, job.Status)
	assert.NotNil(t, job.PublishedAt)
	assert.Contains(t, h.notificationTypes(t, emp), entity.NotifyJobApproved)

	board, err := h.o.ListActiveJobs(ctx, entity.JobFilter{Keyword: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, board.Total)

	// application
	app, err := h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "Hello")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationSubmitted, app.Status)
	assert.Contains(t, h.notificationTypes(t, emp), entity.NotifyApplicationCreated)

	_, err = h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "again")
	assert.True(t, apperr.IsAlreadyExists(err))

	_, err = h.o.Apply(ctx, emp, job.ID, pdf("cv.pdf"), "")
	assert.True(t, apperr.IsUnauthorized(err))

	app, err = h.o.UpdateApplicationStatus(ctx, emp, app.ID, entity.ApplicationShortlisted, "strong profile")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationShortlisted, app.Status)
	assert.Contains(t, h.notificationTypes(t, seeker), entity.NotifyApplicationUpdated)

	app, err = h.o.UpdateApplicationStatus(ctx, emp, app.ID, entity.ApplicationHired, "")
	require.NoError(t, err)

	_, err = h.o.UpdateApplicationStatus(ctx, emp, app.ID, entity.ApplicationRejected, "")
	assert.True(t, apperr.IsInvalidTransition(err), "hired is terminal")

	trail, err := h.o.History(ctx, seeker, entity.EntityApplication, app.ID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, entity.ApplicationHired, trail[2].ToStatus)

	resume, err := h.o.ResumeFile(ctx, emp, app.ID)
	require.NoError(t, err)
	content, err := os.ReadFile(resume)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(content))

	// closing keeps applications readable
	_, err = h.o.CloseJob(ctx, emp, job.ID)
	require.NoError(t, err)
	apps, err := h.o.ListJobApplications(ctx, emp, job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	stats, err := h.o.Stats(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Companies)
	assert.EqualValues(t, 1, stats.Applications)

	for _, evt := range h.events {
		assert.Equal(t, "req-1", evt.CorrelationID, "event %s", evt.Type)
	}
}

func TestApply_CheckOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)

	pending, err := h.o.CreateJob(ctx, emp, jobData("Pending"))
	require.NoError(t, err)
	active := h.activeJob(t, emp, admin, "Active")

	tests := []struct {
		name    string
		p       access.Principal
		jobID   int64
		wantErr func(error) bool
	}{
		{"employer on pending job sees availability first", emp, pending.ID, apperr.IsJobNotAvailable},
		{"admin on active job", admin, active.ID, apperr.IsUnauthorized},
		{"unknown job", seeker, 9999, apperr.IsNotFound},
		{"disabled wins over everything", access.Principal{UserID: seeker.UserID, Role: access.RoleJobSeeker}, pending.ID, apperr.IsAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.o.Apply(ctx, tt.p, tt.jobID, pdf("cv.pdf"), "")
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "got %v", err)
		})
	}

	entries, err := os.ReadDir(filepath.Join(h.baseDir, port.CategoryResume))
	if err == nil {
		assert.Empty(t, entries, "rejected applications leave no uploads behind")
	}
}

func TestApply_RejectsBadResume(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)
	job := h.activeJob(t, emp, admin, "Go Engineer")

	_, err := h.o.Apply(ctx, seeker, job.ID, port.Upload{Filename: "cv.exe", Content: strings.NewReader("x")}, "")
	assert.True(t, apperr.IsValidation(err))

	_, err = h.o.Apply(ctx, seeker, job.ID, port.Upload{}, "")
	assert.True(t, apperr.IsValidation(err))
}

func TestDisabledAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)
	job := h.activeJob(t, emp, admin, "Go Engineer")

	_, err := h.o.SetUserEnabled(ctx, admin, admin.UserID, false)
	assert.True(t, apperr.IsValidation(err))

	_, err = h.o.SetUserEnabled(ctx, seeker, emp.UserID, false)
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = h.o.SetUserEnabled(ctx, admin, emp.UserID, false)
	require.NoError(t, err)
	emp = h.principal(t, emp.UserID)
	assert.False(t, emp.Enabled)

	_, err = h.o.CreateJob(ctx, emp, jobData("Another"))
	assert.True(t, apperr.IsAccountDisabled(err))
	_, err = h.o.CloseJob(ctx, emp, job.ID)
	assert.True(t, apperr.IsAccountDisabled(err))

	// reads stay available
	jobs, err := h.o.ListMyJobs(ctx, emp)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	// the seeker may apply to a disabled employer's live job
	_, err = h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "")
	require.NoError(t, err)

	_, err = h.o.SetUserEnabled(ctx, admin, emp.UserID, true)
	require.NoError(t, err)
	_, err = h.o.CreateJob(ctx, h.principal(t, emp.UserID), jobData("Another"))
	require.NoError(t, err)
}

func TestOwnershipBoundaries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, company := h.verifiedEmployer(t, "hr@acme.test", admin)
	rival, _ := h.verifiedEmployer(t, "hr@rival.test", admin)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)
	other := h.register(t, "bob@example.com", access.RoleJobSeeker)
	job := h.activeJob(t, emp, admin, "Go Engineer")

	app, err := h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "")
	require.NoError(t, err)

	_, err = h.o.UpdateApplicationStatus(ctx, rival, app.ID, entity.ApplicationShortlisted, "")
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = h.o.CloseJob(ctx, rival, job.ID)
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = h.o.ListJobApplications(ctx, rival, job.ID)
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = h.o.GetApplication(ctx, other, app.ID)
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = h.o.PaymentStatus(ctx, rival, company.ID)
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = h.o.GetApplication(ctx, admin, app.ID)
	assert.NoError(t, err)
	_, err = h.o.PaymentStatus(ctx, admin, company.ID)
	assert.NoError(t, err)

	pending, err := h.o.CreateJob(ctx, emp, jobData("Hidden"))
	require.NoError(t, err)
	listed, err := h.o.ListCompanyJobs(ctx, other, company.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, job.ID, listed[0].ID)

	own, err := h.o.ListCompanyJobs(ctx, emp, company.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	got, err := h.o.GetJob(ctx, emp, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobPendingApproval, got.Status)
}

func TestJobRejectAndResubmit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)

	job, err := h.o.CreateJob(ctx, emp, jobData("Vague"))
	require.NoError(t, err)

	_, err = h.o.RejectJob(ctx, admin, job.ID, "")
	assert.True(t, apperr.IsValidation(err))

	job, err = h.o.RejectJob(ctx, admin, job.ID, "needs a salary range")
	require.NoError(t, err)
	assert.Equal(t, entity.JobRejected, job.Status)
	assert.Contains(t, h.notificationTypes(t, emp), entity.NotifyJobRejected)

	data := jobData("Clear")
	lo, hi := 50000.0, 70000.0
	data.MinSalary, data.MaxSalary = &lo, &hi
	job, err = h.o.UpdateJob(ctx, emp, job.ID, data)
	require.NoError(t, err)
	assert.Equal(t, entity.JobPendingApproval, job.Status)
	assert.Equal(t, "needs a salary range", job.RejectionReason, "kept until re-approval")

	var resubmitted bool
	for _, evt := range h.events {
		if evt.Type == event.TypeJobResubmitted && evt.EntityID == job.ID {
			resubmitted = true
		}
	}
	assert.True(t, resubmitted)

	pending, err := h.o.ListPendingJobs(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Clear", pending[0].Title)
}

func TestExportPipeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)
	seeker := h.register(t, "ana@example.com", access.RoleJobSeeker)
	job := h.activeJob(t, emp, admin, "Go Engineer")

	_, err := h.o.Apply(ctx, seeker, job.ID, pdf("cv.pdf"), "")
	require.NoError(t, err)

	contentType, ext := h.o.ExportFormat()
	assert.Equal(t, ".xlsx", ext)
	assert.NotEmpty(t, contentType)

	var buf bytes.Buffer
	require.NoError(t, h.o.ExportPipeline(ctx, emp, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Go Engineer", rows[1][2])

	err = h.o.ExportPipeline(ctx, seeker, &bytes.Buffer{})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestCurrentPrincipal(t *testing.T) {
	h := newHarness(t)

	_, err := h.o.CurrentPrincipal(context.Background(), 0)
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = h.o.CurrentPrincipal(context.Background(), 42)
	assert.True(t, apperr.IsUnauthorized(err))

	p := h.register(t, "ana@example.com", access.RoleJobSeeker)
	assert.True(t, p.Enabled)
	assert.Equal(t, access.RoleJobSeeker, p.Role)
}

func TestRegisterUser_AdminAccounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.o.RegisterUser(ctx, access.Principal{}, "root@example.com", "Root", "Admin", access.RoleAdmin)
	require.NoError(t, err, "the first admin bootstraps itself")
	seeker, err := h.o.RegisterUser(ctx, access.Principal{}, "ana@example.com", "Ana", "Lee", access.RoleJobSeeker)
	require.NoError(t, err)

	_, err = h.o.RegisterUser(ctx, access.Principal{}, "mallory@example.com", "M", "X", access.RoleAdmin)
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = h.o.RegisterUser(ctx, seeker.Principal(), "mallory@example.com", "M", "X", access.RoleAdmin)
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = h.o.RegisterUser(ctx, first.Principal(), "ops@example.com", "Ops", "Admin", access.RoleAdmin)
	require.NoError(t, err)

	_, err = h.o.RegisterUser(ctx, access.Principal{}, "ANA@example.com", "Ana", "Again", access.RoleJobSeeker)
	assert.True(t, apperr.IsAlreadyExists(err))
}

// race runs n calls at once and sorts the outcomes into successes and errors
func race(n int, call func(i int) error) (int, []error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := call(i)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes++
		}(i)
	}
	close(start)
	wg.Wait()
	return successes, failures
}

func TestDecidePayment_ConcurrentDecisionsSucceedOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp := h.register(t, "hr@acme.test", access.RoleEmployer)
	_, err := h.o.CreateCompany(ctx, emp, entity.CompanyProfile{Name: "Acme"})
	require.NoError(t, err)
	proof, err := h.o.SubmitPayment(ctx, emp, "TX-1", pdf("receipt.pdf"))
	require.NoError(t, err)

	successes, failures := race(8, func(i int) error {
		target, notes := entity.PaymentVerified, ""
		if i%2 == 1 {
			target, notes = entity.PaymentRejected, "amount does not match"
		}
		_, err := h.o.DecidePayment(ctx, admin, proof.ID, target, notes)
		return err
	})
	assert.Equal(t, 1, successes)
	require.Len(t, failures, 7)
	for _, err := range failures {
		assert.True(t, apperr.IsInvalidTransition(err), "got %v", err)
	}

	decided, err := h.o.GetPaymentProof(ctx, admin, proof.ID)
	require.NoError(t, err)
	company, err := h.o.MyCompany(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, decided.Status == entity.PaymentVerified, company.PaymentVerified)

	trail, err := h.o.History(ctx, admin, entity.EntityPaymentProof, proof.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 2, "submission plus exactly one decision")
}

func TestJobDecision_ConcurrentApproveRejectSucceedOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.register(t, "admin@example.com", access.RoleAdmin)
	emp, _ := h.verifiedEmployer(t, "hr@acme.test", admin)
	job, err := h.o.CreateJob(ctx, emp, jobData("Go Engineer"))
	require.NoError(t, err)

	successes, failures := race(8, func(i int) error {
		var err error
		if i%2 == 0 {
			_, err = h.o.ApproveJob(ctx, admin, job.ID)
		} else {
			_, err = h.o.RejectJob(ctx, admin, job.ID, "too vague")
		}
		return err
	})
	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, apperr.IsInvalidTransition(err), "got %v", err)
	}
}

func TestRegisterUser_ConcurrentAdminBootstrap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var winner atomic.Int64
	successes, failures := race(6, func(i int) error {
		u, err := h.o.RegisterUser(ctx, access.Principal{}, fmt.Sprintf("root%d@example.com", i), "Root", "Admin", access.RoleAdmin)
		if err == nil {
			winner.Store(u.ID)
		}
		return err
	})
	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, apperr.IsUnauthorized(err), "got %v", err)
	}

	admins, err := h.o.ListUsers(ctx, h.principal(t, winner.Load()), access.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}
