// Package orchestrator is the single entry point for marketplace operations.
// It resolves the acting principal, enforces role eligibility, ownership,
// disabled-account lockout and the causal order company -> payment -> job ->
// application, then delegates to the per-entity state machine services.
// Domain events are published only after the transition has committed.
package orchestrator

import (
	"context"

	"github.com/garyjia/jobsphere/internal/application/dispatcher"
	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/application/service"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
)

// Services groups the state machine components the orchestrator delegates to
type Services struct {
	Users         service.UserService
	Companies     service.CompanyService
	Payments      service.PaymentService
	Jobs          service.JobService
	Applications  service.ApplicationService
	Notifications service.NotificationService
	Reports       service.ReportService
}

// Orchestrator authorizes and sequences every workflow operation
type Orchestrator struct {
	users         service.UserService
	companies     service.CompanyService
	payments      service.PaymentService
	jobs          service.JobService
	applications  service.ApplicationService
	notifications service.NotificationService
	reports       service.ReportService

	txManager  port.TransactionManager
	files      port.FileStore
	exporter   port.PipelineExporter
	dispatcher dispatcher.Dispatcher
	logger     service.Logger
}

// Option configures the orchestrator
type Option func(*Orchestrator)

// WithDispatcher publishes committed transitions as domain events
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(o *Orchestrator) {
		o.dispatcher = d
	}
}

// WithFileStore enables resume and payment proof uploads
func WithFileStore(fs port.FileStore) Option {
	return func(o *Orchestrator) {
		o.files = fs
	}
}

// WithExporter enables the employer pipeline download
func WithExporter(e port.PipelineExporter) Option {
	return func(o *Orchestrator) {
		o.exporter = e
	}
}

// New creates an orchestrator over the given services
func New(services Services, txManager port.TransactionManager, logger service.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		users:         services.Users,
		companies:     services.Companies,
		payments:      services.Payments,
		jobs:          services.Jobs,
		applications:  services.Applications,
		notifications: services.Notifications,
		reports:       services.Reports,
		txManager:     txManager,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CurrentPrincipal resolves the acting identity from the user directory. The
// stored role and enabled flag are authoritative.
func (o *Orchestrator) CurrentPrincipal(ctx context.Context, userID int64) (access.Principal, error) {
	if userID <= 0 {
		return access.Principal{}, apperr.Unauthorizedf("authentication required")
	}
	user, err := o.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return access.Principal{}, apperr.Unauthorizedf("unknown user %d", userID)
		}
		return access.Principal{}, err
	}
	return user.Principal(), nil
}

// authorize checks role eligibility for a read
func authorize(p access.Principal, c access.Capability) error {
	if !access.Can(p, c) {
		return apperr.Unauthorizedf("role %s may not perform %s", p.Role, c)
	}
	return nil
}

// authorizeWrite adds the disabled-account lockout, which wins over role checks
func authorizeWrite(p access.Principal, c access.Capability) error {
	if err := checkEnabled(p); err != nil {
		return err
	}
	return authorize(p, c)
}

func checkEnabled(p access.Principal) error {
	if !p.Enabled {
		return apperr.AccountDisabled(p.UserID)
	}
	return nil
}

// ownedCompany returns the company of an employer principal
func (o *Orchestrator) ownedCompany(ctx context.Context, p access.Principal) (*entity.Company, error) {
	return o.companies.GetByOwner(ctx, p.UserID)
}

// jobOwner returns the owning company's user id of a job
func (o *Orchestrator) jobOwner(ctx context.Context, job *entity.Job) (int64, error) {
	company, err := o.companies.GetByID(ctx, job.CompanyID)
	if err != nil {
		return 0, err
	}
	return company.OwnerUserID, nil
}

// ownedJob loads a job and fails unless p owns it
func (o *Orchestrator) ownedJob(ctx context.Context, p access.Principal, jobID int64) (*entity.Job, error) {
	job, err := o.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	owner, err := o.jobOwner(ctx, job)
	if err != nil {
		return nil, err
	}
	if owner != p.UserID {
		return nil, apperr.Unauthorizedf("user %d does not own job %d", p.UserID, jobID)
	}
	return job, nil
}

type correlationKey struct{}

// WithCorrelationID tags ctx so events raised while serving it share the id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// emit publishes a committed transition. Delivery is asynchronous and its
// failures never reach the caller.
func (o *Orchestrator) emit(ctx context.Context, t event.Type, entityID, actorID int64, payload map[string]interface{}) {
	if o.dispatcher == nil {
		return
	}
	evt := event.NewEventWithCorrelation(t, entityID, actorID, payload, correlationID(ctx))
	o.dispatcher.DispatchAsync(ctx, evt)
}
