package port

import (
	"context"

	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// Lookups return (nil, nil) when the record does not exist.
//
// Save methods are compare-and-set: they write the record only while its
// stored status still equals expected and report whether a row was written.

// UserRepository is the user directory
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error

	// List returns users of a role, or all users when role is empty
	List(ctx context.Context, role access.Role) ([]*entity.User, error)
	ListIDsByRole(ctx context.Context, role access.Role) ([]int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

// CompanyRepository defines persistence operations for Company
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	GetByOwner(ctx context.Context, ownerUserID int64) (*entity.Company, error)

	// UpdateProfile writes the profile columns only
	UpdateProfile(ctx context.Context, company *entity.Company) error

	// MarkPaymentVerified sets the verified flag. There is no way to clear it.
	MarkPaymentVerified(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// PaymentRepository defines persistence operations for PaymentProof
type PaymentRepository interface {
	Create(ctx context.Context, proof *entity.PaymentProof) error
	GetByID(ctx context.Context, id int64) (*entity.PaymentProof, error)

	// GetCurrent returns the most recently created proof of the company
	GetCurrent(ctx context.Context, companyID int64) (*entity.PaymentProof, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.PaymentProof, error)
	ListByStatus(ctx context.Context, status workflow.State) ([]*entity.PaymentProof, error)
	SaveDecision(ctx context.Context, proof *entity.PaymentProof, expected workflow.State) (bool, error)
}

// JobRepository defines persistence operations for Job
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id int64) (*entity.Job, error)
	Save(ctx context.Context, job *entity.Job, expected workflow.State) (bool, error)

	// ListActive returns one page of ACTIVE jobs matching the filter and the total match count
	ListActive(ctx context.Context, filter entity.JobFilter) ([]*entity.Job, int64, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Job, error)
	ListByStatus(ctx context.Context, status workflow.State) ([]*entity.Job, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ApplicationRepository defines persistence operations for Application
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	Exists(ctx context.Context, jobID, jobSeekerID int64) (bool, error)
	Save(ctx context.Context, app *entity.Application, expected workflow.State) (bool, error)
	ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID int64) ([]*entity.Application, error)

	// ListPipeline joins applications across every job of the employer's company
	ListPipeline(ctx context.Context, employerID int64) ([]*entity.PipelineEntry, error)
	Count(ctx context.Context) (int64, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// MarkRead reports whether a notification owned by userID was found
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
}

// HistoryRepository stores the transition audit trail
type HistoryRepository interface {
	Append(ctx context.Context, record *entity.TransitionRecord) error
	List(ctx context.Context, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
