package service

import (
	"context"
	"strings"
	"time"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// JobService runs the job posting state machine
type JobService interface {
	Create(ctx context.Context, actorID, companyID int64, data entity.JobData) (*entity.Job, error)

	// Update edits a job awaiting approval. On a REJECTED job it is the
	// resubmission: the job returns to PENDING_APPROVAL.
	Update(ctx context.Context, actorID, jobID int64, data entity.JobData) (*entity.Job, error)

	Approve(ctx context.Context, actorID, jobID int64) (*entity.Job, error)
	Reject(ctx context.Context, actorID, jobID int64, reason string) (*entity.Job, error)
	Close(ctx context.Context, actorID, jobID int64) (*entity.Job, error)

	GetByID(ctx context.Context, id int64) (*entity.Job, error)
	ListActive(ctx context.Context, filter entity.JobFilter) (*entity.Page[*entity.Job], error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Job, error)
	ListPending(ctx context.Context) ([]*entity.Job, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type jobServiceImpl struct {
	jobRepo     port.JobRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo port.JobRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	logger Logger,
) JobService {
	return &jobServiceImpl{
		jobRepo:     jobRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ValidateJobData checks the employer-supplied posting fields
func ValidateJobData(d entity.JobData) error {
	switch {
	case blank(d.Title):
		return apperr.ValidationField("title", "title is required")
	case blank(d.Category):
		return apperr.ValidationField("category", "category is required")
	case blank(d.Location):
		return apperr.ValidationField("location", "location is required")
	case d.MinSalary != nil && *d.MinSalary < 0:
		return apperr.ValidationField("min_salary", "salary cannot be negative")
	case d.MaxSalary != nil && *d.MaxSalary < 0:
		return apperr.ValidationField("max_salary", "salary cannot be negative")
	case d.MinSalary != nil && d.MaxSalary != nil && *d.MinSalary > *d.MaxSalary:
		return apperr.ValidationField("max_salary", "maximum salary must not be below minimum salary")
	}
	return nil
}

func trimJobData(d entity.JobData) entity.JobData {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
	d.EmploymentType = strings.ToUpper(strings.TrimSpace(d.EmploymentType))
	return d
}

func (s *jobServiceImpl) Create(ctx context.Context, actorID, companyID int64, data entity.JobData) (*entity.Job, error) {
	if err := ValidateJobData(data); err != nil {
		return nil, err
	}

	job := &entity.Job{CompanyID: companyID, Status: entity.JobPendingApproval}
	job.Apply(trimJobData(data))

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.jobRepo.Create(txCtx, job); err != nil {
			return err
		}
		return appendHistory(txCtx, s.historyRepo, entity.EntityJob, job.ID, "", job.Status, actorID, "")
	})
	if err != nil {
		s.logger.Error("Failed to create job", "company_id", companyID, "error", err)
		return nil, err
	}

	s.logger.Info("Job created", "job_id", job.ID, "company_id", companyID, "actor_id", actorID)
	return job, nil
}

func (s *jobServiceImpl) Update(ctx context.Context, actorID, jobID int64, data entity.JobData) (*entity.Job, error) {
	if err := ValidateJobData(data); err != nil {
		return nil, err
	}

	var job *entity.Job
	var from workflow.State

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		job, err = s.GetByID(txCtx, jobID)
		if err != nil {
			return err
		}

		from = job.Status
		to := from
		switch from {
		case entity.JobPendingApproval:
		case entity.JobRejected:
			if to, err = fire(txCtx, workflow.JobMachine, "job", jobID, from, workflow.TriggerResubmit); err != nil {
				return err
			}
		default:
			return apperr.InvalidTransitionf("job %d cannot be edited while %s", jobID, from)
		}

		job.Apply(trimJobData(data))
		job.Status = to

		ok, err := s.jobRepo.Save(txCtx, job, from)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace("job", jobID, from)
		}

		if to != from {
			return appendHistory(txCtx, s.historyRepo, entity.EntityJob, jobID, from, to, actorID, "resubmitted")
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update job", "job_id", jobID, "error", err)
		return nil, err
	}

	s.logger.Info("Job updated", "job_id", jobID, "from", from, "to", job.Status, "actor_id", actorID)
	return job, nil
}

// transition loads the job, fires trigger, lets mutate adjust the record and
// persists it with a compare-and-set on the source status
func (s *jobServiceImpl) transition(ctx context.Context, actorID, jobID int64, trigger workflow.Trigger, note string, mutate func(*entity.Job)) (*entity.Job, error) {
	var job *entity.Job
	var from workflow.State

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		job, err = s.GetByID(txCtx, jobID)
		if err != nil {
			return err
		}

		from = job.Status
		to, err := fire(txCtx, workflow.JobMachine, "job", jobID, from, trigger)
		if err != nil {
			return err
		}

		job.Status = to
		if mutate != nil {
			mutate(job)
		}

		ok, err := s.jobRepo.Save(txCtx, job, from)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace("job", jobID, from)
		}

		return appendHistory(txCtx, s.historyRepo, entity.EntityJob, jobID, from, to, actorID, note)
	})
	if err != nil {
		s.logger.Error("Job transition failed", "job_id", jobID, "trigger", trigger, "error", err)
		return nil, err
	}

	s.logger.Info("Job transitioned", "job_id", jobID, "from", from, "to", job.Status, "actor_id", actorID)
	return job, nil
}

func (s *jobServiceImpl) Approve(ctx context.Context, actorID, jobID int64) (*entity.Job, error) {
	return s.transition(ctx, actorID, jobID, workflow.TriggerApprove, "", func(j *entity.Job) {
		published := time.Now().UTC()
		j.ApprovedBy = &actorID
		j.PublishedAt = &published
		j.RejectionReason = ""
	})
}

func (s *jobServiceImpl) Reject(ctx context.Context, actorID, jobID int64, reason string) (*entity.Job, error) {
	if blank(reason) {
		return nil, apperr.ValidationField("reason", "rejection reason is required")
	}
	reason = strings.TrimSpace(reason)

	return s.transition(ctx, actorID, jobID, workflow.TriggerReject, reason, func(j *entity.Job) {
		j.RejectionReason = reason
		j.ApprovedBy = nil
	})
}

func (s *jobServiceImpl) Close(ctx context.Context, actorID, jobID int64) (*entity.Job, error) {
	return s.transition(ctx, actorID, jobID, workflow.TriggerClose, "", nil)
}

func (s *jobServiceImpl) GetByID(ctx context.Context, id int64) (*entity.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFoundf("job %d not found", id)
	}
	return job, nil
}

func (s *jobServiceImpl) ListActive(ctx context.Context, filter entity.JobFilter) (*entity.Page[*entity.Job], error) {
	filter.Normalize()
	if filter.MinSalary != nil && filter.MaxSalary != nil && *filter.MinSalary > *filter.MaxSalary {
		return nil, apperr.ValidationField("max_salary", "maximum salary must not be below minimum salary")
	}

	jobs, total, err := s.jobRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*entity.Job{}
	}

	return &entity.Page[*entity.Job]{
		Items: jobs,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	}, nil
}

func (s *jobServiceImpl) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Job, error) {
	return s.jobRepo.ListByCompany(ctx, companyID)
}

func (s *jobServiceImpl) ListPending(ctx context.Context) ([]*entity.Job, error) {
	return s.jobRepo.ListByStatus(ctx, entity.JobPendingApproval)
}

func (s *jobServiceImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.jobRepo.CountByStatus(ctx)
}
