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

// ApplicationService runs the candidate application state machine
type ApplicationService interface {
	Create(ctx context.Context, jobSeekerID, jobID int64, resumePath, coverLetter string) (*entity.Application, error)

	// UpdateStatus moves the application to target. Sending the current status
	// again only updates the employer notes.
	UpdateStatus(ctx context.Context, actorID, applicationID int64, target workflow.State, employerNotes string) (*entity.Application, error)

	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	HasApplied(ctx context.Context, jobSeekerID, jobID int64) (bool, error)
	ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID int64) ([]*entity.Application, error)
	ListPipeline(ctx context.Context, employerID int64) ([]*entity.PipelineEntry, error)
	Count(ctx context.Context) (int64, error)
}

type applicationServiceImpl struct {
	applicationRepo port.ApplicationRepository
	historyRepo     port.HistoryRepository
	txManager       port.TransactionManager
	logger          Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo port.ApplicationRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	logger Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applicationRepo: applicationRepo,
		historyRepo:     historyRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

var applicationStatuses = map[workflow.State]bool{
	entity.ApplicationSubmitted:   true,
	entity.ApplicationShortlisted: true,
	entity.ApplicationRejected:    true,
	entity.ApplicationHired:       true,
}

func (s *applicationServiceImpl) Create(ctx context.Context, jobSeekerID, jobID int64, resumePath, coverLetter string) (*entity.Application, error) {
	if blank(resumePath) {
		return nil, apperr.ValidationField("resume", "resume file is required")
	}

	app := &entity.Application{
		JobID:       jobID,
		JobSeekerID: jobSeekerID,
		Status:      entity.ApplicationSubmitted,
		ResumePath:  resumePath,
		CoverLetter: strings.TrimSpace(coverLetter),
		AppliedAt:   time.Now().UTC(),
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.applicationRepo.Exists(txCtx, jobID, jobSeekerID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.AlreadyExistsf("job seeker %d has already applied for job %d", jobSeekerID, jobID)
		}

		if err := s.applicationRepo.Create(txCtx, app); err != nil {
			return err
		}
		return appendHistory(txCtx, s.historyRepo, entity.EntityApplication, app.ID, "", app.Status, jobSeekerID, "")
	})
	if err != nil {
		s.logger.Error("Failed to create application", "job_id", jobID, "job_seeker_id", jobSeekerID, "error", err)
		return nil, err
	}

	s.logger.Info("Application created", "application_id", app.ID, "job_id", jobID, "job_seeker_id", jobSeekerID)
	return app, nil
}

func (s *applicationServiceImpl) UpdateStatus(ctx context.Context, actorID, applicationID int64, target workflow.State, employerNotes string) (*entity.Application, error) {
	if !applicationStatuses[target] {
		return nil, apperr.ValidationField("status", "status must be one of SUBMITTED, SHORTLISTED, REJECTED, HIRED")
	}
	notes := strings.TrimSpace(employerNotes)

	var app *entity.Application
	var from workflow.State

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		app, err = s.GetByID(txCtx, applicationID)
		if err != nil {
			return err
		}

		from = app.Status
		to := from
		if target != from {
			trigger, err := workflow.ApplicationStatusTrigger(target)
			if err != nil {
				return apperr.InvalidTransitionf("application %d cannot return to %s", applicationID, target)
			}
			if to, err = fire(txCtx, workflow.ApplicationMachine, "application", applicationID, from, trigger); err != nil {
				return err
			}
		}

		app.Status = to
		if notes != "" {
			app.EmployerNotes = notes
		}

		ok, err := s.applicationRepo.Save(txCtx, app, from)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace("application", applicationID, from)
		}

		if to != from {
			return appendHistory(txCtx, s.historyRepo, entity.EntityApplication, applicationID, from, to, actorID, notes)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update application status", "application_id", applicationID, "target", target, "error", err)
		return nil, err
	}

	s.logger.Info("Application status updated",
		"application_id", applicationID,
		"from", from,
		"to", app.Status,
		"actor_id", actorID,
	)
	return app, nil
}

func (s *applicationServiceImpl) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFoundf("application %d not found", id)
	}
	return app, nil
}

func (s *applicationServiceImpl) HasApplied(ctx context.Context, jobSeekerID, jobID int64) (bool, error) {
	return s.applicationRepo.Exists(ctx, jobID, jobSeekerID)
}

func (s *applicationServiceImpl) ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error) {
	return s.applicationRepo.ListByJob(ctx, jobID)
}

func (s *applicationServiceImpl) ListByJobSeeker(ctx context.Context, jobSeekerID int64) ([]*entity.Application, error) {
	return s.applicationRepo.ListByJobSeeker(ctx, jobSeekerID)
}

// ListPipeline is a read-only projection over applications, jobs and companies
func (s *applicationServiceImpl) ListPipeline(ctx context.Context, employerID int64) ([]*entity.PipelineEntry, error) {
	return s.applicationRepo.ListPipeline(ctx, employerID)
}

func (s *applicationServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.applicationRepo.Count(ctx)
}
