package orchestrator

import (
	"context"
	"io"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

var resumeExtensions = []string{".pdf", ".doc", ".docx"}

// Apply submits a candidacy. A job that is not ACTIVE yields
// job_not_available whatever the caller's role; the role and duplicate checks
// follow, all inside one transaction with the insert.
func (o *Orchestrator) Apply(ctx context.Context, p access.Principal, jobID int64, resume port.Upload, coverLetter string) (*entity.Application, error) {
	if err := checkEnabled(p); err != nil {
		return nil, err
	}

	var app *entity.Application
	var job *entity.Job
	err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		job, err = o.jobs.GetByID(txCtx, jobID)
		if err != nil {
			return err
		}
		if job.Status != entity.JobActive {
			return apperr.JobNotAvailablef("job %d is not accepting applications", jobID)
		}
		if err := authorize(p, access.CapApplicationCreate); err != nil {
			return err
		}

		applied, err := o.applications.HasApplied(txCtx, p.UserID, jobID)
		if err != nil {
			return err
		}
		if applied {
			return apperr.AlreadyExistsf("job seeker %d has already applied for job %d", p.UserID, jobID)
		}

		path, err := o.store(txCtx, port.CategoryResume, resume, resumeExtensions)
		if err != nil {
			return err
		}
		if app, err = o.applications.Create(txCtx, p.UserID, jobID, path, coverLetter); err != nil {
			o.discard(ctx, path)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	owner, err := o.jobOwner(ctx, job)
	if err != nil {
		o.logger.Error("Application created but owner lookup failed", "application_id", app.ID, "error", err)
		return app, nil
	}
	o.emit(ctx, event.TypeApplicationCreated, app.ID, p.UserID, map[string]interface{}{
		event.KeyJobID:       job.ID,
		event.KeyJobTitle:    job.Title,
		event.KeyOwnerUserID: owner,
		event.KeyJobSeekerID: p.UserID,
		event.KeyToStatus:    app.Status,
	})
	return app, nil
}

// UpdateApplicationStatus is the employer's decision on a candidate of one of
// their jobs. Sending the current status again only replaces the notes.
func (o *Orchestrator) UpdateApplicationStatus(ctx context.Context, p access.Principal, applicationID int64, target workflow.State, notes string) (*entity.Application, error) {
	if err := authorizeWrite(p, access.CapApplicationUpdateStatus); err != nil {
		return nil, err
	}
	current, err := o.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := o.ownedJob(ctx, p, current.JobID)
	if err != nil {
		return nil, err
	}

	app, err := o.applications.UpdateStatus(ctx, p.UserID, applicationID, target, notes)
	if err != nil {
		return nil, err
	}

	if app.Status != current.Status {
		o.emit(ctx, event.TypeApplicationStatus, app.ID, p.UserID, map[string]interface{}{
			event.KeyJobID:       job.ID,
			event.KeyJobTitle:    job.Title,
			event.KeyOwnerUserID: p.UserID,
			event.KeyJobSeekerID: app.JobSeekerID,
			event.KeyFromStatus:  current.Status,
			event.KeyToStatus:    app.Status,
			event.KeyNote:        app.EmployerNotes,
		})
	}
	return app, nil
}

// GetApplication is visible to the candidate, the job's employer and admins
func (o *Orchestrator) GetApplication(ctx context.Context, p access.Principal, applicationID int64) (*entity.Application, error) {
	app, err := o.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if p.Is(access.RoleAdmin) || app.JobSeekerID == p.UserID {
		return app, nil
	}
	if p.Is(access.RoleEmployer) {
		if _, err := o.ownedJob(ctx, p, app.JobID); err == nil {
			return app, nil
		} else if !apperr.IsUnauthorized(err) {
			return nil, err
		}
	}
	return nil, apperr.Unauthorizedf("user %d may not view application %d", p.UserID, applicationID)
}

// ResumeFile resolves the stored resume of an application
func (o *Orchestrator) ResumeFile(ctx context.Context, p access.Principal, applicationID int64) (string, error) {
	app, err := o.GetApplication(ctx, p, applicationID)
	if err != nil {
		return "", err
	}
	return o.resolve(app.ResumePath)
}

// ListJobApplications returns the candidates of a job to its employer or an admin
func (o *Orchestrator) ListJobApplications(ctx context.Context, p access.Principal, jobID int64) ([]*entity.Application, error) {
	if err := authorize(p, access.CapApplicationViewJob); err != nil {
		return nil, err
	}
	if p.Is(access.RoleAdmin) {
		if _, err := o.jobs.GetByID(ctx, jobID); err != nil {
			return nil, err
		}
	} else if _, err := o.ownedJob(ctx, p, jobID); err != nil {
		return nil, err
	}
	return o.applications.ListByJob(ctx, jobID)
}

// ListMyApplications returns the candidate's own applications
func (o *Orchestrator) ListMyApplications(ctx context.Context, p access.Principal) ([]*entity.Application, error) {
	if err := authorize(p, access.CapApplicationViewOwn); err != nil {
		return nil, err
	}
	return o.applications.ListByJobSeeker(ctx, p.UserID)
}

// EmployerPipeline lists applications across every job of the employer's company
func (o *Orchestrator) EmployerPipeline(ctx context.Context, p access.Principal) ([]*entity.PipelineEntry, error) {
	if err := authorize(p, access.CapApplicationViewPipeline); err != nil {
		return nil, err
	}
	return o.applications.ListPipeline(ctx, p.UserID)
}

// ExportFormat reports the content type and file extension of pipeline exports
func (o *Orchestrator) ExportFormat() (contentType, extension string) {
	if o.exporter == nil {
		return "", ""
	}
	return o.exporter.ContentType(), o.exporter.Extension()
}

// ExportPipeline writes the employer pipeline as a document
func (o *Orchestrator) ExportPipeline(ctx context.Context, p access.Principal, w io.Writer) error {
	entries, err := o.EmployerPipeline(ctx, p)
	if err != nil {
		return err
	}
	if o.exporter == nil {
		return apperr.Internal(nil, "pipeline export is not configured")
	}
	return o.exporter.Export(ctx, entries, w)
}
