package orchestrator

import (
	"context"

	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
)

// CreateJob opens a PENDING_APPROVAL posting. The employer's company must
// exist and be payment verified; the check and the insert share a transaction.
func (o *Orchestrator) CreateJob(ctx context.Context, p access.Principal, data entity.JobData) (*entity.Job, error) {
	if err := authorizeWrite(p, access.CapJobCreate); err != nil {
		return nil, err
	}

	var job *entity.Job
	var company *entity.Company
	err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		company, err = o.companies.GetByOwner(txCtx, p.UserID)
		if apperr.IsNotFound(err) {
			return apperr.PaymentNotVerified("create a company and have its payment verified before posting jobs")
		}
		if err != nil {
			return err
		}
		if !company.PaymentVerified {
			return apperr.PaymentNotVerified("company payment has not been verified")
		}

		job, err = o.jobs.Create(txCtx, p.UserID, company.ID, data)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.emit(ctx, event.TypeJobCreated, job.ID, p.UserID, jobPayload(job, company.OwnerUserID, ""))
	return job, nil
}

// UpdateJob edits a posting awaiting review. Editing a REJECTED posting
// resubmits it for approval.
func (o *Orchestrator) UpdateJob(ctx context.Context, p access.Principal, jobID int64, data entity.JobData) (*entity.Job, error) {
	if err := authorizeWrite(p, access.CapJobUpdate); err != nil {
		return nil, err
	}
	before, err := o.ownedJob(ctx, p, jobID)
	if err != nil {
		return nil, err
	}

	job, err := o.jobs.Update(ctx, p.UserID, jobID, data)
	if err != nil {
		return nil, err
	}

	if before.Status == entity.JobRejected {
		payload := jobPayload(job, p.UserID, "")
		payload[event.KeyFromStatus] = entity.JobRejected
		o.emit(ctx, event.TypeJobResubmitted, job.ID, p.UserID, payload)
	}
	return job, nil
}

func (o *Orchestrator) ApproveJob(ctx context.Context, p access.Principal, jobID int64) (*entity.Job, error) {
	if err := authorizeWrite(p, access.CapJobApprove); err != nil {
		return nil, err
	}
	job, err := o.jobs.Approve(ctx, p.UserID, jobID)
	if err != nil {
		return nil, err
	}
	o.emitJobDecision(ctx, event.TypeJobApproved, job, p.UserID, "")
	return job, nil
}

func (o *Orchestrator) RejectJob(ctx context.Context, p access.Principal, jobID int64, reason string) (*entity.Job, error) {
	if err := authorizeWrite(p, access.CapJobReject); err != nil {
		return nil, err
	}
	job, err := o.jobs.Reject(ctx, p.UserID, jobID, reason)
	if err != nil {
		return nil, err
	}
	o.emitJobDecision(ctx, event.TypeJobRejected, job, p.UserID, job.RejectionReason)
	return job, nil
}

// CloseJob takes an ACTIVE posting off the public listing. Its applications stay readable.
func (o *Orchestrator) CloseJob(ctx context.Context, p access.Principal, jobID int64) (*entity.Job, error) {
	if err := authorizeWrite(p, access.CapJobClose); err != nil {
		return nil, err
	}
	if _, err := o.ownedJob(ctx, p, jobID); err != nil {
		return nil, err
	}
	job, err := o.jobs.Close(ctx, p.UserID, jobID)
	if err != nil {
		return nil, err
	}
	o.emit(ctx, event.TypeJobClosed, job.ID, p.UserID, jobPayload(job, p.UserID, ""))
	return job, nil
}

// GetJob returns ACTIVE jobs to anyone. Other statuses are visible only to
// the owning employer and admins; everyone else gets not_found.
func (o *Orchestrator) GetJob(ctx context.Context, p access.Principal, jobID int64) (*entity.Job, error) {
	job, err := o.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == entity.JobActive || p.Is(access.RoleAdmin) {
		return job, nil
	}
	owner, err := o.jobOwner(ctx, job)
	if err != nil {
		return nil, err
	}
	if owner != p.UserID {
		return nil, apperr.NotFoundf("job %d not found", jobID)
	}
	return job, nil
}

// ListActiveJobs is the public job board
func (o *Orchestrator) ListActiveJobs(ctx context.Context, filter entity.JobFilter) (*entity.Page[*entity.Job], error) {
	return o.jobs.ListActive(ctx, filter)
}

// ListCompanyJobs returns every posting of a company to its owner and admins,
// and only the ACTIVE ones to everyone else
func (o *Orchestrator) ListCompanyJobs(ctx context.Context, p access.Principal, companyID int64) ([]*entity.Job, error) {
	company, err := o.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	jobs, err := o.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if p.Is(access.RoleAdmin) || company.OwnerUserID == p.UserID {
		return jobs, nil
	}

	active := make([]*entity.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Status == entity.JobActive {
			active = append(active, j)
		}
	}
	return active, nil
}

// ListMyJobs returns the postings of the employer's own company
func (o *Orchestrator) ListMyJobs(ctx context.Context, p access.Principal) ([]*entity.Job, error) {
	if err := authorize(p, access.CapJobUpdate); err != nil {
		return nil, err
	}
	company, err := o.ownedCompany(ctx, p)
	if err != nil {
		return nil, err
	}
	return o.jobs.ListByCompany(ctx, company.ID)
}

func (o *Orchestrator) ListPendingJobs(ctx context.Context, p access.Principal) ([]*entity.Job, error) {
	if err := authorize(p, access.CapJobListPending); err != nil {
		return nil, err
	}
	return o.jobs.ListPending(ctx)
}

func (o *Orchestrator) emitJobDecision(ctx context.Context, t event.Type, job *entity.Job, actorID int64, note string) {
	owner, err := o.jobOwner(ctx, job)
	if err != nil {
		o.logger.Error("Job decided but owner lookup failed", "job_id", job.ID, "error", err)
		return
	}
	payload := jobPayload(job, owner, note)
	payload[event.KeyFromStatus] = entity.JobPendingApproval
	o.emit(ctx, t, job.ID, actorID, payload)
}

func jobPayload(job *entity.Job, ownerID int64, note string) map[string]interface{} {
	return map[string]interface{}{
		event.KeyJobID:       job.ID,
		event.KeyJobTitle:    job.Title,
		event.KeyCompanyID:   job.CompanyID,
		event.KeyOwnerUserID: ownerID,
		event.KeyToStatus:    job.Status,
		event.KeyNote:        note,
	}
}
