package orchestrator

import (
	"context"
	"strings"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
	"github.com/garyjia/jobsphere/pkg/utils"
)

var paymentProofExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// SubmitPayment stores the uploaded proof and opens a new PENDING_REVIEW
// proof for the employer's company. Earlier proofs are kept.
func (o *Orchestrator) SubmitPayment(ctx context.Context, p access.Principal, referenceNumber string, file port.Upload) (*entity.PaymentProof, error) {
	if err := authorizeWrite(p, access.CapPaymentSubmit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(referenceNumber) == "" {
		return nil, apperr.ValidationField("reference_number", "reference number is required")
	}
	company, err := o.ownedCompany(ctx, p)
	if err != nil {
		return nil, err
	}

	path, err := o.store(ctx, port.CategoryPaymentProof, file, paymentProofExtensions)
	if err != nil {
		return nil, err
	}

	proof, err := o.payments.Submit(ctx, p.UserID, company.ID, referenceNumber, path)
	if err != nil {
		o.discard(ctx, path)
		return nil, err
	}

	o.emit(ctx, event.TypePaymentSubmitted, proof.ID, p.UserID, map[string]interface{}{
		event.KeyCompanyID:   company.ID,
		event.KeyOwnerUserID: company.OwnerUserID,
		event.KeyToStatus:    proof.Status,
	})
	return proof, nil
}

// DecidePayment is the admin review of a pending proof
func (o *Orchestrator) DecidePayment(ctx context.Context, p access.Principal, proofID int64, target workflow.State, adminNotes string) (*entity.PaymentProof, error) {
	if err := authorizeWrite(p, access.CapPaymentDecide); err != nil {
		return nil, err
	}

	proof, err := o.payments.Decide(ctx, p.UserID, proofID, target, adminNotes)
	if err != nil {
		return nil, err
	}

	company, err := o.companies.GetByID(ctx, proof.CompanyID)
	if err != nil {
		o.logger.Error("Payment decided but company lookup failed", "proof_id", proofID, "error", err)
		return proof, nil
	}

	t := event.TypePaymentVerified
	if proof.Status == entity.PaymentRejected {
		t = event.TypePaymentRejected
	}
	o.emit(ctx, t, proof.ID, p.UserID, map[string]interface{}{
		event.KeyCompanyID:   company.ID,
		event.KeyOwnerUserID: company.OwnerUserID,
		event.KeyFromStatus:  entity.PaymentPendingReview,
		event.KeyToStatus:    proof.Status,
		event.KeyNote:        proof.AdminNotes,
	})
	return proof, nil
}

// MyPaymentStatus reports the current proof of the employer's company
func (o *Orchestrator) MyPaymentStatus(ctx context.Context, p access.Principal) (*entity.PaymentStatus, error) {
	if err := authorize(p, access.CapPaymentViewOwn); err != nil {
		return nil, err
	}
	company, err := o.ownedCompany(ctx, p)
	if err != nil {
		return nil, err
	}
	return o.payments.GetStatus(ctx, company.ID)
}

// PaymentStatus reports the current proof of any company to an admin or its owner
func (o *Orchestrator) PaymentStatus(ctx context.Context, p access.Principal, companyID int64) (*entity.PaymentStatus, error) {
	if err := o.canSeeCompanyPayments(ctx, p, companyID); err != nil {
		return nil, err
	}
	return o.payments.GetStatus(ctx, companyID)
}

// ListMyPayments returns every proof the employer's company submitted, newest first
func (o *Orchestrator) ListMyPayments(ctx context.Context, p access.Principal) ([]*entity.PaymentProof, error) {
	if err := authorize(p, access.CapPaymentViewOwn); err != nil {
		return nil, err
	}
	company, err := o.ownedCompany(ctx, p)
	if err != nil {
		return nil, err
	}
	return o.payments.ListByCompany(ctx, company.ID)
}

func (o *Orchestrator) ListPendingPayments(ctx context.Context, p access.Principal) ([]*entity.PaymentProof, error) {
	if err := authorize(p, access.CapPaymentListPending); err != nil {
		return nil, err
	}
	return o.payments.ListPending(ctx)
}

func (o *Orchestrator) GetPaymentProof(ctx context.Context, p access.Principal, proofID int64) (*entity.PaymentProof, error) {
	proof, err := o.payments.GetByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	if err := o.canSeeCompanyPayments(ctx, p, proof.CompanyID); err != nil {
		return nil, err
	}
	return proof, nil
}

// PaymentProofFile resolves the stored document of a proof
func (o *Orchestrator) PaymentProofFile(ctx context.Context, p access.Principal, proofID int64) (string, error) {
	proof, err := o.GetPaymentProof(ctx, p, proofID)
	if err != nil {
		return "", err
	}
	return o.resolve(proof.FilePath)
}

func (o *Orchestrator) canSeeCompanyPayments(ctx context.Context, p access.Principal, companyID int64) error {
	if access.Can(p, access.CapPaymentListPending) {
		return nil
	}
	if err := authorize(p, access.CapPaymentViewOwn); err != nil {
		return err
	}
	company, err := o.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company.OwnerUserID != p.UserID {
		return apperr.Unauthorizedf("user %d does not own company %d", p.UserID, companyID)
	}
	return nil
}

// store validates and saves an upload, returning its relative path
func (o *Orchestrator) store(ctx context.Context, category string, file port.Upload, allowed []string) (string, error) {
	if file.Content == nil || file.Filename == "" {
		return "", apperr.ValidationField("file", "file is required")
	}
	if err := utils.ValidateExtension(file.Filename, allowed); err != nil {
		return "", apperr.ValidationField("file", err.Error())
	}
	if o.files == nil {
		return "", apperr.Internal(nil, "file storage is not configured")
	}
	return o.files.Store(ctx, category, file.Filename, file.Content)
}

// discard removes an upload whose record was never written
func (o *Orchestrator) discard(ctx context.Context, path string) {
	if err := o.files.Remove(ctx, path); err != nil {
		o.logger.Error("Failed to remove orphaned upload", "path", path, "error", err)
	}
}

func (o *Orchestrator) resolve(path string) (string, error) {
	if o.files == nil {
		return "", apperr.Internal(nil, "file storage is not configured")
	}
	abs, err := o.files.Resolve(path)
	if err != nil {
		return "", apperr.NotFoundf("file %s not found", path)
	}
	return abs, nil
}
