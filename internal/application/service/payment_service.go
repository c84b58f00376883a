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

// PaymentService runs the payment proof state machine
type PaymentService interface {
	Submit(ctx context.Context, actorID, companyID int64, referenceNumber, filePath string) (*entity.PaymentProof, error)

	// Decide moves a PENDING_REVIEW proof to VERIFIED or REJECTED. Verification
	// also sets the company's payment flag in the same transaction.
	Decide(ctx context.Context, actorID, proofID int64, target workflow.State, adminNotes string) (*entity.PaymentProof, error)

	GetStatus(ctx context.Context, companyID int64) (*entity.PaymentStatus, error)
	GetByID(ctx context.Context, id int64) (*entity.PaymentProof, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.PaymentProof, error)
	ListPending(ctx context.Context) ([]*entity.PaymentProof, error)
}

type paymentServiceImpl struct {
	paymentRepo port.PaymentRepository
	companyRepo port.CompanyRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo port.PaymentRepository,
	companyRepo port.CompanyRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	logger Logger,
) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		companyRepo: companyRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *paymentServiceImpl) Submit(ctx context.Context, actorID, companyID int64, referenceNumber, filePath string) (*entity.PaymentProof, error) {
	if blank(referenceNumber) {
		return nil, apperr.ValidationField("reference_number", "reference number is required")
	}
	if blank(filePath) {
		return nil, apperr.ValidationField("file_path", "payment proof file is required")
	}

	proof := &entity.PaymentProof{
		CompanyID:       companyID,
		ReferenceNumber: strings.TrimSpace(referenceNumber),
		FilePath:        filePath,
		Status:          entity.PaymentPendingReview,
		UploadDate:      time.Now().UTC(),
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Create(txCtx, proof); err != nil {
			return err
		}
		return appendHistory(txCtx, s.historyRepo, entity.EntityPaymentProof, proof.ID, "", proof.Status, actorID, "")
	})
	if err != nil {
		s.logger.Error("Failed to submit payment proof", "company_id", companyID, "error", err)
		return nil, err
	}

	s.logger.Info("Payment proof submitted", "proof_id", proof.ID, "company_id", companyID, "actor_id", actorID)
	return proof, nil
}

func (s *paymentServiceImpl) Decide(ctx context.Context, actorID, proofID int64, target workflow.State, adminNotes string) (*entity.PaymentProof, error) {
	trigger, err := workflow.PaymentDecisionTrigger(target)
	if err != nil {
		return nil, apperr.ValidationField("status", "status must be VERIFIED or REJECTED")
	}
	if target == entity.PaymentRejected && blank(adminNotes) {
		return nil, apperr.ValidationField("admin_notes", "admin notes are required when rejecting a payment")
	}

	var proof *entity.PaymentProof
	var from workflow.State

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		proof, err = s.GetByID(txCtx, proofID)
		if err != nil {
			return err
		}

		from = proof.Status
		to, err := fire(txCtx, workflow.PaymentMachine, "payment proof", proofID, from, trigger)
		if err != nil {
			return err
		}

		proof.Status = to
		proof.AdminNotes = strings.TrimSpace(adminNotes)
		proof.DecidedBy = &actorID
		if to == entity.PaymentVerified {
			decided := time.Now().UTC()
			proof.VerifiedDate = &decided
		}

		ok, err := s.paymentRepo.SaveDecision(txCtx, proof, from)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace("payment proof", proofID, from)
		}

		if to == entity.PaymentVerified {
			if err := s.companyRepo.MarkPaymentVerified(txCtx, proof.CompanyID); err != nil {
				return err
			}
		}

		return appendHistory(txCtx, s.historyRepo, entity.EntityPaymentProof, proofID, from, to, actorID, proof.AdminNotes)
	})
	if err != nil {
		s.logger.Error("Failed to decide payment proof", "proof_id", proofID, "target", target, "error", err)
		return nil, err
	}

	s.logger.Info("Payment proof decided",
		"proof_id", proofID,
		"company_id", proof.CompanyID,
		"from", from,
		"to", proof.Status,
		"actor_id", actorID,
	)
	return proof, nil
}

// GetStatus reports the most recently created proof, or NO_PAYMENT
func (s *paymentServiceImpl) GetStatus(ctx context.Context, companyID int64) (*entity.PaymentStatus, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperr.NotFoundf("company %d not found", companyID)
	}

	current, err := s.paymentRepo.GetCurrent(ctx, companyID)
	if err != nil {
		return nil, err
	}

	status := &entity.PaymentStatus{
		CompanyID:       companyID,
		Status:          entity.PaymentNone,
		PaymentVerified: company.PaymentVerified,
		Current:         current,
	}
	if current != nil {
		status.Status = current.Status
	}
	return status, nil
}

func (s *paymentServiceImpl) GetByID(ctx context.Context, id int64) (*entity.PaymentProof, error) {
	proof, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, apperr.NotFoundf("payment proof %d not found", id)
	}
	return proof, nil
}

func (s *paymentServiceImpl) ListByCompany(ctx context.Context, companyID int64) ([]*entity.PaymentProof, error) {
	return s.paymentRepo.ListByCompany(ctx, companyID)
}

func (s *paymentServiceImpl) ListPending(ctx context.Context) ([]*entity.PaymentProof, error) {
	return s.paymentRepo.ListByStatus(ctx, entity.PaymentPendingReview)
}
