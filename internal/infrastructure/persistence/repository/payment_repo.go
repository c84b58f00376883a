package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// PaymentRepository implements port.PaymentRepository
type PaymentRepository struct {
	base
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment proof repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{base: base{db: db}, logger: logger}
}

const paymentColumns = `id, company_id, reference_number, file_path, status, admin_notes,
	decided_by, upload_date, verified_date, updated_at`

// Most recently created first; id breaks ties within the same timestamp.
const paymentOrder = ` ORDER BY upload_date DESC, id DESC`

func scanPayment(s rowScanner) (*entity.PaymentProof, error) {
	var p entity.PaymentProof
	var decidedBy sql.NullInt64
	var verifiedDate sql.NullTime

	err := s.Scan(
		&p.ID,
		&p.CompanyID,
		&p.ReferenceNumber,
		&p.FilePath,
		&p.Status,
		&p.AdminNotes,
		&decidedBy,
		&p.UploadDate,
		&verifiedDate,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.DecidedBy = int64Ptr(decidedBy)
	p.VerifiedDate = timePtr(verifiedDate)
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, proof *entity.PaymentProof) error {
	ts := now()
	if proof.UploadDate.IsZero() {
		proof.UploadDate = ts
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO payment_proofs (
			company_id, reference_number, file_path, status, admin_notes, upload_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		proof.CompanyID,
		proof.ReferenceNumber,
		proof.FilePath,
		proof.Status,
		proof.AdminNotes,
		proof.UploadDate,
		ts,
	)
	if err != nil {
		r.logger.Error("Failed to create payment proof", zap.Int64("company_id", proof.CompanyID), zap.Error(err))
		return apperr.FromDB(err, "failed to create payment proof")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	proof.ID = id
	proof.UpdatedAt = ts
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*entity.PaymentProof, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payment_proofs WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment proof", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment proof: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) GetCurrent(ctx context.Context, companyID int64) (*entity.PaymentProof, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_proofs WHERE company_id = ?`+paymentOrder+` LIMIT 1`, companyID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get current payment proof", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("failed to get current payment proof: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) list(ctx context.Context, where string, arg interface{}) ([]*entity.PaymentProof, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_proofs WHERE `+where+paymentOrder, arg)
	if err != nil {
		r.logger.Error("Failed to list payment proofs", zap.Error(err))
		return nil, fmt.Errorf("failed to list payment proofs: %w", err)
	}
	defer rows.Close()

	var proofs []*entity.PaymentProof
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment proof: %w", err)
		}
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

func (r *PaymentRepository) ListByCompany(ctx context.Context, companyID int64) ([]*entity.PaymentProof, error) {
	return r.list(ctx, "company_id = ?", companyID)
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status workflow.State) ([]*entity.PaymentProof, error) {
	return r.list(ctx, "status = ?", status)
}

// SaveDecision writes the decision columns only while the stored status is still expected
func (r *PaymentRepository) SaveDecision(ctx context.Context, proof *entity.PaymentProof, expected workflow.State) (bool, error) {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		UPDATE payment_proofs
		SET status = ?, admin_notes = ?, decided_by = ?, verified_date = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`,
		proof.Status,
		proof.AdminNotes,
		nullInt64(proof.DecidedBy),
		nullTime(proof.VerifiedDate),
		ts,
		proof.ID,
		expected,
	)
	if err != nil {
		r.logger.Error("Failed to save payment decision", zap.Int64("id", proof.ID), zap.Error(err))
		return false, fmt.Errorf("failed to save payment decision: %w", err)
	}

	ok, err := rowsAffected(result)
	if err == nil && ok {
		proof.UpdatedAt = ts
	}
	return ok, err
}
