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
)

// CompanyRepository implements port.CompanyRepository
type CompanyRepository struct {
	base
	logger *zap.Logger
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sql.DB, logger *zap.Logger) port.CompanyRepository {
	return &CompanyRepository{base: base{db: db}, logger: logger}
}

const companyColumns = `id, owner_user_id, name, description, industry, website, address,
	phone_number, payment_verified, created_at, updated_at`

func scanCompany(s rowScanner) (*entity.Company, error) {
	var c entity.Company
	err := s.Scan(
		&c.ID,
		&c.OwnerUserID,
		&c.Name,
		&c.Description,
		&c.Industry,
		&c.Website,
		&c.Address,
		&c.PhoneNumber,
		&c.PaymentVerified,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a company with payment_verified = 0. A second company for
// the same owner yields apperr already_exists.
func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO companies (
			owner_user_id, name, description, industry, website, address,
			phone_number, payment_verified, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`,
		company.OwnerUserID,
		company.Name,
		company.Description,
		company.Industry,
		company.Website,
		company.Address,
		company.PhoneNumber,
		ts, ts,
	)
	if err != nil {
		r.logger.Error("Failed to create company", zap.Int64("owner_user_id", company.OwnerUserID), zap.Error(err))
		return apperr.FromDB(err, "company already exists for this employer")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	company.ID = id
	company.PaymentVerified = false
	company.CreatedAt = ts
	company.UpdatedAt = ts
	return nil
}

func (r *CompanyRepository) getOne(ctx context.Context, where string, arg int64) (*entity.Company, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE `+where, arg)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get company", zap.String("where", where), zap.Int64("arg", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByOwner retrieves the company owned by an employer
func (r *CompanyRepository) GetByOwner(ctx context.Context, ownerUserID int64) (*entity.Company, error) {
	return r.getOne(ctx, "owner_user_id = ?", ownerUserID)
}

// UpdateProfile never touches payment_verified
func (r *CompanyRepository) UpdateProfile(ctx context.Context, company *entity.Company) error {
	ts := now()
	_, err := r.getExecutor(ctx).ExecContext(ctx, `
		UPDATE companies
		SET name = ?, description = ?, industry = ?, website = ?, address = ?,
			phone_number = ?, updated_at = ?
		WHERE id = ?
	`,
		company.Name,
		company.Description,
		company.Industry,
		company.Website,
		company.Address,
		company.PhoneNumber,
		ts,
		company.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update company", zap.Int64("id", company.ID), zap.Error(err))
		return fmt.Errorf("failed to update company: %w", err)
	}
	company.UpdatedAt = ts
	return nil
}

func (r *CompanyRepository) MarkPaymentVerified(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE companies SET payment_verified = 1, updated_at = ? WHERE id = ?`, now(), id)
	if err != nil {
		r.logger.Error("Failed to mark company verified", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark company verified: %w", err)
	}
	return nil
}

func (r *CompanyRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.getExecutor(ctx), "companies")
}
