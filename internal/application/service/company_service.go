package service

import (
	"context"
	"strings"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// CompanyService manages the one company record each employer owns
type CompanyService interface {
	Create(ctx context.Context, ownerID int64, profile entity.CompanyProfile) (*entity.Company, error)
	Update(ctx context.Context, ownerID int64, profile entity.CompanyProfile) (*entity.Company, error)
	GetByOwner(ctx context.Context, ownerID int64) (*entity.Company, error)
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	Count(ctx context.Context) (int64, error)
}

type companyServiceImpl struct {
	companyRepo port.CompanyRepository
	logger      Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo port.CompanyRepository, logger Logger) CompanyService {
	return &companyServiceImpl{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

func validateProfile(p entity.CompanyProfile) error {
	if blank(p.Name) {
		return apperr.ValidationField("name", "company name is required")
	}
	return nil
}

func trimProfile(p entity.CompanyProfile) entity.CompanyProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Website = strings.TrimSpace(p.Website)
	return p
}

// Create fails with already_exists when the owner has a company
func (s *companyServiceImpl) Create(ctx context.Context, ownerID int64, profile entity.CompanyProfile) (*entity.Company, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	existing, err := s.companyRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExistsf("employer %d already owns company %d", ownerID, existing.ID)
	}

	company := &entity.Company{OwnerUserID: ownerID}
	company.Apply(trimProfile(profile))

	if err := s.companyRepo.Create(ctx, company); err != nil {
		s.logger.Error("Failed to create company", "owner_user_id", ownerID, "error", err)
		return nil, err
	}

	s.logger.Info("Company created", "company_id", company.ID, "owner_user_id", ownerID)
	return company, nil
}

// Update rewrites the profile fields only; the payment flag is not reachable from here
func (s *companyServiceImpl) Update(ctx context.Context, ownerID int64, profile entity.CompanyProfile) (*entity.Company, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	company, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	company.Apply(trimProfile(profile))
	if err := s.companyRepo.UpdateProfile(ctx, company); err != nil {
		s.logger.Error("Failed to update company", "company_id", company.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Company updated", "company_id", company.ID)
	return company, nil
}

func (s *companyServiceImpl) GetByOwner(ctx context.Context, ownerID int64) (*entity.Company, error) {
	company, err := s.companyRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperr.NotFoundf("no company found for employer %d", ownerID)
	}
	return company, nil
}

func (s *companyServiceImpl) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperr.NotFoundf("company %d not found", id)
	}
	return company, nil
}

func (s *companyServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.companyRepo.Count(ctx)
}
