package orchestrator

import (
	"context"

	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

func (o *Orchestrator) CreateCompany(ctx context.Context, p access.Principal, profile entity.CompanyProfile) (*entity.Company, error) {
	if err := authorizeWrite(p, access.CapCompanyCreate); err != nil {
		return nil, err
	}
	return o.companies.Create(ctx, p.UserID, profile)
}

func (o *Orchestrator) UpdateCompany(ctx context.Context, p access.Principal, profile entity.CompanyProfile) (*entity.Company, error) {
	if err := authorizeWrite(p, access.CapCompanyUpdate); err != nil {
		return nil, err
	}
	return o.companies.Update(ctx, p.UserID, profile)
}

// MyCompany returns the company owned by an employer principal
func (o *Orchestrator) MyCompany(ctx context.Context, p access.Principal) (*entity.Company, error) {
	if err := authorize(p, access.CapCompanyUpdate); err != nil {
		return nil, err
	}
	return o.ownedCompany(ctx, p)
}

// GetCompany is the public company profile
func (o *Orchestrator) GetCompany(ctx context.Context, id int64) (*entity.Company, error) {
	if id <= 0 {
		return nil, apperr.ValidationField("id", "company id is required")
	}
	return o.companies.GetByID(ctx, id)
}
