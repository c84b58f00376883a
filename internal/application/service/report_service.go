package service

import (
	"context"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// ReportService serves read-only projections: admin statistics and transition history
type ReportService interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	History(ctx context.Context, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error)
}

type reportServiceImpl struct {
	users        UserService
	companies    CompanyService
	jobs         JobService
	applications ApplicationService
	historyRepo  port.HistoryRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	users UserService,
	companies CompanyService,
	jobs JobService,
	applications ApplicationService,
	historyRepo port.HistoryRepository,
) ReportService {
	return &reportServiceImpl{
		users:        users,
		companies:    companies,
		jobs:         jobs,
		applications: applications,
		historyRepo:  historyRepo,
	}
}

func (s *reportServiceImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	var err error

	if stats.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return nil, err
	}
	if stats.JobsByStatus, err = s.jobs.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.Companies, err = s.companies.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Applications, err = s.applications.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *reportServiceImpl) History(ctx context.Context, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error) {
	if !entityType.Valid() {
		return nil, apperr.ValidationField("entity_type", "unknown entity type")
	}
	records, err := s.historyRepo.List(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.TransitionRecord{}
	}
	return records, nil
}
