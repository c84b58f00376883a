package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

func TestCompanyService_CreateOnePerOwner(t *testing.T) {
	repo := newMockCompanyRepo()
	svc := NewCompanyService(repo, &mockLogger{})
	ctx := context.Background()

	company, err := svc.Create(ctx, 2, entity.CompanyProfile{Name: " Acme ", Industry: "Software"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.False(t, company.PaymentVerified)

	_, err = svc.Create(ctx, 2, entity.CompanyProfile{Name: "Acme Two"})
	assert.True(t, apperr.IsAlreadyExists(err))

	_, err = svc.Create(ctx, 3, entity.CompanyProfile{Name: ""})
	assert.True(t, apperr.IsValidation(err))
}

func TestCompanyService_UpdateKeepsPaymentFlag(t *testing.T) {
	repo := newMockCompanyRepo(&entity.Company{ID: 10, OwnerUserID: 2, Name: "Acme", PaymentVerified: true})
	svc := NewCompanyService(repo, &mockLogger{})

	company, err := svc.Update(context.Background(), 2, entity.CompanyProfile{Name: "Acme Labs", Website: "https://acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs", company.Name)
	assert.True(t, repo.companies[10].PaymentVerified)

	_, err = svc.Update(context.Background(), 5, entity.CompanyProfile{Name: "Nope"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, &mockLogger{})
	ctx := context.Background()

	user, err := svc.Register(ctx, " Ana@Example.COM ", "Ana", "Lee", access.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.Enabled)

	_, err = svc.Register(ctx, "bad-email", "A", "B", access.RoleEmployer)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Register(ctx, "bo@example.com", "Bo", "Ng", access.Role("OWNER"))
	assert.True(t, apperr.IsValidation(err))
}

func TestUserService_SetEnabled(t *testing.T) {
	repo := newMockUserRepo(&entity.User{ID: 1, Role: access.RoleJobSeeker, Enabled: true})
	svc := NewUserService(repo, &mockLogger{})

	user, err := svc.SetEnabled(context.Background(), 1, false)
	require.NoError(t, err)
	assert.False(t, user.Enabled)

	_, err = svc.SetEnabled(context.Background(), 42, false)
	assert.True(t, apperr.IsNotFound(err))
}

func TestReportService_Stats(t *testing.T) {
	users := NewUserService(newMockUserRepo(
		&entity.User{ID: 1, Role: access.RoleAdmin},
		&entity.User{ID: 2, Role: access.RoleEmployer},
		&entity.User{ID: 3, Role: access.RoleJobSeeker},
		&entity.User{ID: 4, Role: access.RoleJobSeeker},
	), &mockLogger{})
	companies := NewCompanyService(newMockCompanyRepo(&entity.Company{ID: 10, OwnerUserID: 2}), &mockLogger{})
	jobs, _, _ := newJobFixture(
		&entity.Job{ID: 1, Status: entity.JobActive},
		&entity.Job{ID: 2, Status: entity.JobActive},
		&entity.Job{ID: 3, Status: entity.JobClosed},
	)
	apps, _, _ := newApplicationFixture(&entity.Application{ID: 1, Status: entity.ApplicationSubmitted})
	history := &mockHistoryRepo{}

	svc := NewReportService(users, companies, jobs, apps, history)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.UsersByRole["JOB_SEEKER"])
	assert.Equal(t, int64(2), stats.JobsByStatus["ACTIVE"])
	assert.Equal(t, int64(1), stats.Companies)
	assert.Equal(t, int64(1), stats.Applications)

	records, err := svc.History(context.Background(), entity.EntityJob, 1)
	require.NoError(t, err)
	assert.NotNil(t, records)

	_, err = svc.History(context.Background(), entity.EntityType("contract"), 1)
	assert.True(t, apperr.IsValidation(err))
}
