package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

func newApplicationFixture(apps ...*entity.Application) (ApplicationService, *mockApplicationRepo, *mockHistoryRepo) {
	repo := newMockApplicationRepo(apps...)
	history := &mockHistoryRepo{}
	return NewApplicationService(repo, history, &mockTxManager{}, &mockLogger{}), repo, history
}

func TestApplicationService_Create(t *testing.T) {
	svc, repo, history := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Create(ctx, 3, 1, "resumes/cv.pdf", "  Hire me ")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationSubmitted, app.Status)
	assert.Equal(t, "Hire me", app.CoverLetter)
	assert.Len(t, repo.apps, 1)
	assert.Len(t, history.records, 1)

	_, err = svc.Create(ctx, 3, 1, "resumes/cv2.pdf", "")
	assert.True(t, apperr.IsAlreadyExists(err))
	assert.Len(t, repo.apps, 1)

	_, err = svc.Create(ctx, 4, 1, "", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestApplicationService_UpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  workflow.State
		to    workflow.State
		check func(error) bool
	}{
		{"shortlist", entity.ApplicationSubmitted, entity.ApplicationShortlisted, nil},
		{"hire directly", entity.ApplicationSubmitted, entity.ApplicationHired, nil},
		{"reject shortlisted", entity.ApplicationShortlisted, entity.ApplicationRejected, nil},
		{"back to submitted", entity.ApplicationShortlisted, entity.ApplicationSubmitted, apperr.IsInvalidTransition},
		{"hired is final", entity.ApplicationHired, entity.ApplicationRejected, apperr.IsInvalidTransition},
		{"rejected is final", entity.ApplicationRejected, entity.ApplicationShortlisted, apperr.IsInvalidTransition},
		{"unknown status", entity.ApplicationSubmitted, workflow.State("INTERVIEWING"), apperr.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, history := newApplicationFixture(&entity.Application{ID: 1, JobID: 1, JobSeekerID: 3, Status: tt.from})

			app, err := svc.UpdateStatus(context.Background(), 2, 1, tt.to, "")
			if tt.check != nil {
				require.Error(t, err)
				assert.True(t, tt.check(err), err.Error())
				assert.Equal(t, tt.from, repo.apps[1].Status)
				assert.Empty(t, history.records)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, app.Status)
			assert.Equal(t, tt.to, repo.apps[1].Status)
			require.Len(t, history.records, 1)
			assert.Equal(t, tt.from, history.records[0].FromStatus)
		})
	}
}

func TestApplicationService_SameStatusUpdatesNotesOnly(t *testing.T) {
	svc, repo, history := newApplicationFixture(&entity.Application{
		ID: 1, JobID: 1, JobSeekerID: 3, Status: entity.ApplicationHired, EmployerNotes: "great fit",
	})
	ctx := context.Background()

	app, err := svc.UpdateStatus(ctx, 2, 1, entity.ApplicationHired, "")
	require.NoError(t, err)
	assert.Equal(t, "great fit", app.EmployerNotes)

	app, err = svc.UpdateStatus(ctx, 2, 1, entity.ApplicationHired, "starts Monday")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationHired, app.Status)
	assert.Equal(t, "starts Monday", repo.apps[1].EmployerNotes)
	assert.Empty(t, history.records)
}

func TestApplicationService_UpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	_, err := svc.UpdateStatus(context.Background(), 2, 9, entity.ApplicationShortlisted, "")
	assert.True(t, apperr.IsNotFound(err))
}
