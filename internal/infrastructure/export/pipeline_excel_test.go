package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/domain/entity"
)

func TestPipelineExcelExporter_Export(t *testing.T) {
	e := NewPipelineExcelExporter(zap.NewNop())
	entries := []*entity.PipelineEntry{
		{
			ApplicationID: 7,
			JobID:         3,
			JobTitle:      "Backend Engineer",
			JobSeekerID:   11,
			CandidateName: "Ana Lee",
			Status:        entity.ApplicationShortlisted,
			EmployerNotes: "strong Go",
			AppliedAt:     time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
		},
		{ApplicationID: 8, JobID: 3, JobTitle: "Backend Engineer", JobSeekerID: 12, Status: entity.ApplicationSubmitted},
	}

	var buf bytes.Buffer
	require.NoError(t, e.Export(context.Background(), entries, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(pipelineSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, pipelineColumns, rows[0])
	assert.Equal(t, []string{"7", "3", "Backend Engineer", "11", "Ana Lee", "SHORTLISTED", "2026-03-04 09:30", "strong Go"}, rows[1])
	assert.Equal(t, "SUBMITTED", rows[2][5])
}

func TestPipelineExcelExporter_EmptyPipeline(t *testing.T) {
	e := NewPipelineExcelExporter(zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, e.Export(context.Background(), nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(pipelineSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, ".xlsx", e.Extension())
}
