// Package export renders read-only projections as downloadable documents.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/domain/entity"
)

const (
	pipelineSheet = "Pipeline"
	headerRow     = 1
	dataRowStart  = 2
)

// pipelineColumns are written left to right starting at column A
var pipelineColumns = []string{"Application ID", "Job ID", "Job Title", "Candidate ID", "Candidate", "Status", "Applied At", "Employer Notes"}

// PipelineExcelExporter writes an employer pipeline to an .xlsx workbook
type PipelineExcelExporter struct {
	logger *zap.Logger
}

// NewPipelineExcelExporter creates a new exporter
func NewPipelineExcelExporter(logger *zap.Logger) *PipelineExcelExporter {
	return &PipelineExcelExporter{logger: logger}
}

func (e *PipelineExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *PipelineExcelExporter) Extension() string {
	return ".xlsx"
}

// Export writes one row per pipeline entry below a bold header row
func (e *PipelineExcelExporter) Export(ctx context.Context, entries []*entity.PipelineEntry, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), pipelineSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := e.writeHeader(file); err != nil {
		return err
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.writeRow(file, dataRowStart+i, entry); err != nil {
			return err
		}
	}

	if err := file.SetColWidth(pipelineSheet, "C", "C", 32); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := file.SetColWidth(pipelineSheet, "H", "H", 48); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Pipeline exported", zap.Int("rows", len(entries)))
	return nil
}

func (e *PipelineExcelExporter) writeHeader(file *excelize.File) error {
	cell, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(pipelineColumns))
	for i, c := range pipelineColumns {
		header[i] = c
	}
	if err := file.SetSheetRow(pipelineSheet, cell, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(pipelineColumns), headerRow)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(pipelineSheet, cell, last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

func (e *PipelineExcelExporter) writeRow(file *excelize.File, row int, entry *entity.PipelineEntry) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := []interface{}{
		entry.ApplicationID,
		entry.JobID,
		entry.JobTitle,
		entry.JobSeekerID,
		entry.CandidateName,
		entry.Status.String(),
		entry.AppliedAt.UTC().Format("2006-01-02 15:04"),
		entry.EmployerNotes,
	}
	if err := file.SetSheetRow(pipelineSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
