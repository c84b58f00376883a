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

// ApplicationRepository implements port.ApplicationRepository
type ApplicationRepository struct {
	base
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) port.ApplicationRepository {
	return &ApplicationRepository{base: base{db: db}, logger: logger}
}

const applicationColumns = `id, job_id, job_seeker_id, status, resume_path, cover_letter,
	employer_notes, applied_at, updated_at`

func scanApplication(s rowScanner) (*entity.Application, error) {
	var a entity.Application
	err := s.Scan(
		&a.ID,
		&a.JobID,
		&a.JobSeekerID,
		&a.Status,
		&a.ResumePath,
		&a.CoverLetter,
		&a.EmployerNotes,
		&a.AppliedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an application. The (job_id, job_seeker_id) unique index
// turns a concurrent duplicate into apperr already_exists.
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	ts := now()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = ts
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO applications (
			job_id, job_seeker_id, status, resume_path, cover_letter, employer_notes,
			applied_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		app.JobID,
		app.JobSeekerID,
		app.Status,
		app.ResumePath,
		app.CoverLetter,
		app.EmployerNotes,
		app.AppliedAt,
		ts,
	)
	if err != nil {
		r.logger.Error("Failed to create application",
			zap.Int64("job_id", app.JobID),
			zap.Int64("job_seeker_id", app.JobSeekerID),
			zap.Error(err))
		return apperr.FromDB(err, "you have already applied for this job")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	app.ID = id
	app.UpdatedAt = ts
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, jobSeekerID int64) (bool, error) {
	var n int
	err := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ? AND job_seeker_id = ?`, jobID, jobSeekerID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return n > 0, nil
}

// Save writes status and employer notes while the stored status is still expected
func (r *ApplicationRepository) Save(ctx context.Context, app *entity.Application, expected workflow.State) (bool, error) {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		UPDATE applications
		SET status = ?, employer_notes = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, app.Status, app.EmployerNotes, ts, app.ID, expected)
	if err != nil {
		r.logger.Error("Failed to save application", zap.Int64("id", app.ID), zap.Error(err))
		return false, fmt.Errorf("failed to save application: %w", err)
	}

	ok, err := rowsAffected(result)
	if err == nil && ok {
		app.UpdatedAt = ts
	}
	return ok, err
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error) {
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = ? ORDER BY applied_at DESC, id DESC`, jobID)
}

func (r *ApplicationRepository) ListByJobSeeker(ctx context.Context, jobSeekerID int64) ([]*entity.Application, error) {
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_seeker_id = ? ORDER BY applied_at DESC, id DESC`, jobSeekerID)
}

func (r *ApplicationRepository) ListPipeline(ctx context.Context, employerID int64) ([]*entity.PipelineEntry, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, `
		SELECT a.id, a.job_id, j.title, a.job_seeker_id,
			TRIM(u.first_name || ' ' || u.last_name), a.status, a.employer_notes, a.applied_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		JOIN users u ON u.id = a.job_seeker_id
		WHERE c.owner_user_id = ?
		ORDER BY a.applied_at DESC, a.id DESC
	`, employerID)
	if err != nil {
		r.logger.Error("Failed to list pipeline", zap.Int64("employer_id", employerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list pipeline: %w", err)
	}
	defer rows.Close()

	var entries []*entity.PipelineEntry
	for rows.Next() {
		var e entity.PipelineEntry
		if err := rows.Scan(
			&e.ApplicationID,
			&e.JobID,
			&e.JobTitle,
			&e.JobSeekerID,
			&e.CandidateName,
			&e.Status,
			&e.EmployerNotes,
			&e.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pipeline entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	return countAll(ctx, r.getExecutor(ctx), "applications")
}

func (r *ApplicationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Application, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
