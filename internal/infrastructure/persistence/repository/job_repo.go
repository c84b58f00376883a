package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// JobRepository implements port.JobRepository
type JobRepository struct {
	base
	logger *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sql.DB, logger *zap.Logger) port.JobRepository {
	return &JobRepository{base: base{db: db}, logger: logger}
}

const jobColumns = `id, company_id, title, description, category, location, employment_type,
	min_salary, max_salary, requirements, responsibilities, status, rejection_reason,
	approved_by, published_at, created_at, updated_at`

func scanJob(s rowScanner) (*entity.Job, error) {
	var j entity.Job
	var minSalary, maxSalary sql.NullFloat64
	var approvedBy sql.NullInt64
	var publishedAt sql.NullTime

	err := s.Scan(
		&j.ID,
		&j.CompanyID,
		&j.Title,
		&j.Description,
		&j.Category,
		&j.Location,
		&j.EmploymentType,
		&minSalary,
		&maxSalary,
		&j.Requirements,
		&j.Responsibilities,
		&j.Status,
		&j.RejectionReason,
		&approvedBy,
		&publishedAt,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.MinSalary = float64Ptr(minSalary)
	j.MaxSalary = float64Ptr(maxSalary)
	j.ApprovedBy = int64Ptr(approvedBy)
	j.PublishedAt = timePtr(publishedAt)
	return &j, nil
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO jobs (
			company_id, title, description, category, location, employment_type,
			min_salary, max_salary, requirements, responsibilities, status,
			rejection_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)
	`,
		job.CompanyID,
		job.Title,
		job.Description,
		job.Category,
		job.Location,
		job.EmploymentType,
		nullFloat64(job.MinSalary),
		nullFloat64(job.MaxSalary),
		job.Requirements,
		job.Responsibilities,
		job.Status,
		ts, ts,
	)
	if err != nil {
		r.logger.Error("Failed to create job", zap.Int64("company_id", job.CompanyID), zap.Error(err))
		return apperr.FromDB(err, "failed to create job")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	job.ID = id
	job.CreatedAt = ts
	job.UpdatedAt = ts
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*entity.Job, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get job", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// Save writes every mutable column while the stored status is still expected
func (r *JobRepository) Save(ctx context.Context, job *entity.Job, expected workflow.State) (bool, error) {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		UPDATE jobs
		SET title = ?, description = ?, category = ?, location = ?, employment_type = ?,
			min_salary = ?, max_salary = ?, requirements = ?, responsibilities = ?,
			status = ?, rejection_reason = ?, approved_by = ?, published_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`,
		job.Title,
		job.Description,
		job.Category,
		job.Location,
		job.EmploymentType,
		nullFloat64(job.MinSalary),
		nullFloat64(job.MaxSalary),
		job.Requirements,
		job.Responsibilities,
		job.Status,
		job.RejectionReason,
		nullInt64(job.ApprovedBy),
		nullTime(job.PublishedAt),
		ts,
		job.ID,
		expected,
	)
	if err != nil {
		r.logger.Error("Failed to save job", zap.Int64("id", job.ID), zap.Error(err))
		return false, fmt.Errorf("failed to save job: %w", err)
	}

	ok, err := rowsAffected(result)
	if err == nil && ok {
		job.UpdatedAt = ts
	}
	return ok, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is a lower-cased substring LIKE pattern matching s literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// activeFilter builds the WHERE clause shared by the page and count queries
func activeFilter(f entity.JobFilter) (string, []interface{}) {
	clauses := []string{"status = ?"}
	args := []interface{}{workflow.StateActive}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := containsPattern(kw)
		clauses = append(clauses, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		clauses = append(clauses, "LOWER(category) = LOWER(?)")
		args = append(args, c)
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		clauses = append(clauses, `LOWER(location) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(l))
	}
	// Salary bounds match jobs whose advertised range overlaps the requested one.
	if f.MinSalary != nil {
		clauses = append(clauses, "(max_salary IS NULL OR max_salary >= ?)")
		args = append(args, *f.MinSalary)
	}
	if f.MaxSalary != nil {
		clauses = append(clauses, "(min_salary IS NULL OR min_salary <= ?)")
		args = append(args, *f.MaxSalary)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *JobRepository) ListActive(ctx context.Context, filter entity.JobFilter) ([]*entity.Job, int64, error) {
	filter.Normalize()
	where, args := activeFilter(filter)
	exec := r.getExecutor(ctx)

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count active jobs", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), filter.Size, filter.Offset())
	jobs, err := r.query(ctx, `SELECT `+jobColumns+` FROM jobs`+where+
		` ORDER BY COALESCE(published_at, created_at) DESC, id DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Job, error) {
	return r.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE company_id = ? ORDER BY created_at DESC, id DESC`, companyID)
}

func (r *JobRepository) ListByStatus(ctx context.Context, status workflow.State) ([]*entity.Job, error) {
	return r.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY created_at ASC, id ASC`, status)
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.getExecutor(ctx), `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
}

func (r *JobRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Job, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
