package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// UserRepository implements port.UserRepository
type UserRepository struct {
	base
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{base: base{db: db}, logger: logger}
}

const userColumns = `id, email, first_name, last_name, role, enabled, created_at, updated_at`

func scanUser(s rowScanner) (*entity.User, error) {
	var u entity.User
	if err := s.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A duplicate email yields apperr already_exists.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ts := now()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, role, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.Email, user.FirstName, user.LastName, user.Role, user.Enabled, ts, ts)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return apperr.FromDB(err, "user with this email already exists")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.User, error) {
	row := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

// SetEnabled toggles the enabled flag
func (r *UserRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?`, enabled, now(), id)
	if err != nil {
		r.logger.Error("Failed to update user enabled flag", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	ok, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("user %d not found", id)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, role access.Role) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY id`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListIDsByRole returns the ids of enabled users holding role
func (r *UserRepository) ListIDsByRole(ctx context.Context, role access.Role) ([]int64, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx,
		`SELECT id FROM users WHERE role = ? AND enabled = 1 ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.getExecutor(ctx), `SELECT role, COUNT(*) FROM users GROUP BY role`)
}
