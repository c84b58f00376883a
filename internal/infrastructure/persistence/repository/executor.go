package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/sqlite"
)

// base is embedded by every repository so they all share one view of the
// transaction carried in the context
type base struct {
	db *sql.DB
}

func (b base) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, b.db)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func now() time.Time {
	return time.Now().UTC()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func float64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
