package repository

import (
	"context"
	"fmt"

	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/sqlite"
)

func countGrouped(ctx context.Context, exec sqlite.Executor, query string) (map[string]int64, error) {
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func countAll(ctx context.Context, exec sqlite.Executor, table string) (int64, error) {
	var n int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
