package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	base
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{base: base{db: db}, logger: logger}
}

// Append records a transition. Callers run it in the transaction of the status change.
func (r *HistoryRepository) Append(ctx context.Context, record *entity.TransitionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now()
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO transition_history (
			entity_type, entity_id, from_status, to_status, actor_id, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.EntityType,
		record.EntityID,
		record.FromStatus,
		record.ToStatus,
		record.ActorID,
		record.Note,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append transition", zap.Error(err))
		return fmt.Errorf("failed to append transition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

func (r *HistoryRepository) List(ctx context.Context, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, `
		SELECT id, entity_type, entity_id, from_status, to_status, actor_id, note, created_at
		FROM transition_history
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY id ASC
	`, entityType, entityID)
	if err != nil {
		r.logger.Error("Failed to list history", zap.String("entity_type", string(entityType)), zap.Int64("entity_id", entityID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []*entity.TransitionRecord
	for rows.Next() {
		var rec entity.TransitionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.EntityType,
			&rec.EntityID,
			&rec.FromStatus,
			&rec.ToStatus,
			&rec.ActorID,
			&rec.Note,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
