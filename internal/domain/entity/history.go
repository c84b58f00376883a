package entity

import (
	"time"

	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// EntityType names the kind of record a transition belongs to
type EntityType string

const (
	EntityPaymentProof EntityType = "PAYMENT_PROOF"
	EntityJob          EntityType = "JOB"
	EntityApplication  EntityType = "APPLICATION"
)

// Valid reports whether t names a record with a status history
func (t EntityType) Valid() bool {
	switch t {
	case EntityPaymentProof, EntityJob, EntityApplication:
		return true
	}
	return false
}

// TransitionRecord is the audit trail entry of one status change
type TransitionRecord struct {
	ID         int64          `json:"id"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   int64          `json:"entity_id"`
	FromStatus workflow.State `json:"from_status"`
	ToStatus   workflow.State `json:"to_status"`
	ActorID    int64          `json:"actor_id"`
	Note       string         `json:"note,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Stats is the admin dashboard summary
type Stats struct {
	UsersByRole  map[string]int64 `json:"users_by_role"`
	JobsByStatus map[string]int64 `json:"jobs_by_status"`
	Companies    int64            `json:"companies"`
	Applications int64            `json:"applications"`
}
