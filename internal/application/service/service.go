// Package service holds one state machine component per aggregate. Services
// trust their caller for authorization: every mutating call is expected to
// arrive through the orchestrator.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type machineFactory func(current workflow.State) (workflow.StateMachine, error)

// fire runs trigger against a machine positioned at current and returns the
// resulting state, translating machine errors into apperr codes
func fire(ctx context.Context, newMachine machineFactory, kind string, id int64, current workflow.State, trigger workflow.Trigger) (workflow.State, error) {
	m, err := newMachine(current)
	if err != nil {
		return "", apperr.Internal(err, fmt.Sprintf("%s %d has unknown status %s", kind, id, current))
	}
	if err := m.Fire(ctx, trigger); err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) || errors.Is(err, workflow.ErrGuardFailed) {
			return "", apperr.InvalidTransitionf("%s %d cannot %s from %s", kind, id, strings.ToLower(trigger.String()), current)
		}
		return "", err
	}
	return m.State(), nil
}

// lostRace is returned when a compare-and-set write finds the status already moved
func lostRace(kind string, id int64, expected workflow.State) error {
	return apperr.InvalidTransitionf("%s %d is no longer %s", kind, id, expected)
}

func appendHistory(ctx context.Context, repo port.HistoryRepository, entityType entity.EntityType, id int64, from, to workflow.State, actorID int64, note string) error {
	if err := repo.Append(ctx, &entity.TransitionRecord{
		EntityType: entityType,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Note:       note,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
