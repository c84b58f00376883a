package orchestrator

import (
	"context"

	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// RegisterUser adds an account to the directory. Credentials live with the
// identity provider. Job seeker and employer accounts are self-service; admin
// accounts need an enabled admin caller once the first admin exists.
func (o *Orchestrator) RegisterUser(ctx context.Context, p access.Principal, email, firstName, lastName string, role access.Role) (*entity.User, error) {
	if role != access.RoleAdmin {
		return o.users.Register(ctx, email, firstName, lastName, role)
	}
	if p.Is(access.RoleAdmin) {
		if err := checkEnabled(p); err != nil {
			return nil, err
		}
		return o.users.Register(ctx, email, firstName, lastName, role)
	}

	// Bootstrap: the admin count and the insert share one write transaction
	// so only one caller can become the first admin.
	var user *entity.User
	err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		counts, err := o.users.CountByRole(txCtx)
		if err != nil {
			return err
		}
		if counts[string(access.RoleAdmin)] > 0 {
			return apperr.Unauthorizedf("only admins may register admin accounts")
		}
		user, err = o.users.Register(txCtx, email, firstName, lastName, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the caller's own directory entry
func (o *Orchestrator) Me(ctx context.Context, p access.Principal) (*entity.User, error) {
	return o.users.GetByID(ctx, p.UserID)
}

// SetUserEnabled locks or unlocks an account. Admins cannot lock themselves out.
func (o *Orchestrator) SetUserEnabled(ctx context.Context, p access.Principal, userID int64, enabled bool) (*entity.User, error) {
	if err := authorizeWrite(p, access.CapUserSetEnabled); err != nil {
		return nil, err
	}
	if userID == p.UserID && !enabled {
		return nil, apperr.ValidationField("enabled", "you cannot disable your own account")
	}
	if _, err := o.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return o.users.SetEnabled(ctx, userID, enabled)
}

func (o *Orchestrator) ListUsers(ctx context.Context, p access.Principal, role access.Role) ([]*entity.User, error) {
	if err := authorize(p, access.CapUserList); err != nil {
		return nil, err
	}
	return o.users.List(ctx, role)
}

func (o *Orchestrator) Stats(ctx context.Context, p access.Principal) (*entity.Stats, error) {
	if err := authorize(p, access.CapStatsView); err != nil {
		return nil, err
	}
	return o.reports.Stats(ctx)
}

// History returns the transition trail of a record to admins and to the
// record's owner. Candidates may also read the trail of their own applications.
func (o *Orchestrator) History(ctx context.Context, p access.Principal, entityType entity.EntityType, entityID int64) ([]*entity.TransitionRecord, error) {
	if !entityType.Valid() {
		return nil, apperr.ValidationField("entity_type", "unknown entity type")
	}
	if !p.Is(access.RoleAdmin) {
		if err := o.checkHistoryOwner(ctx, p, entityType, entityID); err != nil {
			return nil, err
		}
	}
	return o.reports.History(ctx, entityType, entityID)
}

func (o *Orchestrator) checkHistoryOwner(ctx context.Context, p access.Principal, entityType entity.EntityType, entityID int64) error {
	switch entityType {
	case entity.EntityPaymentProof:
		_, err := o.GetPaymentProof(ctx, p, entityID)
		return err
	case entity.EntityJob:
		_, err := o.ownedJob(ctx, p, entityID)
		return err
	default:
		_, err := o.GetApplication(ctx, p, entityID)
		return err
	}
}

func (o *Orchestrator) ListNotifications(ctx context.Context, p access.Principal, page, size int) (*entity.Page[*entity.Notification], error) {
	if err := authorize(p, access.CapNotificationView); err != nil {
		return nil, err
	}
	return o.notifications.List(ctx, p.UserID, page, size)
}

func (o *Orchestrator) UnreadNotifications(ctx context.Context, p access.Principal) (int64, error) {
	if err := authorize(p, access.CapNotificationView); err != nil {
		return 0, err
	}
	return o.notifications.UnreadCount(ctx, p.UserID)
}

func (o *Orchestrator) MarkNotificationRead(ctx context.Context, p access.Principal, notificationID int64) error {
	if err := authorizeWrite(p, access.CapNotificationView); err != nil {
		return err
	}
	return o.notifications.MarkRead(ctx, p.UserID, notificationID)
}
