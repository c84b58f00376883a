package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/event"
)

// NotificationHandler turns committed workflow events into in-app notifications
type NotificationHandler struct {
	sink   NotificationService
	users  UserService
	logger Logger
}

// NewNotificationHandler creates a handler that writes to sink
func NewNotificationHandler(sink NotificationService, users UserService, logger Logger) *NotificationHandler {
	return &NotificationHandler{sink: sink, users: users, logger: logger}
}

// Types lists the events the handler reacts to
func (h *NotificationHandler) Types() []event.Type {
	return []event.Type{
		event.TypePaymentSubmitted,
		event.TypePaymentVerified,
		event.TypePaymentRejected,
		event.TypeJobCreated,
		event.TypeJobResubmitted,
		event.TypeJobApproved,
		event.TypeJobRejected,
		event.TypeApplicationCreated,
		event.TypeApplicationStatus,
	}
}

// Handle builds and stores the notifications for evt. Every recipient is
// attempted; failures are joined into the returned error.
func (h *NotificationHandler) Handle(ctx context.Context, evt *event.Event) error {
	notes, err := h.build(ctx, evt)
	if err != nil {
		return err
	}

	var errs []error
	for _, n := range notes {
		if err := h.sink.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("notify user %d: %w", n.UserID, err))
		}
	}
	return errors.Join(errs...)
}

func (h *NotificationHandler) admins(ctx context.Context, kind, title, message, link string) ([]*entity.Notification, error) {
	ids, err := h.users.ListIDsByRole(ctx, access.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	notes := make([]*entity.Notification, 0, len(ids))
	for _, id := range ids {
		notes = append(notes, &entity.Notification{UserID: id, Type: kind, Title: title, Message: message, Link: link})
	}
	return notes, nil
}

func single(userID int64, kind, title, message, link string) []*entity.Notification {
	if userID == 0 {
		return nil
	}
	return []*entity.Notification{{UserID: userID, Type: kind, Title: title, Message: message, Link: link}}
}

func (h *NotificationHandler) build(ctx context.Context, evt *event.Event) ([]*entity.Notification, error) {
	owner := evt.GetPayloadInt(event.KeyOwnerUserID)
	title := evt.GetPayloadString(event.KeyJobTitle)
	note := evt.GetPayloadString(event.KeyNote)

	switch evt.Type {
	case event.TypePaymentSubmitted:
		return h.admins(ctx, entity.NotifyPaymentSubmitted, "New Payment Proof",
			fmt.Sprintf("Company %d uploaded payment proof for verification.", evt.GetPayloadInt(event.KeyCompanyID)),
			"/admin/payments")

	case event.TypePaymentVerified:
		return single(owner, entity.NotifyPaymentVerified, "Payment Verified",
			"Your payment proof has been verified. You can now post jobs.",
			"/payments/status"), nil

	case event.TypePaymentRejected:
		return single(owner, entity.NotifyPaymentRejected, "Payment Rejected",
			strings.TrimSpace("Your payment proof has been rejected. "+note),
			"/payments/status"), nil

	case event.TypeJobCreated, event.TypeJobResubmitted:
		return h.admins(ctx, entity.NotifyJobSubmitted, "Job Awaiting Approval",
			fmt.Sprintf("Job posting '%s' is waiting for review.", title),
			"/admin/jobs")

	case event.TypeJobApproved:
		return single(owner, entity.NotifyJobApproved, "Job Approved",
			fmt.Sprintf("Your job posting '%s' has been approved and is now live.", title),
			fmt.Sprintf("/jobs/%d", evt.EntityID)), nil

	case event.TypeJobRejected:
		return single(owner, entity.NotifyJobRejected, "Job Rejected",
			fmt.Sprintf("Your job posting '%s' has been rejected. Reason: %s", title, note),
			fmt.Sprintf("/jobs/%d", evt.EntityID)), nil

	case event.TypeApplicationCreated:
		return single(owner, entity.NotifyApplicationCreated, "New Application",
			fmt.Sprintf("A candidate applied to '%s'.", title),
			fmt.Sprintf("/applications/%d", evt.EntityID)), nil

	case event.TypeApplicationStatus:
		status := strings.ToLower(evt.GetPayloadString(event.KeyToStatus))
		return single(evt.GetPayloadInt(event.KeyJobSeekerID), entity.NotifyApplicationUpdated, "Application Status Updated",
			fmt.Sprintf("Your application for '%s' has been %s.", title, status),
			fmt.Sprintf("/applications/%d", evt.EntityID)), nil
	}

	h.logger.Info("No notification for event", "event_type", evt.Type, "event_id", evt.ID)
	return nil, nil
}
