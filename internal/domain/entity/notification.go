package entity

import "time"

// Notification type constants
const (
	NotifyPaymentSubmitted   = "NEW_PAYMENT"
	NotifyPaymentVerified    = "PAYMENT_VERIFIED"
	NotifyPaymentRejected    = "PAYMENT_REJECTED"
	NotifyJobSubmitted       = "JOB_PENDING_APPROVAL"
	NotifyJobApproved        = "JOB_APPROVED"
	NotifyJobRejected        = "JOB_REJECTED"
	NotifyApplicationCreated = "NEW_APPLICATION"
	NotifyApplicationUpdated = "APPLICATION_STATUS_UPDATED"
)

// Notification is an in-app message for one user
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
