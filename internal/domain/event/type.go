package event

// Type identifies the type of domain event
type Type string

const (
	TypePaymentSubmitted   Type = "payment.submitted"
	TypePaymentVerified    Type = "payment.verified"
	TypePaymentRejected    Type = "payment.rejected"
	TypeJobCreated         Type = "job.created"
	TypeJobResubmitted     Type = "job.resubmitted"
	TypeJobApproved        Type = "job.approved"
	TypeJobRejected        Type = "job.rejected"
	TypeJobClosed          Type = "job.closed"
	TypeApplicationCreated Type = "application.created"
	TypeApplicationStatus  Type = "application.status_changed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypePaymentSubmitted,
		TypePaymentVerified,
		TypePaymentRejected,
		TypeJobCreated,
		TypeJobResubmitted,
		TypeJobApproved,
		TypeJobRejected,
		TypeJobClosed,
		TypeApplicationCreated,
		TypeApplicationStatus:
		return true
	default:
		return false
	}
}
