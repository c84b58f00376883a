package workflow

// State is a lifecycle state of a PaymentProof, Job or Application.
type State string

const (
	// PaymentProof
	StatePendingReview State = "PENDING_REVIEW"
	StateVerified      State = "VERIFIED"

	// Job
	StatePendingApproval State = "PENDING_APPROVAL"
	StateActive          State = "ACTIVE"
	StateClosed          State = "CLOSED"

	// Application
	StateSubmitted   State = "SUBMITTED"
	StateShortlisted State = "SHORTLISTED"
	StateHired       State = "HIRED"

	// Shared by all three machines.
	StateRejected State = "REJECTED"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state belongs to any of the workflow machines
func (s State) IsValid() bool {
	switch s {
	case StatePendingReview, StateVerified,
		StatePendingApproval, StateActive, StateClosed,
		StateSubmitted, StateShortlisted, StateHired,
		StateRejected:
		return true
	default:
		return false
	}
}
