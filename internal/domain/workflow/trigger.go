package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerVerify    Trigger = "VERIFY"
	TriggerApprove   Trigger = "APPROVE"
	TriggerReject    Trigger = "REJECT"
	TriggerClose     Trigger = "CLOSE"
	TriggerResubmit  Trigger = "RESUBMIT"
	TriggerShortlist Trigger = "SHORTLIST"
	TriggerHire      Trigger = "HIRE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
