package workflow

import "fmt"

var (
	paymentBuilder     StateMachineBuilder
	jobBuilder         StateMachineBuilder
	applicationBuilder StateMachineBuilder
)

func init() {
	paymentBuilder = newPaymentBuilder()
	jobBuilder = newJobBuilder()
	applicationBuilder = newApplicationBuilder()
}

func newPaymentBuilder() StateMachineBuilder {
	b := NewBuilder("payment")
	b.Configure(StatePendingReview).
		Permit(TriggerVerify, StateVerified).
		Permit(TriggerReject, StateRejected)
	b.Configure(StateVerified)
	b.Configure(StateRejected)
	return b
}

func newJobBuilder() StateMachineBuilder {
	b := NewBuilder("job")
	b.Configure(StatePendingApproval).
		Permit(TriggerApprove, StateActive).
		Permit(TriggerReject, StateRejected)
	b.Configure(StateActive).
		Permit(TriggerClose, StateClosed)
	b.Configure(StateRejected).
		Permit(TriggerResubmit, StatePendingApproval)
	b.Configure(StateClosed)
	return b
}

func newApplicationBuilder() StateMachineBuilder {
	b := NewBuilder("application")
	b.Configure(StateSubmitted).
		Permit(TriggerShortlist, StateShortlisted).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerHire, StateHired)
	b.Configure(StateShortlisted).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerHire, StateHired)
	b.Configure(StateRejected)
	b.Configure(StateHired)
	return b
}

// PaymentMachine returns a payment proof machine positioned at current.
func PaymentMachine(current State) (StateMachine, error) {
	return paymentBuilder.Build(current)
}

// JobMachine returns a job machine positioned at current.
func JobMachine(current State) (StateMachine, error) {
	return jobBuilder.Build(current)
}

// ApplicationMachine returns an application machine positioned at current.
func ApplicationMachine(current State) (StateMachine, error) {
	return applicationBuilder.Build(current)
}

// PaymentDecisionTrigger maps an admin's requested outcome to its trigger.
func PaymentDecisionTrigger(target State) (Trigger, error) {
	switch target {
	case StateVerified:
		return TriggerVerify, nil
	case StateRejected:
		return TriggerReject, nil
	default:
		return "", fmt.Errorf("%w: %s is not a payment decision", ErrInvalidState, target)
	}
}

// ApplicationStatusTrigger maps a requested application status to its trigger.
func ApplicationStatusTrigger(target State) (Trigger, error) {
	switch target {
	case StateShortlisted:
		return TriggerShortlist, nil
	case StateRejected:
		return TriggerReject, nil
	case StateHired:
		return TriggerHire, nil
	default:
		return "", fmt.Errorf("%w: %s is not a reachable application status", ErrInvalidState, target)
	}
}
