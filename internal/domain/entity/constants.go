package entity

import "github.com/garyjia/jobsphere/internal/domain/workflow"

// PaymentProof status constants
const (
	PaymentPendingReview = workflow.StatePendingReview
	PaymentVerified      = workflow.StateVerified
	PaymentRejected      = workflow.StateRejected

	// PaymentNone is reported by status queries for companies with no proof yet.
	PaymentNone workflow.State = "NO_PAYMENT"
)

// Job status constants
const (
	JobPendingApproval = workflow.StatePendingApproval
	JobActive          = workflow.StateActive
	JobRejected        = workflow.StateRejected
	JobClosed          = workflow.StateClosed
)

// Application status constants
const (
	ApplicationSubmitted   = workflow.StateSubmitted
	ApplicationShortlisted = workflow.StateShortlisted
	ApplicationRejected    = workflow.StateRejected
	ApplicationHired       = workflow.StateHired
)

// Employment type constants
const (
	EmploymentFullTime   = "FULL_TIME"
	EmploymentPartTime   = "PART_TIME"
	EmploymentContract   = "CONTRACT"
	EmploymentInternship = "INTERNSHIP"
)

// Listing page bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 100000
)
