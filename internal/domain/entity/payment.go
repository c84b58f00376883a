package entity

import (
	"time"

	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// PaymentProof is one submission of payment evidence for a company
type PaymentProof struct {
	ID              int64          `json:"id"`
	CompanyID       int64          `json:"company_id"`
	ReferenceNumber string         `json:"reference_number"`
	FilePath        string         `json:"file_path"`
	Status          workflow.State `json:"status"`
	AdminNotes      string         `json:"admin_notes,omitempty"`
	DecidedBy       *int64         `json:"decided_by,omitempty"`
	UploadDate      time.Time      `json:"upload_date"`
	VerifiedDate    *time.Time     `json:"verified_date,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PaymentStatus is the display view of a company's payment state
type PaymentStatus struct {
	CompanyID       int64          `json:"company_id"`
	Status          workflow.State `json:"status"`
	PaymentVerified bool           `json:"payment_verified"`
	Current         *PaymentProof  `json:"current,omitempty"`
}
