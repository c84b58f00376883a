package entity

import (
	"time"

	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// Application is a job seeker's candidacy for one job
type Application struct {
	ID            int64          `json:"id"`
	JobID         int64          `json:"job_id"`
	JobSeekerID   int64          `json:"job_seeker_id"`
	Status        workflow.State `json:"status"`
	ResumePath    string         `json:"resume_path"`
	CoverLetter   string         `json:"cover_letter,omitempty"`
	EmployerNotes string         `json:"employer_notes,omitempty"`
	AppliedAt     time.Time      `json:"applied_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PipelineEntry is one row of an employer's cross-job candidate view
type PipelineEntry struct {
	ApplicationID int64          `json:"application_id"`
	JobID         int64          `json:"job_id"`
	JobTitle      string         `json:"job_title"`
	JobSeekerID   int64          `json:"job_seeker_id"`
	CandidateName string         `json:"candidate_name"`
	Status        workflow.State `json:"status"`
	EmployerNotes string         `json:"employer_notes,omitempty"`
	AppliedAt     time.Time      `json:"applied_at"`
}
