package entity

import (
	"time"

	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// Job is a posting owned by a company
type Job struct {
	ID               int64          `json:"id"`
	CompanyID        int64          `json:"company_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Category         string         `json:"category"`
	Location         string         `json:"location"`
	EmploymentType   string         `json:"employment_type,omitempty"`
	MinSalary        *float64       `json:"min_salary,omitempty"`
	MaxSalary        *float64       `json:"max_salary,omitempty"`
	Requirements     string         `json:"requirements,omitempty"`
	Responsibilities string         `json:"responsibilities,omitempty"`
	Status           workflow.State `json:"status"`
	RejectionReason  string         `json:"rejection_reason,omitempty"`
	ApprovedBy       *int64         `json:"approved_by,omitempty"`
	PublishedAt      *time.Time     `json:"published_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// JobData holds the employer-supplied fields of a posting
type JobData struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employment_type"`
	MinSalary        *float64 `json:"min_salary"`
	MaxSalary        *float64 `json:"max_salary"`
	Requirements     string   `json:"requirements"`
	Responsibilities string   `json:"responsibilities"`
}

// Apply copies the posting fields onto the job
func (j *Job) Apply(d JobData) {
	j.Title = d.Title
	j.Description = d.Description
	j.Category = d.Category
	j.Location = d.Location
	j.EmploymentType = d.EmploymentType
	j.MinSalary = d.MinSalary
	j.MaxSalary = d.MaxSalary
	j.Requirements = d.Requirements
	j.Responsibilities = d.Responsibilities
}

// JobFilter narrows the public listing of active jobs
type JobFilter struct {
	Keyword   string   `form:"keyword"`
	Category  string   `form:"category"`
	Location  string   `form:"location"`
	MinSalary *float64 `form:"min_salary"`
	MaxSalary *float64 `form:"max_salary"`
	Page      int      `form:"page"`
	Size      int      `form:"size"`
}

// Normalize clamps paging to the allowed bounds. Pages are zero-based.
func (f *JobFilter) Normalize() {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
}

// Offset returns the row offset of the filter's page
func (f JobFilter) Offset() int {
	return f.Page * f.Size
}

// Page is one slice of a paged listing
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
