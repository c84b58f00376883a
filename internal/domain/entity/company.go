package entity

import "time"

// Company is the employer-owned profile gating job posting
type Company struct {
	ID              int64     `json:"id"`
	OwnerUserID     int64     `json:"owner_user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	Website         string    `json:"website,omitempty"`
	Address         string    `json:"address,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	PaymentVerified bool      `json:"payment_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyProfile holds the owner-editable fields. PaymentVerified is
// deliberately absent.
type CompanyProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Apply copies the profile onto the company
func (c *Company) Apply(p CompanyProfile) {
	c.Name = p.Name
	c.Description = p.Description
	c.Industry = p.Industry
	c.Website = p.Website
	c.Address = p.Address
	c.PhoneNumber = p.PhoneNumber
}
