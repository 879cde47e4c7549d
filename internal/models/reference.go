package models

import (
	"strings"
	"time"
)

// Client is a customer the jobs belong to. Read-only reference data.
type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      *string   `db:"city" json:"city,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Technician is a bookable field operator.
type Technician struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FullName joins first and last name for display.
func (t Technician) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Vehicle is a bookable company vehicle.
type Vehicle struct {
	ID        string    `db:"id" json:"id"`
	Plate     string    `db:"plate" json:"plate"`
	Model     *string   `db:"model" json:"model,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Job (commessa) is a client engagement plannings and sheets are grouped
// under.
type Job struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	ClientID    *string   `db:"client_id" json:"client_id,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ServiceSheet (foglio di assistenza) is a work order document plannings and
// interventions can reference.
type ServiceSheet struct {
	ID        string    `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	JobID     *string   `db:"job_id" json:"job_id,omitempty"`
	ClientID  *string   `db:"client_id" json:"client_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReferenceFilter narrows reference-data listings.
type ReferenceFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
