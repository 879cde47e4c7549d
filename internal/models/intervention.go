package models

import "time"

// InterventionRecord is a logged work entry attached to a service sheet.
// Read-only input to the calendar aggregation; this service never writes it.
type InterventionRecord struct {
	ID           string     `db:"id" json:"id"`
	SheetID      string     `db:"sheet_id" json:"sheet_id"`
	Date         *time.Time `db:"date" json:"date,omitempty"`
	TechnicianID *string    `db:"technician_id" json:"technician_id,omitempty"`
	WorkHours    float64    `db:"work_hours" json:"work_hours"`
	TravelHours  float64    `db:"travel_hours" json:"travel_hours"`
	Description  string     `db:"description" json:"description"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// InterventionFilter narrows intervention listings.
type InterventionFilter struct {
	From         *time.Time
	To           *time.Time
	TechnicianID string
	SheetID      string
}
