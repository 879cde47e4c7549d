package models

import (
	"time"

	"github.com/lib/pq"
)

// PlanningStatus is the lifecycle state of a planning record. Values are kept
// in the domain language used by the operators.
type PlanningStatus string

const (
	PlanningStatusPlanned    PlanningStatus = "Pianificata"
	PlanningStatusConfirmed  PlanningStatus = "Confermata"
	PlanningStatusInProgress PlanningStatus = "In Corso"
	PlanningStatusCompleted  PlanningStatus = "Completata"
	PlanningStatusCancelled  PlanningStatus = "Cancellata"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PlanningStatus) Valid() bool {
	switch s {
	case PlanningStatusPlanned, PlanningStatusConfirmed, PlanningStatusInProgress,
		PlanningStatusCompleted, PlanningStatusCancelled:
		return true
	}
	return false
}

// ResourceKind discriminates the two bookable resource types.
type ResourceKind string

const (
	ResourceTechnician ResourceKind = "technician"
	ResourceVehicle    ResourceKind = "vehicle"
)

// PlanningRecord assigns technicians and optionally vehicles to a time window
// linked to a job or a service sheet.
type PlanningRecord struct {
	ID       string  `db:"id" json:"id"`
	SheetID  *string `db:"sheet_id" json:"sheet_id,omitempty"`
	JobID    *string `db:"job_id" json:"job_id,omitempty"`
	ClientID *string `db:"client_id" json:"client_id,omitempty"`

	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	// StartTime/EndTime hold HH:MM clock strings; both are null on all-day
	// records.
	StartTime *string `db:"start_time" json:"start_time,omitempty"`
	EndTime   *string `db:"end_time" json:"end_time,omitempty"`
	AllDay    bool    `db:"all_day" json:"all_day"`

	// Informational flags consumed when interpreting the window; they never
	// alter the stored bounds.
	SkipSaturday bool `db:"skip_saturday" json:"skip_saturday"`
	SkipSunday   bool `db:"skip_sunday" json:"skip_sunday"`
	SkipHolidays bool `db:"skip_holidays" json:"skip_holidays"`

	TechnicianIDs       pq.StringArray `db:"technician_ids" json:"technician_ids"`
	VehicleID           *string        `db:"vehicle_id" json:"vehicle_id,omitempty"`
	SecondaryVehicleIDs pq.StringArray `db:"secondary_vehicle_ids" json:"secondary_vehicle_ids"`

	Status      PlanningStatus `db:"status" json:"status"`
	Description string         `db:"description" json:"description"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlanningFilter describes query params for listing planning records.
type PlanningFilter struct {
	From         *time.Time
	To           *time.Time
	TechnicianID string
	VehicleID    string
	JobID        string
	SheetID      string
	ClientID     string
	Status       PlanningStatus
	Page         int
	PageSize     int
}
