package dto

import "github.com/fieldwise/fsm-api/internal/models"

// SavePlanningRequest is the payload for creating or fully editing a planning
// record. Dates are YYYY-MM-DD, clock values HH:MM.
type SavePlanningRequest struct {
	SheetID  *string `json:"sheet_id"`
	JobID    *string `json:"job_id"`
	ClientID *string `json:"client_id"`

	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	AllDay    bool    `json:"all_day"`

	SkipSaturday bool `json:"skip_saturday"`
	SkipSunday   bool `json:"skip_sunday"`
	SkipHolidays bool `json:"skip_holidays"`

	TechnicianIDs       []string `json:"technician_ids" validate:"required,min=1"`
	VehicleID           *string  `json:"vehicle_id"`
	SecondaryVehicleIDs []string `json:"secondary_vehicle_ids"`

	Description string `json:"description"`

	// Recurrence is consumed at creation time only; every generated record is
	// persisted as non-recurring.
	Recurring     bool    `json:"recurring"`
	Weekdays      []int   `json:"weekdays" validate:"omitempty,dive,gte=0,lte=6"`
	RecurrenceEnd *string `json:"recurrence_end" validate:"omitempty,datetime=2006-01-02"`
}

// SaveFailure reports one recurrence occurrence that could not be persisted.
type SaveFailure struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// SavePlanningResult is returned by the save orchestrator: the persisted
// records plus advisory conflict warnings that never block the save.
type SavePlanningResult struct {
	Records  []models.PlanningRecord `json:"records"`
	Warnings []string                `json:"warnings"`
	Failures []SaveFailure           `json:"failures,omitempty"`
}

// ChangeStatusRequest asks for a single lifecycle transition.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AvailabilityResult is the outcome of an advisory availability check.
type AvailabilityResult struct {
	Available bool     `json:"available"`
	Conflicts []string `json:"conflicts,omitempty"`
}
