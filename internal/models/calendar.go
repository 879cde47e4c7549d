package models

import "time"

// CalendarEvent is the display-ready projection of a planning record or an
// aggregated group of interventions. Derived on every read, never persisted.
type CalendarEvent struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Start    time.Time            `json:"start"`
	End      time.Time            `json:"end"`
	AllDay   bool                 `json:"all_day"`
	Extended CalendarEventDetails `json:"extended"`
}

// CalendarEventDetails carries the denormalized payload resolved against the
// reference collections.
type CalendarEventDetails struct {
	PlanningID      string               `json:"planning_id,omitempty"`
	JobCode         string               `json:"job_code"`
	ClientName      string               `json:"client_name"`
	TechnicianNames []string             `json:"technician_names"`
	VehiclePlate    string               `json:"vehicle_plate,omitempty"`
	Status          PlanningStatus       `json:"status,omitempty"`
	SheetNumber     string               `json:"sheet_number,omitempty"`
	WorkHours       float64              `json:"work_hours,omitempty"`
	TravelHours     float64              `json:"travel_hours,omitempty"`
	Interventions   []InterventionRecord `json:"interventions,omitempty"`
}
