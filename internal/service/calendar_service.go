package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

// missingRef is the literal shown when reference data cannot be resolved.
// The aggregator never fails on dangling references.
const missingRef = "N/A"

type planningLister interface {
	List(ctx context.Context, filter models.PlanningFilter) ([]models.PlanningRecord, int, error)
}

type interventionLister interface {
	List(ctx context.Context, filter models.InterventionFilter) ([]models.InterventionRecord, error)
}

type referenceProvider interface {
	Clients(ctx context.Context) ([]models.Client, error)
	Technicians(ctx context.Context) ([]models.Technician, error)
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	Jobs(ctx context.Context) ([]models.Job, error)
	Sheets(ctx context.Context) ([]models.ServiceSheet, error)
}

// CalendarService turns planning and intervention records into
// display-ready calendar events. Stateless; everything is recomputed per
// call.
type CalendarService struct {
	plannings     planningLister
	interventions interventionLister
	refs          referenceProvider
	logger        *zap.Logger
}

// NewCalendarService constructs the aggregator.
func NewCalendarService(plannings planningLister, interventions interventionLister, refs referenceProvider, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{plannings: plannings, interventions: interventions, refs: refs, logger: logger}
}

type refIndex struct {
	clients     map[string]models.Client
	technicians map[string]models.Technician
	vehicles    map[string]models.Vehicle
	jobs        map[string]models.Job
	sheets      map[string]models.ServiceSheet
}

func (s *CalendarService) buildIndex(ctx context.Context) (*refIndex, error) {
	clients, err := s.refs.Clients(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}
	technicians, err := s.refs.Technicians(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load technicians")
	}
	vehicles, err := s.refs.Vehicles(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vehicles")
	}
	jobs, err := s.refs.Jobs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jobs")
	}
	sheets, err := s.refs.Sheets(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service sheets")
	}

	idx := &refIndex{
		clients:     make(map[string]models.Client, len(clients)),
		technicians: make(map[string]models.Technician, len(technicians)),
		vehicles:    make(map[string]models.Vehicle, len(vehicles)),
		jobs:        make(map[string]models.Job, len(jobs)),
		sheets:      make(map[string]models.ServiceSheet, len(sheets)),
	}
	for _, c := range clients {
		idx.clients[c.ID] = c
	}
	for _, t := range technicians {
		idx.technicians[t.ID] = t
	}
	for _, v := range vehicles {
		idx.vehicles[v.ID] = v
	}
	for _, j := range jobs {
		idx.jobs[j.ID] = j
	}
	for _, sh := range sheets {
		idx.sheets[sh.ID] = sh
	}
	return idx, nil
}

// PlanningEvents maps every planning record in the range to one event.
func (s *CalendarService) PlanningEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error) {
	records, _, err := s.plannings.List(ctx, models.PlanningFilter{From: from, To: to, PageSize: 500})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plannings")
	}

	idx, err := s.buildIndex(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(records))
	for _, record := range records {
		events = append(events, s.planningEvent(record, idx))
	}
	return events, nil
}

func (s *CalendarService) planningEvent(record models.PlanningRecord, idx *refIndex) models.CalendarEvent {
	jobCode, clientName, sheetNumber := idx.resolveLinkage(record.SheetID, record.JobID, record.ClientID)

	names := make([]string, 0, len(record.TechnicianIDs))
	for _, id := range record.TechnicianIDs {
		if technician, ok := idx.technicians[id]; ok {
			names = append(names, technician.FullName())
		} else {
			names = append(names, missingRef)
		}
	}

	plate := ""
	if record.VehicleID != nil {
		if vehicle, ok := idx.vehicles[*record.VehicleID]; ok {
			plate = vehicle.Plate
		} else {
			plate = missingRef
		}
	}

	start, end := eventBounds(record)
	return models.CalendarEvent{
		ID:     record.ID,
		Title:  fmt.Sprintf("%s - %s", jobCode, strings.Join(names, ", ")),
		Start:  start,
		End:    end,
		AllDay: record.AllDay,
		Extended: models.CalendarEventDetails{
			PlanningID:      record.ID,
			JobCode:         jobCode,
			ClientName:      clientName,
			TechnicianNames: names,
			VehiclePlate:    plate,
			Status:          record.Status,
			SheetNumber:     sheetNumber,
		},
	}
}

// InterventionEvents aggregates logged interventions sharing date, technician
// and job into one all-day event each, with summed hours and the underlying
// records attached for drill-down. Group order follows first appearance.
func (s *CalendarService) InterventionEvents(ctx context.Context, from, to *time.Time) ([]models.CalendarEvent, error) {
	records, err := s.interventions.List(ctx, models.InterventionFilter{From: from, To: to})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interventions")
	}

	idx, err := s.buildIndex(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		date         time.Time
		technicianID string
		jobID        string
		sheetID      string
		work         float64
		travel       float64
		members      []models.InterventionRecord
	}

	groups := make(map[string]*group)
	var order []string
	for _, record := range records {
		// Records without a date or technician cannot be keyed and are
		// excluded from aggregation.
		if record.Date == nil || record.TechnicianID == nil || *record.TechnicianID == "" {
			continue
		}

		jobID := ""
		if sheet, ok := idx.sheets[record.SheetID]; ok && sheet.JobID != nil {
			jobID = *sheet.JobID
		}
		dateKey := record.Date.Format("2006-01-02")
		key := dateKey + "|" + *record.TechnicianID + "|" + jobID

		g, ok := groups[key]
		if !ok {
			g = &group{date: truncateToDay(*record.Date), technicianID: *record.TechnicianID, jobID: jobID, sheetID: record.SheetID}
			groups[key] = g
			order = append(order, key)
		}
		g.work += record.WorkHours
		g.travel += record.TravelHours
		g.members = append(g.members, record)
	}

	events := make([]models.CalendarEvent, 0, len(order))
	for _, key := range order {
		g := groups[key]

		techName := missingRef
		if technician, ok := idx.technicians[g.technicianID]; ok {
			techName = technician.FullName()
		}

		jobCode := missingRef
		clientName := missingRef
		if job, ok := idx.jobs[g.jobID]; ok {
			jobCode = job.Code
			if job.ClientID != nil {
				if client, found := idx.clients[*job.ClientID]; found {
					clientName = client.Name
				}
			}
		}
		sheetNumber := ""
		if sheet, ok := idx.sheets[g.sheetID]; ok {
			sheetNumber = sheet.Number
			if clientName == missingRef && sheet.ClientID != nil {
				if client, found := idx.clients[*sheet.ClientID]; found {
					clientName = client.Name
				}
			}
		}

		events = append(events, models.CalendarEvent{
			ID:     "interventions:" + key,
			Title:  fmt.Sprintf("%s - %s", jobCode, techName),
			Start:  g.date,
			End:    endOfDay(g.date),
			AllDay: true,
			Extended: models.CalendarEventDetails{
				JobCode:         jobCode,
				ClientName:      clientName,
				TechnicianNames: []string{techName},
				SheetNumber:     sheetNumber,
				WorkHours:       g.work,
				TravelHours:     g.travel,
				Interventions:   g.members,
			},
		})
	}
	return events, nil
}

// resolveLinkage denormalizes job code, client name and sheet number from
// either linkage mode, falling back through sheet → job → client.
func (idx *refIndex) resolveLinkage(sheetID, jobID, clientID *string) (string, string, string) {
	jobCode := missingRef
	clientName := missingRef
	sheetNumber := ""

	var job *models.Job
	if jobID != nil {
		if j, ok := idx.jobs[*jobID]; ok {
			job = &j
		}
	}
	if sheetID != nil {
		if sheet, ok := idx.sheets[*sheetID]; ok {
			sheetNumber = sheet.Number
			if job == nil && sheet.JobID != nil {
				if j, found := idx.jobs[*sheet.JobID]; found {
					job = &j
				}
			}
			if clientID == nil {
				clientID = sheet.ClientID
			}
		}
	}
	if job != nil {
		jobCode = job.Code
		if clientID == nil {
			clientID = job.ClientID
		}
	}
	if clientID != nil {
		if client, ok := idx.clients[*clientID]; ok {
			clientName = client.Name
		}
	}
	return jobCode, clientName, sheetNumber
}

// eventBounds computes display instants: whole-day span for all-day records,
// date+time otherwise. Missing times degrade to day bounds.
func eventBounds(record models.PlanningRecord) (time.Time, time.Time) {
	start := truncateToDay(record.StartDate)
	end := endOfDay(record.EndDate)
	if record.AllDay {
		return start, end
	}
	if record.StartTime != nil {
		if at, ok := combineDateTime(record.StartDate, *record.StartTime); ok {
			start = at
		}
	}
	if record.EndTime != nil {
		if at, ok := combineDateTime(record.EndDate, *record.EndTime); ok {
			end = at
		}
	}
	return start, end
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
