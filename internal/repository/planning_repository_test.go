package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwise/fsm-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var planningRowColumns = []string{
	"id", "sheet_id", "job_id", "client_id", "start_date", "end_date", "start_time", "end_time", "all_day",
	"skip_saturday", "skip_sunday", "skip_holidays", "technician_ids", "vehicle_id", "secondary_vehicle_ids",
	"status", "description", "created_at", "updated_at",
}

func planningRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(planningRowColumns).
		AddRow("p1", nil, "j1", nil, day("2025-03-01"), day("2025-03-01"), "08:00", "17:00", false,
			false, false, false, "{t1}", nil, "{}", "Pianificata", "", now, now)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPlanningRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	from := day("2025-03-01")
	to := day("2025-03-31")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND end_date >= $1 AND start_date <= $2 AND $3 = ANY(technician_ids) ORDER BY start_date ASC, start_time ASC NULLS FIRST LIMIT 100 OFFSET 0")).
		WithArgs(from, to, "t1").
		WillReturnRows(planningRow())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM plannings WHERE 1=1 AND end_date >= $1 AND start_date <= $2 AND $3 = ANY(technician_ids)")).
		WithArgs(from, to, "t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.PlanningFilter{From: &from, To: &to, TechnicianID: "t1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"t1"}, []string(records[0].TechnicianIDs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryListVehicleFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND (vehicle_id = $1 OR $1 = ANY(secondary_vehicle_ids))")).
		WithArgs("v1").
		WillReturnRows(planningRow())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM plannings WHERE 1=1 AND (vehicle_id = $1 OR $1 = ANY(secondary_vehicle_ids))")).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), models.PlanningFilter{VehicleID: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM plannings WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(planningRow())

	record, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", record.ID)
	assert.Equal(t, models.PlanningStatusPlanned, record.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM plannings WHERE id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestPlanningRepositoryInsertAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectExec("INSERT INTO plannings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.PlanningRecord{
		StartDate:     day("2025-03-01"),
		EndDate:       day("2025-03-01"),
		TechnicianIDs: []string{"t1"},
		Status:        models.PlanningStatusPlanned,
	}
	require.NoError(t, repo.Insert(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE plannings SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("Confermata", sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "p1", models.PlanningStatusConfirmed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plannings WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryListOverlappingTechnician(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE $1 = ANY(technician_ids) AND start_date <= $2 AND end_date >= $3 AND ($4 = '' OR id <> $4)")).
		WithArgs("t1", day("2025-03-02"), day("2025-03-01"), "p9").
		WillReturnRows(planningRow())

	records, err := repo.ListOverlapping(context.Background(), models.ResourceTechnician, "t1", day("2025-03-01"), day("2025-03-02"), "p9")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryListOverlappingVehicle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (vehicle_id = $1 OR $1 = ANY(secondary_vehicle_ids)) AND start_date <= $2 AND end_date >= $3")).
		WithArgs("v1", day("2025-03-02"), day("2025-03-01"), "").
		WillReturnRows(sqlmock.NewRows(planningRowColumns))

	records, err := repo.ListOverlapping(context.Background(), models.ResourceVehicle, "v1", day("2025-03-01"), day("2025-03-02"), "")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanningRepositoryListOverlappingUnknownKind(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanningRepository(db)

	_, err := repo.ListOverlapping(context.Background(), models.ResourceKind("building"), "x", day("2025-03-01"), day("2025-03-02"), "")
	require.Error(t, err)
}
