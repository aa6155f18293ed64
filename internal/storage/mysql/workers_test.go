package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

func createTestWorker(t *testing.T, s *Storage, name, role string, rate float64) int64 {
	t.Helper()

	id, err := s.SaveWorker(context.Background(), storage.Worker{
		Name:       name,
		Role:       role,
		HourlyRate: rate,
		Active:     true,
	})
	require.NoError(t, err)
	return id
}

func TestStorage_GetWorkersActiveFilter(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	createTestWorker(t, s, "Alan Ho", "winder", 31.50)
	inactiveID, err := s.SaveWorker(context.Background(), storage.Worker{
		Name: "Former Employee", Role: "slitter", HourlyRate: 29, Active: false,
	})
	require.NoError(t, err)
	require.NotZero(t, inactiveID)

	all, err := s.GetWorkers(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.GetWorkers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alan Ho", active[0].Name)
}

func TestStorage_SaveTimesheetReplacesSameDayStage(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	workerID := createTestWorker(t, s, "Alan Ho", "winder", 31.50)
	day := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

	err := s.SaveTimesheet(context.Background(), storage.SaveTimesheet{
		Entries: []storage.TimesheetEntry{
			{WorkerID: workerID, WorkDate: day, Stage: pipeline.StageWinding, Minutes: 300},
		},
	})
	require.NoError(t, err)

	// Resubmitting the same worker, day and stage corrects the figure
	// instead of double-counting it.
	err = s.SaveTimesheet(context.Background(), storage.SaveTimesheet{
		Entries: []storage.TimesheetEntry{
			{WorkerID: workerID, WorkDate: day, Stage: pipeline.StageWinding, Minutes: 240, Notes: "corrected"},
		},
	})
	require.NoError(t, err)

	rows, err := s.GetPayrollRows(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 240.0, rows[0].MinutesByStage[pipeline.StageWinding])
	assert.Equal(t, 240.0, rows[0].TotalMinutes)
}

func TestStorage_GetPayrollRowsAggregation(t *testing.T) {
	s := testStorage(t)
	cleanupTestDB(t)

	alanID := createTestWorker(t, s, "Alan Ho", "winder", 31.50)
	mariaID := createTestWorker(t, s, "Maria Costa", "slitter", 33.00)

	monday := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	nextWeek := monday.AddDate(0, 0, 7)

	err := s.SaveTimesheet(context.Background(), storage.SaveTimesheet{
		Entries: []storage.TimesheetEntry{
			{WorkerID: alanID, WorkDate: monday, Stage: pipeline.StageWinding, Minutes: 300},
			{WorkerID: alanID, WorkDate: tuesday, Stage: pipeline.StageWinding, Minutes: 180},
			{WorkerID: alanID, WorkDate: tuesday, Stage: pipeline.StageFinishing, Minutes: 120},
			{WorkerID: mariaID, WorkDate: monday, Stage: pipeline.StagePaperSlitting, Minutes: 420},
			// Outside the report range, must not be counted.
			{WorkerID: alanID, WorkDate: nextWeek, Stage: pipeline.StageWinding, Minutes: 600},
		},
	})
	require.NoError(t, err)

	rows, err := s.GetPayrollRows(context.Background(), monday, tuesday)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by worker name.
	alan, maria := rows[0], rows[1]
	require.Equal(t, "Alan Ho", alan.Name)
	require.Equal(t, "Maria Costa", maria.Name)

	assert.Equal(t, 480.0, alan.MinutesByStage[pipeline.StageWinding])
	assert.Equal(t, 120.0, alan.MinutesByStage[pipeline.StageFinishing])
	assert.Equal(t, 600.0, alan.TotalMinutes)
	assert.InDelta(t, 10.0, alan.TotalHours(), 1e-9)
	assert.InDelta(t, 315.0, alan.GrossPay(), 1e-9)

	assert.Equal(t, 420.0, maria.MinutesByStage[pipeline.StagePaperSlitting])
	assert.Equal(t, 420.0, maria.TotalMinutes)
}
