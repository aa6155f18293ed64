package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tubeworks/internal/storage"
)

type MockWorkerSaver struct {
	mock.Mock
}

func (m *MockWorkerSaver) SaveWorker(ctx context.Context, w storage.Worker) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

type MockTimesheetSaver struct {
	mock.Mock
}

func (m *MockTimesheetSaver) SaveTimesheet(ctx context.Context, req storage.SaveTimesheet) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func TestSaveWorker_Success(t *testing.T) {
	saver := new(MockWorkerSaver)

	saver.On("SaveWorker", mock.Anything, mock.MatchedBy(func(w storage.Worker) bool {
		return w.Name == "Alan Briggs" && w.HourlyRate == 31.50
	})).Return(int64(7), nil)

	handler := SaveWorker(slog.Default(), saver)

	body := `{"name":"Alan Briggs","role":"winder","hourly_rate":31.50,"active":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/workers", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp Resp
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, int64(7), resp.ID)

	saver.AssertExpectations(t)
}

func TestSaveWorker_MissingName(t *testing.T) {
	saver := new(MockWorkerSaver)
	handler := SaveWorker(slog.Default(), saver)

	body := `{"role":"winder","hourly_rate":31.50}`
	req := httptest.NewRequest(http.MethodPost, "/api/workers", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	saver.AssertNotCalled(t, "SaveWorker")
}

func TestSaveTimesheet_Success(t *testing.T) {
	saver := new(MockTimesheetSaver)

	saver.On("SaveTimesheet", mock.Anything, mock.MatchedBy(func(req storage.SaveTimesheet) bool {
		return len(req.Entries) == 2
	})).Return(nil)

	handler := SaveTimesheet(slog.Default(), saver)

	body := `{"entries":[
		{"worker_id":7,"work_date":"2025-06-02T00:00:00Z","stage":"winding","minutes":480},
		{"worker_id":7,"work_date":"2025-06-02T00:00:00Z","stage":"finishing","minutes":60}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/timesheets", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Resp
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "saved", resp.Status)

	saver.AssertExpectations(t)
}

func TestSaveTimesheet_EmptyEntries(t *testing.T) {
	saver := new(MockTimesheetSaver)
	handler := SaveTimesheet(slog.Default(), saver)

	req := httptest.NewRequest(http.MethodPost, "/api/timesheets", strings.NewReader(`{"entries":[]}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	saver.AssertNotCalled(t, "SaveTimesheet")
}

func TestSaveTimesheet_UnknownStage(t *testing.T) {
	saver := new(MockTimesheetSaver)
	handler := SaveTimesheet(slog.Default(), saver)

	body := `{"entries":[{"worker_id":7,"work_date":"2025-06-02T00:00:00Z","stage":"lamination","minutes":480}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/timesheets", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid stage")
	saver.AssertNotCalled(t, "SaveTimesheet")
}

func TestSaveTimesheet_NegativeMinutes(t *testing.T) {
	saver := new(MockTimesheetSaver)
	handler := SaveTimesheet(slog.Default(), saver)

	body := `{"entries":[{"worker_id":7,"work_date":"2025-06-02T00:00:00Z","stage":"winding","minutes":-30}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/timesheets", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	saver.AssertNotCalled(t, "SaveTimesheet")
}
