package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type WorkerSaver interface {
	SaveWorker(ctx context.Context, w storage.Worker) (int64, error)
}

type TimesheetSaver interface {
	SaveTimesheet(ctx context.Context, req storage.SaveTimesheet) error
}

type Resp struct {
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

// SaveWorker creates an employee record.
func SaveWorker(log *slog.Logger, saver WorkerSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.workers.SaveWorker"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.Worker
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.HourlyRate < 0 {
			http.Error(w, "hourly_rate must not be negative", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveWorker(ctx, req)
		if err != nil {
			log.Error("failed to save worker", slog.String("name", req.Name), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("worker created", slog.String("name", req.Name), slog.Int64("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Resp{Status: "created", ID: id})
	}
}

// SaveTimesheet records a batch of per-day, per-stage minutes. Resubmitting
// a worker/day/stage entry replaces the stored minutes.
func SaveTimesheet(log *slog.Logger, saver TimesheetSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.workers.SaveTimesheet"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.SaveTimesheet
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.Entries) == 0 {
			http.Error(w, "timesheet needs at least one entry", http.StatusBadRequest)
			return
		}
		for _, entry := range req.Entries {
			if entry.WorkerID == 0 {
				http.Error(w, "every entry needs a worker_id", http.StatusBadRequest)
				return
			}
			if !pipeline.Valid(entry.Stage) {
				http.Error(w, "Invalid stage in timesheet entry", http.StatusBadRequest)
				return
			}
			if entry.Minutes < 0 {
				http.Error(w, "minutes must not be negative", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveTimesheet(ctx, req); err != nil {
			log.Error("failed to save timesheet", slog.Int("entries", len(req.Entries)), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("timesheet saved", slog.Int("entries", len(req.Entries)))

		render.JSON(w, r, Resp{Status: "saved"})
	}
}
