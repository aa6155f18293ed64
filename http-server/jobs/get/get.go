package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type JobProvider interface {
	Job(ctx context.Context, orderNum string) (*storage.Job, error)
}

type JobsLister interface {
	GetJobs(ctx context.Context, stages []pipeline.Stage) ([]*storage.Job, error)
}

// Job returns one job by its order number.
func Job(log *slog.Logger, provider JobProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.jobs.Job"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderNum := chi.URLParam(r, "orderNum")
		if orderNum == "" {
			http.Error(w, "order number is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		job, err := provider.Job(ctx, orderNum)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Job not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get job", slog.String("order_num", orderNum), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, job)
	}
}

// Jobs returns the flat job list, optionally narrowed to one stage with
// ?stage=.
func Jobs(log *slog.Logger, lister JobsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.jobs.Jobs"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var stages []pipeline.Stage
		if raw := r.URL.Query().Get("stage"); raw != "" {
			stage, err := pipeline.ParseStage(raw)
			if err != nil {
				http.Error(w, "Invalid stage parameter", http.StatusBadRequest)
				return
			}
			stages = []pipeline.Stage{stage}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		jobs, err := lister.GetJobs(ctx, stages)
		if err != nil {
			log.Error("failed to get jobs", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		for _, job := range jobs {
			job.Overdue = job.OverdueAt(now)
		}

		render.JSON(w, r, jobs)
	}
}
