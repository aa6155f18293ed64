package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type WorkersLister interface {
	GetWorkers(ctx context.Context, activeOnly bool) ([]storage.Worker, error)
}

// GetWorkers lists employees. ?active=true drops people no longer on the
// payroll.
func GetWorkers(log *slog.Logger, workers WorkersLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.workers.GetWorkers"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		activeOnly := r.URL.Query().Get("active") == "true"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := workers.GetWorkers(ctx, activeOnly)
		if err != nil {
			log.Error("failed to list workers", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
