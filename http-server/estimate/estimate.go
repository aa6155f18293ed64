package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/pipeline"
	estimatesvc "tubeworks/internal/service/estimate"
	"tubeworks/internal/storage"
)

type Estimator interface {
	ForOrderLine(ctx context.Context, orderNum string, position int, stage pipeline.Stage) (*estimatesvc.Estimate, error)
}

// Estimate runs the costing calculator for one order line. An explicit stage
// picks that machine line; otherwise the job's current stage decides.
func Estimate(log *slog.Logger, estimator Estimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.estimate.Estimate"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			OrderNum string `json:"order_num"`
			Position int    `json:"position"`
			Stage    string `json:"stage,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.OrderNum == "" || req.Position == 0 {
			http.Error(w, "order_num and position are required", http.StatusBadRequest)
			return
		}

		var stage pipeline.Stage
		if req.Stage != "" {
			parsed, err := pipeline.ParseStage(req.Stage)
			if err != nil {
				http.Error(w, "Invalid stage", http.StatusBadRequest)
				return
			}
			stage = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		est, err := estimator.ForOrderLine(ctx, req.OrderNum, req.Position, stage)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			log.Error("failed to estimate order line",
				slog.String("order_num", req.OrderNum),
				slog.Int("position", req.Position),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, est)
	}
}
