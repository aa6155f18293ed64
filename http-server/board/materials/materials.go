package materials

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type MaterialsSetter interface {
	SetMaterials(ctx context.Context, orderNum string, ready bool) (*storage.Job, error)
}

// SetMaterials flips the materials flag on a job. The flag gates the
// forward move out of pending_material but never blocks backward moves.
func SetMaterials(log *slog.Logger, setter MaterialsSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.board.SetMaterials"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			OrderNum string `json:"order_num"`
			Ready    bool   `json:"ready"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.OrderNum == "" {
			http.Error(w, "order_num is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		job, err := setter.SetMaterials(ctx, req.OrderNum, req.Ready)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Job not found", http.StatusNotFound)
				return
			}
			log.Error("failed to set materials flag",
				slog.String("order_num", req.OrderNum),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("materials flag updated",
			slog.String("order_num", req.OrderNum),
			slog.Bool("ready", req.Ready),
		)

		render.JSON(w, r, job)
	}
}
