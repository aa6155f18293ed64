package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type ClientSaver interface {
	SaveClient(ctx context.Context, req storage.SaveClient) (int64, error)
}

type Resp struct {
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

// SaveClient creates a client record.
func SaveClient(log *slog.Logger, saver ClientSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.clients.SaveClient"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.SaveClient
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveClient(ctx, req)
		if err != nil {
			log.Error("failed to save client", slog.String("name", req.Name), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("client created", slog.String("name", req.Name), slog.Int64("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Resp{Status: "created", ID: id})
	}
}
