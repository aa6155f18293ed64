package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type ClientUpdater interface {
	UpdateClient(ctx context.Context, id int64, req storage.SaveClient) error
}

type Resp struct {
	Status string `json:"status"`
}

// UpdateClient rewrites a client record in place.
func UpdateClient(log *slog.Logger, updater ClientUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.clients.UpdateClient"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid client id", http.StatusBadRequest)
			return
		}

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

		if err := updater.UpdateClient(ctx, id, req); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Client not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update client", slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("client updated", slog.Int64("id", id))

		render.JSON(w, r, Resp{Status: "updated"})
	}
}
