package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type ProductUpdater interface {
	UpdateProduct(ctx context.Context, code string, req storage.SaveProductSpec) error
}

type Resp struct {
	Status string `json:"status"`
}

// UpdateProduct rewrites a catalogue entry. Null pointer fields clear the
// stored value, so the payload is the full record, not a patch.
func UpdateProduct(log *slog.Logger, updater ProductUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.UpdateProduct"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := chi.URLParam(r, "code")
		if code == "" {
			http.Error(w, "product code is required", http.StatusBadRequest)
			return
		}

		var req storage.SaveProductSpec
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

		if err := updater.UpdateProduct(ctx, code, req); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Product not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update product", slog.String("code", code), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("product updated", slog.String("code", code))

		render.JSON(w, r, Resp{Status: "updated"})
	}
}
