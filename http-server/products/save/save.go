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

type ProductSaver interface {
	SaveProduct(ctx context.Context, req storage.SaveProductSpec) (int64, error)
}

type Resp struct {
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

// SaveProduct creates a catalogue entry. Mounted behind admin basic auth;
// the costing figures here feed every estimate for the code.
func SaveProduct(log *slog.Logger, saver ProductSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.SaveProduct"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.SaveProductSpec
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Code == "" || req.Name == "" {
			http.Error(w, "code and name are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveProduct(ctx, req)
		if err != nil {
			log.Error("failed to save product", slog.String("code", req.Code), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("product created", slog.String("code", req.Code), slog.Int64("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Resp{Status: "created", ID: id})
	}
}
