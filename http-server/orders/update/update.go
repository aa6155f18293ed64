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

type OrderUpdater interface {
	UpdateOrder(ctx context.Context, orderNum string, req storage.SaveOrder) error
}

type Resp struct {
	Status string `json:"status"`
}

// UpdateOrder rewrites the order header and replaces its lines wholesale.
func UpdateOrder(log *slog.Logger, updater OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.UpdateOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderNum := chi.URLParam(r, "orderNum")
		if orderNum == "" {
			http.Error(w, "order number is required", http.StatusBadRequest)
			return
		}

		var req storage.SaveOrder
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "order needs at least one line item", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateOrder(ctx, orderNum, req); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update order", slog.String("order_num", orderNum), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("order updated", slog.String("order_num", orderNum))

		render.JSON(w, r, Resp{Status: "updated"})
	}
}
