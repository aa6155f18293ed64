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

type OrderSaver interface {
	SaveOrder(ctx context.Context, req storage.SaveOrder) (int64, error)
}

type Resp struct {
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

// SaveOrder creates an order with its lines. The matching board job is
// created inside the same transaction, at the first stage.
func SaveOrder(log *slog.Logger, saver OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.SaveOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req storage.SaveOrder
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if req.OrderNum == "" || req.ClientID == 0 {
			http.Error(w, "order_num and client_id are required", http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "order needs at least one line item", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveOrder(ctx, req)
		if err != nil {
			log.Error("failed to save order", slog.String("order_num", req.OrderNum), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("order created", slog.String("order_num", req.OrderNum), slog.Int64("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Resp{Status: "created", ID: id})
	}
}
