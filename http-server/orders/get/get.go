package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/billing"
	"tubeworks/internal/storage"
)

type OrdersLister interface {
	GetOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.Order, error)
}

type OrderProvider interface {
	GetOrder(ctx context.Context, orderNum string) (*storage.Order, error)
}

// OrderDetail is one order with its billing figures attached.
type OrderDetail struct {
	*storage.Order
	Totals billing.Totals `json:"totals"`
}

// GetOrdersFilter lists orders for one calendar month, or by free-text
// search across order numbers and client names. Search overrides the month.
func GetOrdersFilter(log *slog.Logger, orders OrdersLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.GetOrdersFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		yearStr := r.URL.Query().Get("year")
		monthStr := r.URL.Query().Get("month")
		search := r.URL.Query().Get("search")

		var year, month int
		var err error

		// Without a search term the month window is mandatory.
		if search == "" {
			if yearStr == "" || monthStr == "" {
				http.Error(w, "Missing year or month", http.StatusBadRequest)
				return
			}

			year, err = strconv.Atoi(yearStr)
			if err != nil {
				http.Error(w, "Invalid year", http.StatusBadRequest)
				return
			}

			month, err = strconv.Atoi(monthStr)
			if err != nil || month < 1 || month > 12 {
				http.Error(w, "Invalid month", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := orders.GetOrdersMonth(ctx, year, month, search)
		if err != nil {
			log.Error("failed to list orders", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}

// GetOrder returns one order with its lines and GST totals.
func GetOrder(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.GetOrder"

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

		order, err := provider.GetOrder(ctx, orderNum)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get order", slog.String("order_num", orderNum), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, OrderDetail{
			Order:  order,
			Totals: billing.OrderTotals(order.Items),
		})
	}
}
