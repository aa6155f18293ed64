package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type ProductsLister interface {
	GetProducts(ctx context.Context, search string, activeOnly bool) ([]*storage.ProductSpec, error)
}

type ProductProvider interface {
	GetProductByCode(ctx context.Context, code string) (*storage.ProductSpec, error)
}

// GetProducts lists catalogue entries. ?search= filters on code or name,
// ?active=true drops retired products.
func GetProducts(log *slog.Logger, products ProductsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.GetProducts"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		search := r.URL.Query().Get("search")
		activeOnly := r.URL.Query().Get("active") == "true"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := products.GetProducts(ctx, search, activeOnly)
		if err != nil {
			log.Error("failed to list products", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}

// GetProduct returns one catalogue entry by product code.
func GetProduct(log *slog.Logger, provider ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.GetProduct"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := chi.URLParam(r, "code")
		if code == "" {
			http.Error(w, "product code is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		product, err := provider.GetProductByCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Product not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get product", slog.String("code", code), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, product)
	}
}
