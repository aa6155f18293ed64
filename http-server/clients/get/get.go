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

	"tubeworks/internal/storage"
)

type ClientsLister interface {
	GetClients(ctx context.Context, search string) ([]*storage.Client, error)
}

type ClientProvider interface {
	GetClient(ctx context.Context, id int64) (*storage.Client, error)
}

// GetClients lists clients, optionally filtered with ?search= on the name.
func GetClients(log *slog.Logger, clients ClientsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.clients.GetClients"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		search := r.URL.Query().Get("search")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := clients.GetClients(ctx, search)
		if err != nil {
			log.Error("failed to list clients", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}

// GetClient returns one client by id.
func GetClient(log *slog.Logger, provider ClientProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.clients.GetClient"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid client id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		client, err := provider.GetClient(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Client not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get client", slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, client)
	}
}
