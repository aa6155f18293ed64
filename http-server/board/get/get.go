package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/storage"
)

type BoardProvider interface {
	Snapshot(ctx context.Context) (*storage.BoardSnapshot, error)
}

// Board serves the full production board. Clients poll this endpoint and
// replace their copy wholesale, so the response is always the complete set
// of columns.
func Board(log *slog.Logger, board BoardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.board.Board"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := board.Snapshot(ctx)
		if err != nil {
			log.Error("failed to build board snapshot", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, snap)
	}
}
