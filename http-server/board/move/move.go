package move

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/service/board"
	"tubeworks/internal/storage"
)

type BoardMover interface {
	Move(ctx context.Context, orderNum string, direction pipeline.Direction) (*storage.Job, error)
	Jump(ctx context.Context, orderNum string, target pipeline.Stage) (*storage.Job, error)
}

// Resp is the rejection envelope. Error carries the reason exactly as the
// rules produced it; board clients show it verbatim.
type Resp struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// MoveStage handles a single-step stage move. The request names only the
// job and a direction; the server decides everything else against the
// stored stage, so a stale board cannot push a job somewhere illegal.
func MoveStage(log *slog.Logger, mover BoardMover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.board.MoveStage"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			OrderNum  string `json:"order_num"`
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.OrderNum == "" {
			http.Error(w, "order_num is required", http.StatusBadRequest)
			return
		}

		direction, err := pipeline.ParseDirection(req.Direction)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Resp{Status: "Error", Error: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		job, err := mover.Move(ctx, req.OrderNum, direction)
		if err != nil {
			writeMoveError(w, r, log, req.OrderNum, err)
			return
		}

		log.Info("job moved",
			slog.String("order_num", req.OrderNum),
			slog.String("direction", string(direction)),
			slog.String("stage", string(job.Stage)),
		)

		render.JSON(w, r, job)
	}
}

// JumpStage places a job on an arbitrary stage. Mounted behind admin basic
// auth; the stage must still exist.
func JumpStage(log *slog.Logger, mover BoardMover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.board.JumpStage"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req struct {
			OrderNum string `json:"order_num"`
			Stage    string `json:"stage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.OrderNum == "" {
			http.Error(w, "order_num is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		job, err := mover.Jump(ctx, req.OrderNum, pipeline.Stage(req.Stage))
		if err != nil {
			writeMoveError(w, r, log, req.OrderNum, err)
			return
		}

		log.Info("job jumped",
			slog.String("order_num", req.OrderNum),
			slog.String("stage", string(job.Stage)),
		)

		render.JSON(w, r, job)
	}
}

func writeMoveError(w http.ResponseWriter, r *http.Request, log *slog.Logger, orderNum string, err error) {
	var rejection *board.RejectionError
	switch {
	case errors.As(err, &rejection):
		log.Info("move rejected",
			slog.String("order_num", orderNum),
			slog.String("reason", rejection.Reason),
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Resp{Status: "Error", Error: rejection.Reason})

	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "Job not found", http.StatusNotFound)

	default:
		log.Error("move failed", slog.String("order_num", orderNum), slog.String("error", err.Error()))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
