// Package board owns the production board rules: grouping jobs into stage
// columns and validating stage moves before anything is written.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

// RejectionError is a move the rules refused. Reason is shown to the person
// who dragged the card, word for word, so keep it plain.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func reject(reason string) *RejectionError {
	return &RejectionError{Reason: reason}
}

type JobStorage interface {
	GetJobs(ctx context.Context, stages []pipeline.Stage) ([]*storage.Job, error)
	GetJob(ctx context.Context, orderNum string) (*storage.Job, error)
	UpdateJobStage(ctx context.Context, orderNum string, stage pipeline.Stage) error
	SetMaterialsReady(ctx context.Context, orderNum string, ready bool) error
}

type Service struct {
	storage JobStorage
}

func New(storage JobStorage) *Service {
	return &Service{storage: storage}
}

// Snapshot builds the full board: one column per stage in pipeline order,
// empty columns included, jobs carrying their derived overdue flag. Each
// call is a complete rebuild; the poller swaps it in wholesale.
func (s *Service) Snapshot(ctx context.Context) (*storage.BoardSnapshot, error) {
	const op = "service.board.Snapshot"

	jobs, err := s.storage.GetJobs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	byStage := map[pipeline.Stage][]*storage.Job{}
	for _, job := range jobs {
		job.Overdue = job.OverdueAt(now)
		byStage[job.Stage] = append(byStage[job.Stage], job)
	}

	columns := make([]storage.BoardColumn, 0, len(pipeline.Sequence()))
	for _, stage := range pipeline.Sequence() {
		columns = append(columns, storage.BoardColumn{
			Stage: stage,
			Label: stage.Label(),
			Jobs:  byStage[stage],
		})
	}

	return &storage.BoardSnapshot{
		Columns:     columns,
		GeneratedAt: now,
	}, nil
}

// Job returns one job with its derived overdue flag.
func (s *Service) Job(ctx context.Context, orderNum string) (*storage.Job, error) {
	const op = "service.board.Job"

	job, err := s.storage.GetJob(ctx, orderNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	job.Overdue = job.OverdueAt(time.Now())

	return job, nil
}

// Move shifts a job exactly one stage in the given direction. The rules run
// against the job's current stored stage, never against what the caller's
// screen showed; concurrent moves resolve last-write-wins.
func (s *Service) Move(ctx context.Context, orderNum string, direction pipeline.Direction) (*storage.Job, error) {
	const op = "service.board.Move"

	job, err := s.storage.GetJob(ctx, orderNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	target, err := pipeline.Target(job.Stage, direction)
	if err != nil {
		if errors.Is(err, pipeline.ErrFirstStage) || errors.Is(err, pipeline.ErrLastStage) {
			return nil, reject(err.Error())
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Material has to be on the floor before a job leaves the queue.
	if direction == pipeline.Forward && job.Stage == pipeline.StagePendingMaterial && !job.MaterialsReady {
		return nil, reject("materials are not ready for this job")
	}

	if err := s.storage.UpdateJobStage(ctx, orderNum, target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.Job(ctx, orderNum)
}

// Jump places a job on any stage directly, skipping the one-step rule and
// the materials gate. Admin only; the stage still has to exist.
func (s *Service) Jump(ctx context.Context, orderNum string, target pipeline.Stage) (*storage.Job, error) {
	const op = "service.board.Jump"

	if !pipeline.Valid(target) {
		return nil, reject(fmt.Sprintf("unknown stage %q", target))
	}

	if _, err := s.storage.GetJob(ctx, orderNum); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateJobStage(ctx, orderNum, target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.Job(ctx, orderNum)
}

// SetMaterials flips the materials-ready flag.
func (s *Service) SetMaterials(ctx context.Context, orderNum string, ready bool) (*storage.Job, error) {
	const op = "service.board.SetMaterials"

	if _, err := s.storage.GetJob(ctx, orderNum); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetMaterialsReady(ctx, orderNum, ready); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.Job(ctx, orderNum)
}
