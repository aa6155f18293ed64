package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

// GetJobs returns every tracked job joined to its order and client. An empty
// stages slice means no stage filter. Overdue is not stored; callers derive
// it from the due date.
func (s *Storage) GetJobs(ctx context.Context, stages []pipeline.Stage) ([]*storage.Job, error) {
	const op = "storage.board.GetJobs.sql"

	stmt := `
		SELECT j.id, j.order_id, o.order_num, c.name, j.stage, o.due_date,
		       j.materials_ready, j.created_at, j.updated_at
		FROM tube_jobs j
		JOIN tube_orders o ON o.id = j.order_id
		JOIN tube_clients c ON c.id = o.client_id
	`
	var args []interface{}

	if len(stages) > 0 {
		stmt += ` WHERE j.stage IN (` + placeholders(len(stages)) + `)`
		for _, st := range stages {
			args = append(args, string(st))
		}
	}

	stmt += ` ORDER BY o.due_date ASC, o.order_num ASC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query jobs: %w", op, err)
	}
	defer rows.Close()

	var jobs []*storage.Job
	for rows.Next() {
		var job storage.Job

		err := rows.Scan(&job.ID, &job.OrderID, &job.OrderNum, &job.Customer, &job.Stage,
			&job.DueDate, &job.MaterialsReady, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan job row: %w", op, err)
		}

		jobs = append(jobs, &job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return jobs, nil
}

// GetJob returns one job by order number, line items included.
func (s *Storage) GetJob(ctx context.Context, orderNum string) (*storage.Job, error) {
	const op = "storage.board.GetJob.sql"

	stmt := `
		SELECT j.id, j.order_id, o.order_num, c.name, j.stage, o.due_date,
		       j.materials_ready, j.created_at, j.updated_at
		FROM tube_jobs j
		JOIN tube_orders o ON o.id = j.order_id
		JOIN tube_clients c ON c.id = o.client_id
		WHERE o.order_num = ?
	`

	var job storage.Job
	err := s.db.QueryRowContext(ctx, stmt, orderNum).Scan(
		&job.ID, &job.OrderID, &job.OrderNum, &job.Customer, &job.Stage,
		&job.DueDate, &job.MaterialsReady, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: job %s: %w", op, orderNum, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: query job: %w", op, err)
	}

	items, err := s.getOrderItems(ctx, job.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	job.Items = items

	return &job, nil
}

// UpdateJobStage writes the new stage unconditionally. Concurrent moves
// resolve last-write-wins; validation happens in the board service before
// the write.
func (s *Storage) UpdateJobStage(ctx context.Context, orderNum string, stage pipeline.Stage) error {
	const op = "storage.board.UpdateJobStage.sql"

	stmt := `
		UPDATE tube_jobs j
		JOIN tube_orders o ON o.id = j.order_id
		SET j.stage = ?, j.updated_at = CURRENT_TIMESTAMP
		WHERE o.order_num = ?
	`

	if _, err := s.db.ExecContext(ctx, stmt, string(stage), orderNum); err != nil {
		return fmt.Errorf("%s: update stage for %s: %w", op, orderNum, err)
	}

	return nil
}

// SetMaterialsReady flips the materials flag on a job.
func (s *Storage) SetMaterialsReady(ctx context.Context, orderNum string, ready bool) error {
	const op = "storage.board.SetMaterialsReady.sql"

	stmt := `
		UPDATE tube_jobs j
		JOIN tube_orders o ON o.id = j.order_id
		SET j.materials_ready = ?, j.updated_at = CURRENT_TIMESTAMP
		WHERE o.order_num = ?
	`

	if _, err := s.db.ExecContext(ctx, stmt, ready, orderNum); err != nil {
		return fmt.Errorf("%s: update materials flag for %s: %w", op, orderNum, err)
	}

	return nil
}
