package mysql

import (
	"context"
	"fmt"
	"time"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

// GetWorkers lists employees by name. activeOnly hides people who have left
// but stay on file for past timesheets.
func (s *Storage) GetWorkers(ctx context.Context, activeOnly bool) ([]storage.Worker, error) {
	const op = "storage.workers.GetWorkers.sql"

	stmt := `SELECT id, name, role, hourly_rate, is_active FROM tube_workers`
	if activeOnly {
		stmt += ` WHERE is_active = TRUE`
	}
	stmt += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: query workers: %w", op, err)
	}
	defer rows.Close()

	var workers []storage.Worker
	for rows.Next() {
		var w storage.Worker

		err := rows.Scan(&w.ID, &w.Name, &w.Role, &w.HourlyRate, &w.Active)
		if err != nil {
			return nil, fmt.Errorf("%s: scan worker row: %w", op, err)
		}

		workers = append(workers, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return workers, nil
}

// SaveWorker inserts an employee and returns the new id.
func (s *Storage) SaveWorker(ctx context.Context, w storage.Worker) (int64, error) {
	const op = "storage.workers.SaveWorker.sql"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tube_workers (name, role, hourly_rate, is_active)
		VALUES (?, ?, ?, ?)
	`, w.Name, w.Role, w.HourlyRate, w.Active)
	if err != nil {
		return 0, fmt.Errorf("%s: insert worker %s: %w", op, w.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return id, nil
}

// SaveTimesheet writes a batch of timesheet entries in one transaction. A
// worker resubmitting the same day and stage replaces the earlier figure.
func (s *Storage) SaveTimesheet(ctx context.Context, req storage.SaveTimesheet) error {
	const op = "storage.workers.SaveTimesheet.sql"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tube_timesheets (worker_id, work_date, stage, minutes, notes)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			minutes = VALUES(minutes),
			notes = VALUES(notes)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare entry insert: %w", op, err)
	}
	defer stmt.Close()

	for _, entry := range req.Entries {
		_, err := stmt.Exec(entry.WorkerID, entry.WorkDate, string(entry.Stage),
			entry.Minutes, nullable(entry.Notes))
		if err != nil {
			return fmt.Errorf("%s: insert entry worker=%d stage=%s: %w", op, entry.WorkerID, entry.Stage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// GetPayrollRows aggregates timesheet minutes per worker and stage over the
// date range, inclusive of both ends. Workers with no entries in the range
// are omitted.
func (s *Storage) GetPayrollRows(ctx context.Context, from, to time.Time) ([]*storage.PayrollRow, error) {
	const op = "storage.workers.GetPayrollRows.sql"

	stmt := `
		SELECT w.id, w.name, w.role, w.hourly_rate, t.stage, SUM(t.minutes)
		FROM tube_timesheets t
		JOIN tube_workers w ON w.id = t.worker_id
		WHERE t.work_date >= ? AND t.work_date <= ?
		GROUP BY w.id, w.name, w.role, w.hourly_rate, t.stage
		ORDER BY w.name ASC, w.id ASC
	`

	rows, err := s.db.QueryContext(ctx, stmt, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: query payroll: %w", op, err)
	}
	defer rows.Close()

	byWorker := map[int64]*storage.PayrollRow{}
	var order []int64

	for rows.Next() {
		var (
			id      int64
			name    string
			role    string
			rate    float64
			stage   string
			minutes float64
		)

		if err := rows.Scan(&id, &name, &role, &rate, &stage, &minutes); err != nil {
			return nil, fmt.Errorf("%s: scan payroll row: %w", op, err)
		}

		row, ok := byWorker[id]
		if !ok {
			row = &storage.PayrollRow{
				WorkerID:       id,
				Name:           name,
				Role:           role,
				HourlyRate:     rate,
				MinutesByStage: map[pipeline.Stage]float64{},
			}
			byWorker[id] = row
			order = append(order, id)
		}

		row.MinutesByStage[pipeline.Stage(stage)] += minutes
		row.TotalMinutes += minutes
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	result := make([]*storage.PayrollRow, 0, len(order))
	for _, id := range order {
		result = append(result, byWorker[id])
	}

	return result, nil
}
