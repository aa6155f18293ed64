package storage

import (
	"time"

	"tubeworks/internal/pipeline"
)

// Job is the production-tracking record for one customer order. The stage is
// only ever mutated through the board move/jump paths.
type Job struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"order_id"`
	OrderNum       string         `json:"order_num"`
	Customer       string         `json:"customer"`
	Stage          pipeline.Stage `json:"stage"`
	DueDate        time.Time      `json:"due_date"`
	MaterialsReady bool           `json:"materials_ready"`
	Overdue        bool           `json:"overdue"`
	Items          []OrderItem    `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// OverdueAt derives the overdue flag: past due and not yet cleared.
func (j *Job) OverdueAt(now time.Time) bool {
	return now.After(j.DueDate) && !pipeline.Terminal(j.Stage)
}

// BoardColumn is one stage's slice of the board snapshot, in sequence order.
type BoardColumn struct {
	Stage pipeline.Stage `json:"stage"`
	Label string         `json:"label"`
	Jobs  []*Job         `json:"jobs"`
}

// BoardSnapshot is the full board state: every live job grouped by stage.
// Consumers replace their previous snapshot wholesale, never merge.
type BoardSnapshot struct {
	Columns     []BoardColumn `json:"columns"`
	GeneratedAt time.Time     `json:"generated_at"`
}
