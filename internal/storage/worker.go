package storage

import (
	"time"

	"tubeworks/internal/pipeline"
)

// Worker is one employee on the factory payroll.
type Worker struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Active     bool    `json:"active"`
}

// TimesheetEntry is one worker's minutes against one stage for one day.
type TimesheetEntry struct {
	ID       int64          `json:"id"`
	WorkerID int64          `json:"worker_id"`
	WorkDate time.Time      `json:"work_date"`
	Stage    pipeline.Stage `json:"stage"`
	Minutes  float64        `json:"minutes"`
	Notes    string         `json:"notes,omitempty"`
}

// SaveTimesheet is the batch payload the timesheet screen submits.
type SaveTimesheet struct {
	Entries []TimesheetEntry `json:"entries"`
}

// PayrollRow is one worker's aggregated period for the payroll report:
// minutes split per stage plus the totals the pay run needs.
type PayrollRow struct {
	WorkerID       int64
	Name           string
	Role           string
	HourlyRate     float64
	MinutesByStage map[pipeline.Stage]float64
	TotalMinutes   float64
}

// TotalHours converts the aggregated minutes to decimal hours.
func (p *PayrollRow) TotalHours() float64 {
	return p.TotalMinutes / 60
}

// GrossPay is hours times the worker's hourly rate.
func (p *PayrollRow) GrossPay() float64 {
	return p.TotalHours() * p.HourlyRate
}
