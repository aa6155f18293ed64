package storage

import "tubeworks/internal/pipeline"

// MachineLine is the static rate card for one production stage: which
// machines can run it, the standard setup allowance and the line throughput.
// Reference data only, served from the constants table and never persisted.
type MachineLine struct {
	Stage         pipeline.Stage `json:"stage"`
	Name          string         `json:"name"`
	Machines      []string       `json:"machines"`
	SetupMinutes  float64        `json:"setup_minutes"`
	RatePerMinute float64        `json:"rate_per_minute"`
}
