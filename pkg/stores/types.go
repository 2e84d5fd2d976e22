package stores

import "time"

// RunStatus represents the status of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents a single pipeline run
type Run struct {
	ID          string     `json:"id"`
	InputPath   string     `json:"input_path"`
	Problem     string     `json:"problem"`
	Algorithm   string     `json:"algorithm"`
	Driver      string     `json:"driver"`
	Backend     string     `json:"backend"`
	Status      RunStatus  `json:"status"`
	Energy      *float64   `json:"energy,omitempty"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
