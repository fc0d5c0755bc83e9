package entity

import "time"

// Job records one asynchronous AI-processing attempt for an inspection.
type Job struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	InspectionID string     `json:"inspection_id" gorm:"size:32;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;index"`
	ErrorDetail  string     `json:"error_detail" gorm:"type:text"`
	Model        string     `json:"model" gorm:"size:60"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	CostUSD      float64    `json:"cost_usd" gorm:"type:decimal(10,6)"`
	StartedAt    *time.Time `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// Job statuses
const (
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusSucceeded = "SUCCEEDED"
	JobStatusFailed    = "FAILED"
	JobStatusSkipped   = "SKIPPED" // duplicate upload, nothing to process
)
