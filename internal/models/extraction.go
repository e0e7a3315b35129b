package models

import (
	"time"
)

// ExtractionStatus tracks a task through its lifecycle.
type ExtractionStatus string

const (
	StatusPending   ExtractionStatus = "pending"
	StatusRunning   ExtractionStatus = "running"
	StatusCompleted ExtractionStatus = "completed"
	StatusFailed    ExtractionStatus = "failed"
	StatusCancelled ExtractionStatus = "cancelled"
)

// ExtractionTask is the caller-visible state of one extraction request.
type ExtractionTask struct {
	ID        string            `json:"id"`
	Status    ExtractionStatus  `json:"status"`
	Type      string            `json:"type"`
	Priority  int               `json:"priority"`
	Progress  float64           `json:"progress"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

// ExtractionSpec is what the caller asks for: the output encoding plus the
// opaque options forwarded to whichever extractor handles the file.
type ExtractionSpec struct {
	Encoding string            `json:"encoding"`
	Options  map[string]string `json:"options,omitempty"`
}
