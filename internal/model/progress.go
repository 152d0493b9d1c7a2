package model

import (
	"github.com/google/uuid"
)

// ProgressStatus enumerates per-content completion states.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// ProgressRecord is a learner's persisted completion state for one content
// item.
type ProgressRecord struct {
	ContentID uuid.UUID      `json:"content_id"`
	Status    ProgressStatus `json:"status"`
	Percent   float64        `json:"percent"`
}

// IsComplete is the single completeness predicate: a content item counts as
// complete when its status says so OR its percent reached 100. The source
// data carries both redundantly and either alone may be set, so every
// completeness check in the codebase must go through this function.
func (r ProgressRecord) IsComplete() bool {
	return r.Status == ProgressCompleted || r.Percent >= 100
}

// ModuleProgress is the per-module slice of the progress payload returned
// by the LMS.
type ModuleProgress struct {
	ModuleID uuid.UUID        `json:"module_id"`
	Records  []ProgressRecord `json:"records"`
}

// ProgressUpdate is the mutation sent upstream when a content item is
// marked complete.
type ProgressUpdate struct {
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
}
