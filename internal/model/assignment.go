package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionType enumerates assignment submission modalities.
type SubmissionType string

const (
	SubmissionTypeText  SubmissionType = "text"
	SubmissionTypeURL   SubmissionType = "url"
	SubmissionTypeFile  SubmissionType = "file"
	SubmissionTypeMixed SubmissionType = "mixed"
)

// Assignment is learner coursework attached to exactly one module.
type Assignment struct {
	ID             uuid.UUID      `json:"id"`
	ModuleID       uuid.UUID      `json:"module_id"`
	Title          string         `json:"title"`
	Instructions   string         `json:"instructions,omitempty"`
	SubmissionType SubmissionType `json:"submission_type"`
	MaxScore       float64        `json:"max_score"`
	PassingScore   float64        `json:"passing_score"`
	// MaxAttempts nil means unlimited.
	MaxAttempts       *int `json:"max_attempts,omitempty"`
	AllowResubmission bool `json:"allow_resubmission"`
}

// SubmissionStatus enumerates the submission lifecycle states.
type SubmissionStatus string

const (
	SubmissionDraft         SubmissionStatus = "draft"
	SubmissionSubmitted     SubmissionStatus = "submitted"
	SubmissionInReview      SubmissionStatus = "in_review"
	SubmissionNeedsRevision SubmissionStatus = "needs_revision"
	SubmissionGraded        SubmissionStatus = "graded"
	SubmissionApproved      SubmissionStatus = "approved"
)

// Submission is one attempt-numbered learner submission for an assignment.
type Submission struct {
	ID            uuid.UUID        `json:"id"`
	AssignmentID  uuid.UUID        `json:"assignment_id"`
	AttemptNumber int              `json:"attempt_number"`
	Status        SubmissionStatus `json:"status"`
	Text          string           `json:"text,omitempty"`
	URL           string           `json:"url,omitempty"`
	FileURL       string           `json:"file_url,omitempty"`
	Score         *float64         `json:"score,omitempty"`
	Feedback      string           `json:"feedback,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// LatestSubmission returns the submission with the highest attempt number,
// or nil if the slice is empty. "Latest" is a derived relation, never
// stored.
func LatestSubmission(subs []Submission) *Submission {
	var latest *Submission
	for i := range subs {
		if latest == nil || subs[i].AttemptNumber > latest.AttemptNumber {
			latest = &subs[i]
		}
	}
	return latest
}

// SaveDraftRequest is the JSON payload for saving an assignment draft.
// File uploads arrive as multipart instead and bypass this binding.
type SaveDraftRequest struct {
	Text    string `json:"text" binding:"omitempty,max=65535"`
	URL     string `json:"url" binding:"omitempty,url,max=2048"`
	FileURL string `json:"file_url" binding:"omitempty,url,max=2048"`
}
