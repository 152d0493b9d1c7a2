// Package lms talks to the upstream learning-platform API. Every piece of
// persistent state the player touches (structure, progress, submissions,
// quiz attempts) lives behind this client; the player service itself owns
// no database.
package lms

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumelearn/player-backend/internal/model"
)

// Sentinel errors distinguishing the access-denied presentation from
// generic retryable failures.
var (
	// ErrForbidden covers 401/403 — the learner is not enrolled or the
	// token is not accepted upstream.
	ErrForbidden = errors.New("lms: forbidden")
	// ErrNotFound covers 404.
	ErrNotFound = errors.New("lms: not found")
)

// FileUpload is a file part of a submission payload.
type FileUpload struct {
	Name string
	Data []byte
}

// SubmissionPayload is the outbound body for creating or updating a
// submission. When File is set the payload must travel as multipart; the
// legacy FileURL field may still be sent alongside for backward
// compatibility.
type SubmissionPayload struct {
	Text    string      `json:"text,omitempty"`
	URL     string      `json:"url,omitempty"`
	FileURL string      `json:"file_url,omitempty"`
	File    *FileUpload `json:"-"`
}

// Multipart reports whether the payload must be transmitted as a
// multipart body. Any attached file forces the multipart path regardless
// of the assignment's declared modality.
func (p SubmissionPayload) Multipart() bool {
	return p.File != nil
}

// QuizSubmission is the outbound body for a quiz attempt.
type QuizSubmission struct {
	ContentID      uuid.UUID         `json:"content_id"`
	Answers        model.QuizAnswers `json:"answers"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
}

// Client is the set of collaborator operations the player core consumes.
type Client interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error)
	GetCourseModules(ctx context.Context, courseID uuid.UUID) ([]model.Module, error)
	GetModuleContents(ctx context.Context, courseID, moduleID uuid.UUID) ([]model.Content, error)

	GetCourseProgress(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error)
	UpdateContentProgress(ctx context.Context, contentID uuid.UUID, update model.ProgressUpdate) error

	GetMySubmissions(ctx context.Context) ([]model.Submission, error)
	CreateSubmission(ctx context.Context, assignmentID uuid.UUID, payload SubmissionPayload) (*model.Submission, error)
	UpdateSubmission(ctx context.Context, submissionID uuid.UUID, payload SubmissionPayload) (*model.Submission, error)
	SubmitSubmission(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error)

	SubmitQuiz(ctx context.Context, sub QuizSubmission) (*model.QuizResult, error)
	GetQuizAttempts(ctx context.Context, contentID uuid.UUID) (*model.QuizHistory, error)

	GetCourseAnnouncements(ctx context.Context, courseID uuid.UUID) ([]model.Announcement, error)
	GetCourseSessions(ctx context.Context, courseID uuid.UUID) ([]model.LiveSession, error)
}
