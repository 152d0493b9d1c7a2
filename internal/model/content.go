package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ContentKind enumerates the closed set of content item kinds.
type ContentKind string

const (
	ContentKindText         ContentKind = "text"
	ContentKindVideo        ContentKind = "video"
	ContentKindDocument     ContentKind = "document"
	ContentKindLesson       ContentKind = "lesson"
	ContentKindExternalLink ContentKind = "external_link"
	ContentKindQuiz         ContentKind = "quiz"
	ContentKindNotebook     ContentKind = "notebook"
)

// Content is a single learning unit within a module. Read-only from the
// player's perspective; completion is tracked separately by progress
// records.
type Content struct {
	ID       uuid.UUID   `json:"id"`
	ModuleID uuid.UUID   `json:"module_id"`
	Title    string      `json:"title"`
	Kind     ContentKind `json:"kind"`
	// Payload is kind-specific and opaque to everything except the quiz
	// engine, which parses it into a QuizDefinition.
	Payload         json.RawMessage `json:"payload,omitempty"`
	FileURL         string          `json:"file_url,omitempty"`
	Required        bool            `json:"required"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	Order           int             `json:"order"`
}
