package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QuizOption is one selectable answer for a quiz question.
type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is a single question within a quiz content item.
type QuizQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// Multi marks multi-select questions; single-select answers are
	// carried as a one-element set.
	Multi   bool         `json:"multi"`
	Weight  float64      `json:"weight,omitempty"`
	Options []QuizOption `json:"options"`
	// CorrectOptionIDs is present only when the LMS exposes the answer
	// key (practice quizzes). Graded quizzes are scored upstream.
	CorrectOptionIDs []string `json:"correct_option_ids,omitempty"`
}

// QuizDefinition is the parsed payload of a quiz-kind content item.
type QuizDefinition struct {
	Questions    []QuizQuestion `json:"questions"`
	PassingScore float64        `json:"passing_score"`
	// MaxAttempts nil means unlimited. Zero is rejected on parse: it
	// would mean "no attempts allowed", which is a configuration error,
	// not a real quiz.
	MaxAttempts *int `json:"max_attempts,omitempty"`
}

// ParseQuizDefinition decodes and sanity-checks a quiz content payload.
func ParseQuizDefinition(payload json.RawMessage) (*QuizDefinition, error) {
	if len(payload) == 0 {
		return nil, errors.New("quiz content has no payload")
	}
	var def QuizDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		return nil, fmt.Errorf("decode quiz payload: %w", err)
	}
	if len(def.Questions) == 0 {
		return nil, errors.New("quiz has no questions")
	}
	if def.MaxAttempts != nil && *def.MaxAttempts <= 0 {
		return nil, fmt.Errorf("quiz has invalid max_attempts %d", *def.MaxAttempts)
	}
	for i := range def.Questions {
		if def.Questions[i].Weight <= 0 {
			def.Questions[i].Weight = 1
		}
	}
	return &def, nil
}

// QuizAnswers maps question ID to the set of selected option IDs.
type QuizAnswers map[string][]string

// Clone deep-copies the answer map so a snapshot cannot observe later
// edits to the live buffer.
func (a QuizAnswers) Clone() QuizAnswers {
	out := make(QuizAnswers, len(a))
	for q, opts := range a {
		out[q] = append([]string(nil), opts...)
	}
	return out
}

// QuizAttempt is one scored try at a quiz.
type QuizAttempt struct {
	AttemptNumber    int         `json:"attempt_number"`
	Answers          QuizAnswers `json:"answers,omitempty"`
	ScorePercent     float64     `json:"score_percent"`
	Passed           bool        `json:"passed"`
	TimeSpentSeconds int         `json:"time_spent_seconds"`
	CreatedAt        time.Time   `json:"created_at"`
}

// QuizResult is the grading collaborator's response to a submission.
type QuizResult struct {
	ScorePercent  float64 `json:"score_percent"`
	Passed        bool    `json:"passed"`
	AttemptNumber int     `json:"attempt_number"`
}

// QuizHistory is the attempt-history read model. Attempts are ordered
// most-recent-first. RemainingAttempts nil means unlimited.
type QuizHistory struct {
	Attempts          []QuizAttempt `json:"attempts"`
	TotalAttempts     int           `json:"total_attempts"`
	RemainingAttempts *int          `json:"remaining_attempts,omitempty"`
}

// QuizAnswersRequest is the payload for recording or submitting answers.
type QuizAnswersRequest struct {
	Answers QuizAnswers `json:"answers" binding:"required"`
}
