package player

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
)

// QuizPhase is the quiz attempt state machine's discriminant.
type QuizPhase string

const (
	QuizAnswering  QuizPhase = "answering"
	QuizSubmitting QuizPhase = "submitting"
	QuizPassed     QuizPhase = "passed"
	QuizExhausted  QuizPhase = "exhausted"
)

// QuizState is the per-quiz engine state for one player session.
type QuizState struct {
	ContentID uuid.UUID          `json:"content_id"`
	Phase     QuizPhase          `json:"phase"`
	Answers   model.QuizAnswers  `json:"answers"`
	History   *model.QuizHistory `json:"history,omitempty"`
	// Remaining mirrors the server-computed remaining attempts; nil
	// means unlimited.
	Remaining  *int              `json:"remaining_attempts,omitempty"`
	LastResult *model.QuizResult `json:"last_result,omitempty"`
	openedAt   time.Time
	def        *model.QuizDefinition
}

// Definition exposes the parsed quiz payload (answer keys stripped
// upstream for graded quizzes).
func (q *QuizState) Definition() *model.QuizDefinition {
	return q.def
}

// detached returns a copy safe to read or marshal outside the player
// lock. The answer map is deep-copied; the definition, history, and
// result values are never mutated after creation and can be shared.
func (q *QuizState) detached() *QuizState {
	cp := *q
	cp.Answers = q.Answers.Clone()
	return &cp
}

// OpenQuiz parses the quiz payload, loads attempt history and derives the
// initial phase. If the most recent attempt already passed, the passed
// state is reconstructed without a new submission, so "already passed"
// survives reloads. History fetch failure is isolated: the quiz opens with
// an empty history.
func (p *Player) OpenQuiz(ctx context.Context, contentID uuid.UUID) (*QuizState, error) {
	content, _ := p.course.FindContent(contentID)
	if content == nil {
		return nil, ErrUnknownItem
	}
	if content.Kind != model.ContentKindQuiz {
		return nil, ErrNotQuiz
	}

	def, err := model.ParseQuizDefinition(content.Payload)
	if err != nil {
		return nil, fmt.Errorf("open quiz: %w", err)
	}

	state := &QuizState{
		ContentID: contentID,
		Phase:     QuizAnswering,
		Answers:   make(model.QuizAnswers),
		openedAt:  p.now(),
		def:       def,
	}

	history, err := p.client.GetQuizAttempts(ctx, contentID)
	if err != nil {
		p.log.Warn().Err(err).
			Str("content_id", contentID.String()).
			Msg("attempt history fetch failed, opening with empty history")
	} else {
		state.History = history
		state.Remaining = history.RemainingAttempts
		if len(history.Attempts) > 0 && history.Attempts[0].Passed {
			state.Phase = QuizPassed
		} else if history.RemainingAttempts != nil && *history.RemainingAttempts == 0 {
			state.Phase = QuizExhausted
		}
	}

	p.mu.Lock()
	p.quizzes[contentID] = state
	p.lastTouched = p.now()
	snap := state.detached()
	p.mu.Unlock()
	return snap, nil
}

// QuizStateFor returns a detached copy of the opened quiz state, or nil.
func (p *Player) QuizStateFor(contentID uuid.UUID) *QuizState {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.quizzes[contentID]
	if state == nil {
		return nil
	}
	return state.detached()
}

// SetQuizAnswers records the learner's in-memory answer buffer. Answers
// are discarded when the session goes away; there is no autosave.
func (p *Player) SetQuizAnswers(contentID uuid.UUID, answers model.QuizAnswers) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.quizzes[contentID]
	if state == nil {
		return ErrQuizNotOpen
	}
	if state.Phase == QuizPassed {
		return ErrQuizLocked
	}
	if state.Phase == QuizExhausted {
		return ErrNoAttemptsLeft
	}
	if state.Phase == QuizSubmitting {
		return ErrBusy
	}
	for q, opts := range answers {
		state.Answers[q] = opts
	}
	p.lastTouched = p.now()
	return nil
}

// SubmitQuiz validates the answer buffer, sends the attempt to the grading
// collaborator, and applies the verdict. Submission is blocked before any
// network call when a question is unanswered, when the quiz already
// passed, or when no attempts remain.
//
// On a pass the content is marked complete; the quiz then stays locked for
// the rest of the session (a reload re-derives the lock from attempt
// history).
func (p *Player) SubmitQuiz(ctx context.Context, contentID uuid.UUID) (*model.QuizResult, error) {
	p.mu.Lock()
	state := p.quizzes[contentID]
	if state == nil {
		p.mu.Unlock()
		return nil, ErrQuizNotOpen
	}
	switch state.Phase {
	case QuizPassed:
		p.mu.Unlock()
		return nil, ErrQuizLocked
	case QuizExhausted:
		p.mu.Unlock()
		return nil, ErrNoAttemptsLeft
	case QuizSubmitting:
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if missing := unanswered(state.def, state.Answers); len(missing) > 0 {
		p.mu.Unlock()
		return nil, &UnansweredError{QuestionIDs: missing}
	}
	// Clone under the lock so the request body never aliases the live
	// answer buffer.
	submission := lms.QuizSubmission{
		ContentID:      contentID,
		Answers:        state.Answers.Clone(),
		ElapsedSeconds: int(p.now().Sub(state.openedAt).Seconds()),
	}
	state.Phase = QuizSubmitting
	p.mu.Unlock()

	var result *model.QuizResult
	err := p.mutate(ctx, ActionQuizSubmit,
		func(ctx context.Context) error {
			var err error
			result, err = p.client.SubmitQuiz(ctx, submission)
			return err
		},
		func() {
			state.LastResult = result
			if result.Passed {
				state.Phase = QuizPassed
				return
			}
			if state.def.MaxAttempts != nil {
				remaining := *state.def.MaxAttempts - result.AttemptNumber
				if remaining < 0 {
					remaining = 0
				}
				state.Remaining = &remaining
				if remaining == 0 {
					state.Phase = QuizExhausted
					return
				}
			}
			state.Phase = QuizAnswering
		},
	)
	if err != nil {
		p.mu.Lock()
		if state.Phase == QuizSubmitting {
			state.Phase = QuizAnswering
		}
		p.mu.Unlock()
		return nil, err
	}

	if result.Passed {
		// Completion is a follow-up mutation; if it fails the pass still
		// stands and a reload re-derives completion from attempt history.
		if err := p.MarkComplete(ctx, contentID); err != nil {
			p.log.Warn().Err(err).
				Str("content_id", contentID.String()).
				Msg("mark complete after quiz pass failed")
		}
	}
	return result, nil
}

// unanswered returns the IDs of questions with no selected options. An
// empty selection set on a multi-select question counts as unanswered.
func unanswered(def *model.QuizDefinition, answers model.QuizAnswers) []string {
	var missing []string
	for _, q := range def.Questions {
		if len(answers[q.ID]) == 0 {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// ScorePreview grades answers locally against the definition's answer key
// (practice quizzes only). A question is correct iff the selected option
// set is exactly equal to the correct set — same cardinality, same
// membership, order irrelevant. No partial credit within a question.
func ScorePreview(def *model.QuizDefinition, answers model.QuizAnswers) (float64, bool) {
	var total, correct float64
	for _, q := range def.Questions {
		total += q.Weight
		if setEqual(answers[q.ID], q.CorrectOptionIDs) {
			correct += q.Weight
		}
	}
	if total == 0 {
		return 0, false
	}
	score := math.Round(100 * correct / total)
	return score, score >= def.PassingScore
}

func setEqual(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	if len(set) != len(b) {
		return false
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
