// Package player implements the course-progression engine: the structure
// loader, progress tracker, navigation/advancement engine, quiz attempt
// engine, assignment submission state machine, and live-session status
// resolver. One Player instance is constructed per course-player session;
// nothing in this package is a process-wide singleton.
package player

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
)

// Action identifies a logical mutation for busy-flag tracking. At most one
// mutation per action may be in flight; a second caller gets ErrBusy
// instead of racing a duplicate request.
type Action string

const (
	ActionMarkComplete Action = "mark_complete"
	ActionQuizSubmit   Action = "quiz_submit"
	ActionSaveDraft    Action = "save_draft"
	ActionSubmit       Action = "submit"
)

// Engine-level errors surfaced to the HTTP layer.
var (
	ErrBusy             = errors.New("player: action already in flight")
	ErrUnknownItem      = errors.New("player: item not found in course")
	ErrNotQuiz          = errors.New("player: content is not a quiz")
	ErrQuizNotOpen      = errors.New("player: quiz has not been opened")
	ErrQuizLocked       = errors.New("player: quiz already passed")
	ErrNoAttemptsLeft   = errors.New("player: no quiz attempts remaining")
	ErrSubmissionLocked = errors.New("player: submission is not editable")
)

// UnansweredError is the pre-network validation failure for a quiz
// submission with missing answers.
type UnansweredError struct {
	QuestionIDs []string
}

func (e *UnansweredError) Error() string {
	return "player: quiz has unanswered questions"
}

// Player is the per-session aggregate of the progression engine. The
// structure tree is immutable after construction; progress, quiz and
// submission state mutate in place, always strictly after the LMS
// acknowledged the corresponding request.
type Player struct {
	mu     sync.Mutex
	client lms.Client
	log    zerolog.Logger

	course      *model.Course
	completed   map[uuid.UUID]struct{}
	hasProgress bool

	current         CurrentItem
	currentModuleID uuid.UUID
	courseComplete  bool

	submissions map[uuid.UUID][]model.Submission
	draft       *DraftBuffer
	quizzes     map[uuid.UUID]*QuizState

	busy        map[Action]bool
	lastTouched time.Time

	// now is injectable for deterministic time-dependent tests.
	now func() time.Time
}

// New builds a Player around an already-loaded course structure. Call
// LoadProgress and LoadSubmissions before SelectInitial so the resume
// point reflects the learner's history.
func New(client lms.Client, course *model.Course, log zerolog.Logger) *Player {
	p := &Player{
		client:      client,
		log:         log.With().Str("component", "player").Str("course_id", course.ID.String()).Logger(),
		course:      course,
		completed:   make(map[uuid.UUID]struct{}),
		current:     CurrentItem{Kind: ItemNone},
		submissions: make(map[uuid.UUID][]model.Submission),
		quizzes:     make(map[uuid.UUID]*QuizState),
		busy:        make(map[Action]bool),
		now:         time.Now,
	}
	p.lastTouched = p.now()
	return p
}

// Course returns the immutable structure tree.
func (p *Player) Course() *model.Course {
	return p.course
}

// Touch refreshes the idle timestamp; LastTouched feeds session eviction.
func (p *Player) Touch() {
	p.mu.Lock()
	p.lastTouched = p.now()
	p.mu.Unlock()
}

func (p *Player) LastTouched() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTouched
}

// mutate is the single mutation helper: it reserves the action's busy
// flag, performs the upstream request, and only on success applies the
// local reducer. Local state is never touched before acknowledgment, so a
// failed request can never leave a false completion or submission state
// behind.
func (p *Player) mutate(ctx context.Context, action Action, request func(context.Context) error, reduce func()) error {
	p.mu.Lock()
	if p.busy[action] {
		p.mu.Unlock()
		return ErrBusy
	}
	p.busy[action] = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy[action] = false
		p.mu.Unlock()
	}()

	if err := request(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	reduce()
	p.lastTouched = p.now()
	p.mu.Unlock()
	return nil
}

// Busy reports whether a mutation for the action is in flight.
func (p *Player) Busy(action Action) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy[action]
}

// roundPercent rounds a ratio to the nearest integer percent.
func roundPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
