package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lumelearn/player-backend/internal/config"
	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
	"github.com/lumelearn/player-backend/internal/player"
)

// Common player service errors.
var (
	ErrPlayerNotFound    = errors.New("player session not found")
	ErrCourseRefRequired = errors.New("course_id or slug required")
)

// PlayerSession pairs one engine instance with its owning learner. A
// session belongs to exactly one learner; lookups by another learner
// behave as not-found.
type PlayerSession struct {
	ID        uuid.UUID
	LearnerID string
	Player    *player.Player
	CreatedAt time.Time
}

// PlayerService owns the in-memory registry of live player sessions and
// the Redis cache of immutable course structures.
type PlayerService struct {
	client   lms.Client
	rdb      *redis.Client // nil disables the structure cache
	cacheTTL time.Duration
	idleTTL  time.Duration
	log      zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*PlayerSession
}

// NewPlayerService creates a new PlayerService. rdb may be nil, in which
// case every Open loads the course tree from the LMS.
func NewPlayerService(client lms.Client, rdb *redis.Client, cacheTTL, idleTTL time.Duration, log zerolog.Logger) *PlayerService {
	return &PlayerService{
		client:   client,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		idleTTL:  idleTTL,
		log:      log.With().Str("component", "player_service").Logger(),
		sessions: make(map[uuid.UUID]*PlayerSession),
	}
}

// Open creates a player session for the learner: loads the structure
// (cache-aside), overlays progress and submissions, and computes the
// initial selection. Exactly one of courseID/slug must be provided.
func (s *PlayerService) Open(ctx context.Context, learnerID string, courseID *uuid.UUID, slug string) (*PlayerSession, error) {
	var (
		course *model.Course
		err    error
	)
	switch {
	case courseID != nil:
		course, err = s.loadStructure(ctx, *courseID)
	case slug != "":
		course, err = s.loadStructureBySlug(ctx, slug)
	default:
		return nil, ErrCourseRefRequired
	}
	if err != nil {
		return nil, err
	}

	p := player.New(s.client, course, s.log)
	p.LoadProgress(ctx)
	p.LoadSubmissions(ctx)
	p.SelectInitial()

	session := &PlayerSession{
		ID:        uuid.New(),
		LearnerID: learnerID,
		Player:    p,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("course_id", course.ID.String()).
		Msg("player session opened")
	return session, nil
}

// Get returns the learner's session. Another learner's session ID behaves
// as not-found rather than forbidden, so session IDs cannot be probed.
func (s *PlayerService) Get(sessionID uuid.UUID, learnerID string) (*PlayerSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || session.LearnerID != learnerID {
		return nil, ErrPlayerNotFound
	}
	session.Player.Touch()
	return session, nil
}

// Close discards a player session. In-memory quiz answers and draft state
// are gone after this; only explicitly saved drafts survive.
func (s *PlayerService) Close(sessionID uuid.UUID, learnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.LearnerID != learnerID {
		return ErrPlayerNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// RunEviction drops idle sessions until ctx is cancelled. Run as a
// background goroutine from main.
func (s *PlayerService) RunEviction(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *PlayerService) evictIdle() {
	cutoff := time.Now().Add(-s.idleTTL)
	s.mu.Lock()
	for id, session := range s.sessions {
		if session.Player.LastTouched().Before(cutoff) {
			delete(s.sessions, id)
			s.log.Info().Str("session_id", id.String()).Msg("idle player session evicted")
		}
	}
	s.mu.Unlock()
}

// ─── Structure cache ────────────────────────────────────────────────────

// loadStructure loads the course tree cache-aside. Only the immutable part
// (modules, contents, assignments, announcements) is cached; live sessions
// carry per-learner attendance and are always fetched fresh.
func (s *PlayerService) loadStructure(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	if cached := s.cacheGet(ctx, courseID); cached != nil {
		s.refreshSessions(ctx, cached)
		return cached, nil
	}

	course, err := player.LoadCourse(ctx, s.client, courseID, s.log)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, course)
	return course, nil
}

func (s *PlayerService) loadStructureBySlug(ctx context.Context, slug string) (*model.Course, error) {
	if s.rdb != nil {
		if idStr, err := s.rdb.Get(ctx, config.CacheKey.CourseSlugKey(slug)).Result(); err == nil {
			if id, err := uuid.Parse(idStr); err == nil {
				return s.loadStructure(ctx, id)
			}
			// Self-heal a corrupt mapping.
			_ = s.rdb.Del(ctx, config.CacheKey.CourseSlugKey(slug)).Err()
		}
	}

	course, err := player.LoadCourseBySlug(ctx, s.client, slug, s.log)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		_ = s.rdb.Set(ctx, config.CacheKey.CourseSlugKey(slug), course.ID.String(), s.cacheTTL).Err()
	}
	s.cacheSet(ctx, course)
	return course, nil
}

func (s *PlayerService) cacheGet(ctx context.Context, courseID uuid.UUID) *model.Course {
	if s.rdb == nil {
		return nil
	}
	key := config.CacheKey.CourseStructureKey(courseID.String())
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("structure cache read failed")
		}
		return nil
	}
	var course model.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		// Self-heal: drop the corrupt entry and fall back to the LMS.
		s.log.Warn().Err(err).Str("course_id", courseID.String()).Msg("corrupt structure cache entry dropped")
		_ = s.rdb.Del(ctx, key).Err()
		return nil
	}
	return &course
}

func (s *PlayerService) cacheSet(ctx context.Context, course *model.Course) {
	if s.rdb == nil {
		return
	}
	// Strip the per-learner session list before caching.
	clone := *course
	clone.Sessions = nil
	raw, err := json.Marshal(&clone)
	if err != nil {
		s.log.Warn().Err(err).Msg("structure cache marshal failed")
		return
	}
	key := config.CacheKey.CourseStructureKey(course.ID.String())
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("structure cache write failed")
	}
}

// refreshSessions re-fetches the live session list for a cache-served
// hybrid course. Failure degrades to no sessions, consistent with the
// loader's isolation rule.
func (s *PlayerService) refreshSessions(ctx context.Context, course *model.Course) {
	if course.Format != model.CourseFormatHybrid {
		return
	}
	sessions, err := s.client.GetCourseSessions(ctx, course.ID)
	if err != nil {
		s.log.Warn().Err(err).Msg("session refresh failed, degrading to empty")
		return
	}
	published := make([]model.LiveSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Published {
			published = append(published, sess)
		}
	}
	course.Sessions = published
}
