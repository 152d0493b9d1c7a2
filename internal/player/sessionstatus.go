package player

import (
	"fmt"
	"sort"
	"time"

	"github.com/lumelearn/player-backend/internal/model"
)

// SessionStatus classifies a live session relative to a point in time.
type SessionStatus string

const (
	SessionUpcoming SessionStatus = "upcoming"
	SessionLive     SessionStatus = "live"
	SessionPast     SessionStatus = "past"
)

// ResolvedSession is a live session annotated with its display state.
type ResolvedSession struct {
	model.LiveSession
	Status   SessionStatus `json:"status"`
	Joinable bool          `json:"joinable"`
	// StartsIn is the human time-remaining label, set for upcoming
	// sessions only.
	StartsIn string `json:"starts_in,omitempty"`
}

// ResolveSessionStatus is a pure function of (now, start, end). Both
// boundaries are inclusive: a session is live at the exact start instant
// and still live at the exact end instant; the instant after end is past.
func ResolveSessionStatus(now time.Time, s model.LiveSession) SessionStatus {
	if now.Before(s.StartsAt) {
		return SessionUpcoming
	}
	if now.After(s.End()) {
		return SessionPast
	}
	return SessionLive
}

// SessionJoinable reports join eligibility: the session has a join URL and
// is not yet over. A past session is unjoinable regardless of URL
// presence.
func SessionJoinable(now time.Time, s model.LiveSession) bool {
	if s.JoinURL == "" {
		return false
	}
	status := ResolveSessionStatus(now, s)
	return status == SessionLive || status == SessionUpcoming
}

// TimeUntilLabel renders the time remaining before start split into days,
// hours and minutes — minute granularity specifically for the sub-hour
// case.
func TimeUntilLabel(now, start time.Time) string {
	remaining := start.Sub(now)
	if remaining <= 0 {
		return ""
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "1m"
	}
}

// ResolveSessions annotates and orders sessions for display: live first,
// then upcoming ascending by start time, then past descending by start
// time (most recent past first).
func ResolveSessions(now time.Time, sessions []model.LiveSession) []ResolvedSession {
	resolved := make([]ResolvedSession, 0, len(sessions))
	for _, s := range sessions {
		status := ResolveSessionStatus(now, s)
		rs := ResolvedSession{
			LiveSession: s,
			Status:      status,
			Joinable:    SessionJoinable(now, s),
		}
		if status == SessionUpcoming {
			rs.StartsIn = TimeUntilLabel(now, s.StartsAt)
		}
		resolved = append(resolved, rs)
	}

	rank := map[SessionStatus]int{SessionLive: 0, SessionUpcoming: 1, SessionPast: 2}
	sort.SliceStable(resolved, func(i, j int) bool {
		if rank[resolved[i].Status] != rank[resolved[j].Status] {
			return rank[resolved[i].Status] < rank[resolved[j].Status]
		}
		if resolved[i].Status == SessionPast {
			return resolved[i].StartsAt.After(resolved[j].StartsAt)
		}
		return resolved[i].StartsAt.Before(resolved[j].StartsAt)
	})
	return resolved
}

// Sessions resolves the course's live sessions against the player clock.
func (p *Player) Sessions() []ResolvedSession {
	return ResolveSessions(p.now(), p.course.Sessions)
}
