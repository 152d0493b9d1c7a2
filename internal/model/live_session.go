package model

import (
	"time"

	"github.com/google/uuid"
)

// LiveSession is a scheduled live meeting of a hybrid course. Sessions are
// a sibling list at course level, not owned by a module.
type LiveSession struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	// EndsAt overrides StartsAt+Duration when the host set an explicit
	// end time.
	EndsAt               *time.Time `json:"ends_at,omitempty"`
	JoinURL              string     `json:"join_url,omitempty"`
	Mandatory            bool       `json:"mandatory"`
	MinAttendancePercent float64    `json:"min_attendance_percent,omitempty"`
	Published            bool       `json:"published"`
	// Attended is the learner's attendance verdict as recorded by the
	// LMS (session lists are fetched per-learner).
	Attended bool `json:"attended"`
}

// End returns the effective end time: the explicit end if set, otherwise
// start plus duration.
func (s LiveSession) End() time.Time {
	if s.EndsAt != nil {
		return *s.EndsAt
	}
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
