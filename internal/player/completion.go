package player

import (
	"fmt"

	"github.com/lumelearn/player-backend/internal/model"
)

// CompletionSummary is the course-level completion verdict shown in the
// player header.
type CompletionSummary struct {
	Percent          int  `json:"percent"`
	ModulesComplete  bool `json:"modules_complete"`
	AttendedSessions int  `json:"attended_sessions,omitempty"`
	Complete         bool `json:"complete"`
}

// EvaluateCompletion combines module completion and session attendance per
// the course's completion criteria. Online courses complete on modules
// alone. A min_sessions criteria with a non-positive threshold is a
// configuration error, distinct from "no sessions required".
func EvaluateCompletion(course *model.Course, modulesComplete bool, attended int, mandatoryAttended bool) (bool, error) {
	if course.Format != model.CourseFormatHybrid {
		return modulesComplete, nil
	}

	sessionsOK := mandatoryAttended && len(course.Sessions) > 0

	switch course.Criteria {
	case model.CriteriaModulesOnly, "":
		return modulesComplete, nil
	case model.CriteriaSessionsOnly:
		return sessionsOK, nil
	case model.CriteriaBoth:
		return modulesComplete && sessionsOK, nil
	case model.CriteriaEither:
		return modulesComplete || sessionsOK, nil
	case model.CriteriaMinSessions:
		if course.MinSessions <= 0 {
			return false, fmt.Errorf("course %s: min_sessions criteria with threshold %d", course.ID, course.MinSessions)
		}
		return attended >= course.MinSessions, nil
	default:
		return false, fmt.Errorf("course %s: unknown completion criteria %q", course.ID, course.Criteria)
	}
}

// Completion evaluates the current completion summary from the completed
// set and the per-learner attendance flags on the session list.
func (p *Player) Completion() CompletionSummary {
	p.mu.Lock()
	modulesComplete := p.course.ContentCount() > 0 && p.allModulesCompleteLocked()
	percent := roundPercent(len(p.completed), p.course.ContentCount())
	p.mu.Unlock()

	attended := 0
	mandatoryAttended := true
	for _, s := range p.course.Sessions {
		if s.Attended {
			attended++
		} else if s.Mandatory {
			mandatoryAttended = false
		}
	}

	complete, err := EvaluateCompletion(p.course, modulesComplete, attended, mandatoryAttended)
	if err != nil {
		p.log.Warn().Err(err).Msg("completion criteria misconfigured")
	}

	return CompletionSummary{
		Percent:          percent,
		ModulesComplete:  modulesComplete,
		AttendedSessions: attended,
		Complete:         complete,
	}
}
