package player

import (
	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/model"
)

// OutlineContent is one row of the player outline.
type OutlineContent struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Kind            model.ContentKind `json:"kind"`
	Required        bool              `json:"required"`
	DurationMinutes int               `json:"duration_minutes,omitempty"`
	Completed       bool              `json:"completed"`
}

// OutlineAssignment is an assignment row with its derived latest status.
type OutlineAssignment struct {
	ID             uuid.UUID            `json:"id"`
	Title          string               `json:"title"`
	SubmissionType model.SubmissionType `json:"submission_type"`
	// LatestStatus is empty when the learner has not started the
	// assignment.
	LatestStatus model.SubmissionStatus `json:"latest_status,omitempty"`
	Editable     bool                   `json:"editable"`
}

// OutlineModule is one module of the outline with its derived expansion
// flag.
type OutlineModule struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Required    bool                `json:"required"`
	CPDCredits  float64             `json:"cpd_credits,omitempty"`
	Expanded    bool                `json:"expanded"`
	Contents    []OutlineContent    `json:"contents"`
	Assignments []OutlineAssignment `json:"assignments,omitempty"`
}

// Snapshot is the full player state sent to the UI.
type Snapshot struct {
	CourseID       uuid.UUID            `json:"course_id"`
	Title          string               `json:"title"`
	Format         model.CourseFormat   `json:"format"`
	Current        CurrentItem          `json:"current"`
	CourseComplete bool                 `json:"course_complete"`
	Completion     CompletionSummary    `json:"completion"`
	Modules        []OutlineModule      `json:"modules"`
	Announcements  []model.Announcement `json:"announcements,omitempty"`
	Draft          *DraftBuffer         `json:"draft,omitempty"`
}

// Snapshot renders the current player state.
func (p *Player) Snapshot() Snapshot {
	completion := p.Completion()

	p.mu.Lock()
	defer p.mu.Unlock()

	modules := make([]OutlineModule, 0, len(p.course.Modules))
	for i := range p.course.Modules {
		m := &p.course.Modules[i]
		om := OutlineModule{
			ID:         m.ID,
			Title:      m.Title,
			Required:   m.Required,
			CPDCredits: m.CPDCredits,
			Expanded:   m.ID == p.currentModuleID,
			Contents:   make([]OutlineContent, 0, len(m.Contents)),
		}
		for j := range m.Contents {
			c := &m.Contents[j]
			om.Contents = append(om.Contents, OutlineContent{
				ID:              c.ID,
				Title:           c.Title,
				Kind:            c.Kind,
				Required:        c.Required,
				DurationMinutes: c.DurationMinutes,
				Completed:       p.isCompletedLocked(c.ID),
			})
		}
		for j := range m.Assignments {
			a := &m.Assignments[j]
			latest := model.LatestSubmission(p.submissions[a.ID])
			oa := OutlineAssignment{
				ID:             a.ID,
				Title:          a.Title,
				SubmissionType: a.SubmissionType,
				Editable:       draftEditable(latest),
			}
			if latest != nil {
				oa.LatestStatus = latest.Status
			}
			om.Assignments = append(om.Assignments, oa)
		}
		modules = append(modules, om)
	}

	return Snapshot{
		CourseID:       p.course.ID,
		Title:          p.course.Title,
		Format:         p.course.Format,
		Current:        p.current,
		CourseComplete: p.courseComplete,
		Completion:     completion,
		Modules:        modules,
		Announcements:  p.course.Announcements,
		Draft:          p.draftCopyLocked(),
	}
}
