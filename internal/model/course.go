package model

import (
	"github.com/google/uuid"
)

// CourseFormat enumerates course delivery formats.
type CourseFormat string

const (
	CourseFormatOnline CourseFormat = "online"
	CourseFormatHybrid CourseFormat = "hybrid"
)

// CompletionCriteria enumerates how a hybrid course combines module
// completion and live-session attendance into overall completion.
type CompletionCriteria string

const (
	CriteriaModulesOnly  CompletionCriteria = "modules_only"
	CriteriaSessionsOnly CompletionCriteria = "sessions_only"
	CriteriaBoth         CompletionCriteria = "both"
	CriteriaEither       CompletionCriteria = "either"
	CriteriaMinSessions  CompletionCriteria = "min_sessions"
)

// Course is the root of the player's structure tree. It is loaded once per
// player session and treated as immutable thereafter.
type Course struct {
	ID       uuid.UUID          `json:"id"`
	Slug     string             `json:"slug"`
	Title    string             `json:"title"`
	Format   CourseFormat       `json:"format"`
	Criteria CompletionCriteria `json:"completion_criteria,omitempty"`
	// MinSessions is the attendance threshold when Criteria is
	// min_sessions. Zero or negative with that criteria is a
	// configuration error.
	MinSessions   int            `json:"min_sessions,omitempty"`
	Modules       []Module       `json:"modules"`
	Sessions      []LiveSession  `json:"sessions,omitempty"`
	Announcements []Announcement `json:"announcements,omitempty"`
}

// Module groups an ordered sequence of content items and assignments.
type Module struct {
	ID          uuid.UUID    `json:"id"`
	CourseID    uuid.UUID    `json:"course_id"`
	Title       string       `json:"title"`
	Order       int          `json:"order"`
	Required    bool         `json:"required"`
	CPDCredits  float64      `json:"cpd_credits,omitempty"`
	Contents    []Content    `json:"contents"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Announcement is a course-level notice shown in the player sidebar.
type Announcement struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
}

// ContentCount returns the number of content items across all modules.
func (c *Course) ContentCount() int {
	n := 0
	for i := range c.Modules {
		n += len(c.Modules[i].Contents)
	}
	return n
}

// FindModule returns the module with the given ID, or nil.
func (c *Course) FindModule(id uuid.UUID) *Module {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i]
		}
	}
	return nil
}

// FindContent returns the content item with the given ID along with its
// owning module, or (nil, nil).
func (c *Course) FindContent(id uuid.UUID) (*Content, *Module) {
	for i := range c.Modules {
		m := &c.Modules[i]
		for j := range m.Contents {
			if m.Contents[j].ID == id {
				return &m.Contents[j], m
			}
		}
	}
	return nil, nil
}

// FindAssignment returns the assignment with the given ID along with its
// owning module, or (nil, nil).
func (c *Course) FindAssignment(id uuid.UUID) (*Assignment, *Module) {
	for i := range c.Modules {
		m := &c.Modules[i]
		for j := range m.Assignments {
			if m.Assignments[j].ID == id {
				return &m.Assignments[j], m
			}
		}
	}
	return nil, nil
}

// FindSession returns the live session with the given ID, or nil.
func (c *Course) FindSession(id uuid.UUID) *LiveSession {
	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			return &c.Sessions[i]
		}
	}
	return nil
}
