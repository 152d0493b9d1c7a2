package player

import (
	"github.com/google/uuid"
)

// ItemKind is the discriminant of the current-item union.
type ItemKind string

const (
	ItemNone       ItemKind = "none"
	ItemContent    ItemKind = "content"
	ItemAssignment ItemKind = "assignment"
	ItemSession    ItemKind = "session"
)

// CurrentItem is a tagged variant: exactly one of content+module,
// assignment+module, or session is selected, or nothing. The single Kind
// discriminant rules out impossible states such as a content item and an
// assignment selected at once.
type CurrentItem struct {
	Kind   ItemKind  `json:"kind"`
	ItemID uuid.UUID `json:"item_id,omitempty"`
	// ModuleID is the owning module for content and assignment items;
	// zero for sessions, which live at course level.
	ModuleID uuid.UUID `json:"module_id,omitempty"`
}

// SelectInitial computes the deterministic initial selection:
//  1. with progress data, the first content item not in the completed set
//     (modules in order, contents in order within a module);
//  2. without progress data, the first content item of the first module
//     that has any content;
//  3. otherwise no selection.
//
// The selected item's module becomes the expanded module.
func (p *Player) SelectInitial() CurrentItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasProgress {
		for i := range p.course.Modules {
			m := &p.course.Modules[i]
			for j := range m.Contents {
				if !p.isCompletedLocked(m.Contents[j].ID) {
					p.setCurrentLocked(CurrentItem{Kind: ItemContent, ItemID: m.Contents[j].ID, ModuleID: m.ID})
					return p.current
				}
			}
		}
		// Everything completed: fall through to first-content selection
		// so the learner can still review the course.
	}

	for i := range p.course.Modules {
		m := &p.course.Modules[i]
		if len(m.Contents) > 0 {
			p.setCurrentLocked(CurrentItem{Kind: ItemContent, ItemID: m.Contents[0].ID, ModuleID: m.ID})
			return p.current
		}
	}

	p.current = CurrentItem{Kind: ItemNone}
	p.currentModuleID = uuid.Nil
	return p.current
}

// Current returns the current item.
func (p *Player) Current() CurrentItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// ExpandedModuleID returns the module currently expanded in the outline.
// Expansion is derived UI state, never persisted.
func (p *Player) ExpandedModuleID() uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentModuleID
}

// CourseComplete reports whether advancement ran past the last content
// item. It latches: once signalled it stays set for the session.
func (p *Player) CourseComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.courseComplete
}

// SelectContent makes the given content item current and expands its
// module.
func (p *Player) SelectContent(contentID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	content, module := p.course.FindContent(contentID)
	if content == nil {
		return ErrUnknownItem
	}
	p.setCurrentLocked(CurrentItem{Kind: ItemContent, ItemID: content.ID, ModuleID: module.ID})
	return nil
}

// SelectAssignment makes the given assignment current, expands its module,
// and seeds the draft buffer from the latest submission's payload so
// editing resumes from prior state.
func (p *Player) SelectAssignment(assignmentID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	assignment, module := p.course.FindAssignment(assignmentID)
	if assignment == nil {
		return ErrUnknownItem
	}
	p.setCurrentLocked(CurrentItem{Kind: ItemAssignment, ItemID: assignment.ID, ModuleID: module.ID})
	p.seedDraftLocked(assignment.ID)
	return nil
}

// SelectSession makes the given live session current. Selecting a session
// has no side effect beyond the selection itself.
func (p *Player) SelectSession(sessionID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.course.FindSession(sessionID) == nil {
		return ErrUnknownItem
	}
	p.current = CurrentItem{Kind: ItemSession, ItemID: sessionID}
	p.lastTouched = p.now()
	return nil
}

// AdvanceToNext computes the next item after a completion event. It
// operates only when the current item is a content item; otherwise it
// returns the selection unchanged.
//
// Order of preference: the next content item in the current module, then
// the first content item of the next module that has any (expanding it and
// collapsing the previous one), and finally — nothing left anywhere — the
// course-complete signal with the selection left in place.
func (p *Player) AdvanceToNext() (CurrentItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current.Kind != ItemContent {
		return p.current, false
	}

	_, module := p.course.FindContent(p.current.ItemID)
	if module == nil {
		return p.current, false
	}

	moduleIdx := -1
	contentIdx := -1
	for i := range p.course.Modules {
		if p.course.Modules[i].ID == module.ID {
			moduleIdx = i
			break
		}
	}
	for j := range module.Contents {
		if module.Contents[j].ID == p.current.ItemID {
			contentIdx = j
			break
		}
	}

	// Later content in the same module.
	if contentIdx+1 < len(module.Contents) {
		p.setCurrentLocked(CurrentItem{Kind: ItemContent, ItemID: module.Contents[contentIdx+1].ID, ModuleID: module.ID})
		return p.current, false
	}

	// First content of the next non-empty module.
	for i := moduleIdx + 1; i < len(p.course.Modules); i++ {
		next := &p.course.Modules[i]
		if len(next.Contents) > 0 {
			p.setCurrentLocked(CurrentItem{Kind: ItemContent, ItemID: next.Contents[0].ID, ModuleID: next.ID})
			return p.current, false
		}
	}

	// No further content anywhere.
	p.courseComplete = true
	return p.current, true
}

// setCurrentLocked applies a selection and derives the expanded module.
// Caller holds p.mu.
func (p *Player) setCurrentLocked(item CurrentItem) {
	p.current = item
	p.currentModuleID = item.ModuleID
	p.lastTouched = p.now()
}
