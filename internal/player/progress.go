package player

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/model"
)

// LoadProgress overlays persisted completion state onto the structure. A
// fetch failure (e.g. a staff preview viewer with no enrollment) degrades
// to an empty completed set instead of failing the page; navigation then
// falls back to first-content selection.
func (p *Player) LoadProgress(ctx context.Context) {
	records, err := p.client.GetCourseProgress(ctx, p.course.ID)
	if err != nil {
		p.log.Warn().Err(err).Msg("progress fetch failed, degrading to empty")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasProgress = true
	for _, mp := range records {
		for _, rec := range mp.Records {
			if rec.IsComplete() {
				p.completed[rec.ContentID] = struct{}{}
			}
		}
	}
}

// MarkComplete sends a completion update upstream and records the content
// as complete only after acknowledgment. Marking an already-completed item
// is a silent no-op: the set's cardinality does not change and no request
// or error is produced.
func (p *Player) MarkComplete(ctx context.Context, contentID uuid.UUID) error {
	p.mu.Lock()
	if _, done := p.completed[contentID]; done {
		p.mu.Unlock()
		return nil
	}
	if c, _ := p.course.FindContent(contentID); c == nil {
		p.mu.Unlock()
		return ErrUnknownItem
	}
	p.mu.Unlock()

	return p.mutate(ctx, ActionMarkComplete,
		func(ctx context.Context) error {
			return p.client.UpdateContentProgress(ctx, contentID, model.ProgressUpdate{
				Percent:   100,
				Completed: true,
			})
		},
		func() {
			p.completed[contentID] = struct{}{}
		},
	)
}

// IsCompleted reports whether the content item is in the completed set.
func (p *Player) IsCompleted(contentID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.completed[contentID]
	return ok
}

// CompletedCount returns the completed set's cardinality.
func (p *Player) CompletedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.completed)
}

// Percent is the aggregate progress: completed over all content items
// across all modules, rounded to the nearest integer. A course with zero
// content is 0%, never a division by zero.
func (p *Player) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return roundPercent(len(p.completed), p.course.ContentCount())
}

func (p *Player) isCompletedLocked(contentID uuid.UUID) bool {
	_, ok := p.completed[contentID]
	return ok
}

// allModulesCompleteLocked reports whether every content item of every
// module is in the completed set.
func (p *Player) allModulesCompleteLocked() bool {
	for i := range p.course.Modules {
		for j := range p.course.Modules[i].Contents {
			if !p.isCompletedLocked(p.course.Modules[i].Contents[j].ID) {
				return false
			}
		}
	}
	return true
}
