package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
)

// DraftBuffer is the in-memory editing state for the selected assignment.
// It is seeded from the latest submission's payload when the assignment is
// selected, so editing resumes from prior state.
type DraftBuffer struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Text         string    `json:"text"`
	URL          string    `json:"url"`
	FileURL      string    `json:"file_url"`
	FileName     string    `json:"file_name,omitempty"`
	fileData     []byte
}

// HasFile reports whether a file is attached to the draft.
func (d *DraftBuffer) HasFile() bool {
	return d != nil && len(d.fileData) > 0
}

// LoadSubmissions fetches the learner's submissions and keeps the ones
// belonging to this course's assignments, grouped by assignment. A fetch
// failure degrades to no submissions rather than failing the page.
func (p *Player) LoadSubmissions(ctx context.Context) {
	subs, err := p.client.GetMySubmissions(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("submissions fetch failed, degrading to empty")
		return
	}

	interest := make(map[uuid.UUID]struct{})
	for i := range p.course.Modules {
		for j := range p.course.Modules[i].Assignments {
			interest[p.course.Modules[i].Assignments[j].ID] = struct{}{}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range subs {
		if _, ok := interest[s.AssignmentID]; ok {
			p.submissions[s.AssignmentID] = append(p.submissions[s.AssignmentID], s)
		}
	}
}

// Submissions returns the known submissions for an assignment.
func (p *Player) Submissions(assignmentID uuid.UUID) []model.Submission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Submission(nil), p.submissions[assignmentID]...)
}

// Draft returns a copy of the current draft buffer, or nil when no
// assignment is selected. The copy is safe to marshal while the learner
// keeps editing.
func (p *Player) Draft() *DraftBuffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draftCopyLocked()
}

// draftCopyLocked detaches the draft buffer. Caller holds p.mu.
func (p *Player) draftCopyLocked() *DraftBuffer {
	if p.draft == nil {
		return nil
	}
	cp := *p.draft
	return &cp
}

// UpdateDraft edits the draft buffer locally. Editing is allowed only
// while the latest submission is absent, a draft, or needs revision; all
// other statuses are read-only for the learner.
func (p *Player) UpdateDraft(assignmentID uuid.UUID, text, url, fileURL, fileName string, fileData []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if a, _ := p.course.FindAssignment(assignmentID); a == nil {
		return ErrUnknownItem
	}
	if !draftEditable(model.LatestSubmission(p.submissions[assignmentID])) {
		return ErrSubmissionLocked
	}
	if p.draft == nil || p.draft.AssignmentID != assignmentID {
		p.seedDraftLocked(assignmentID)
	}
	p.draft.Text = text
	p.draft.URL = url
	p.draft.FileURL = fileURL
	if len(fileData) > 0 {
		p.draft.FileName = fileName
		p.draft.fileData = fileData
	}
	p.lastTouched = p.now()
	return nil
}

// SaveDraft persists the draft buffer upstream: when the latest submission
// is itself a draft it is updated in place, otherwise a new submission is
// created. A needs_revision resubmission therefore allocates a NEW
// attempt-numbered submission and never mutates the graded one. Local
// state changes only after the LMS acknowledged.
func (p *Player) SaveDraft(ctx context.Context, assignmentID uuid.UUID) (*model.Submission, error) {
	return p.pushDraft(ctx, assignmentID, ActionSaveDraft)
}

// Submit resolves the draft the same way SaveDraft does and then
// transitions it from draft to submitted. A failure in either step leaves
// local state consistent with what the LMS acknowledged.
func (p *Player) Submit(ctx context.Context, assignmentID uuid.UUID) (*model.Submission, error) {
	saved, err := p.pushDraft(ctx, assignmentID, ActionSubmit)
	if err != nil {
		return nil, err
	}

	var submitted *model.Submission
	err = p.mutate(ctx, ActionSubmit,
		func(ctx context.Context) error {
			var err error
			submitted, err = p.client.SubmitSubmission(ctx, saved.ID)
			return err
		},
		func() {
			p.upsertSubmissionLocked(*submitted)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("submit transition: %w", err)
	}
	return submitted, nil
}

// pushDraft is the create-or-update resolution shared by SaveDraft and
// Submit. The busy action differs so a draft save does not block a submit
// of another assignment's lifecycle slot.
func (p *Player) pushDraft(ctx context.Context, assignmentID uuid.UUID, action Action) (*model.Submission, error) {
	p.mu.Lock()
	assignment, _ := p.course.FindAssignment(assignmentID)
	if assignment == nil {
		p.mu.Unlock()
		return nil, ErrUnknownItem
	}
	latest := model.LatestSubmission(p.submissions[assignmentID])
	if !draftEditable(latest) {
		p.mu.Unlock()
		return nil, ErrSubmissionLocked
	}
	if p.draft == nil || p.draft.AssignmentID != assignmentID {
		p.seedDraftLocked(assignmentID)
	}
	payload := BuildSubmissionPayload(assignment, p.draft)
	updateID := uuid.Nil
	if latest != nil && latest.Status == model.SubmissionDraft {
		updateID = latest.ID
	}
	p.mu.Unlock()

	var saved *model.Submission
	err := p.mutate(ctx, action,
		func(ctx context.Context) error {
			var err error
			if updateID != uuid.Nil {
				saved, err = p.client.UpdateSubmission(ctx, updateID, payload)
			} else {
				saved, err = p.client.CreateSubmission(ctx, assignmentID, payload)
			}
			return err
		},
		func() {
			p.upsertSubmissionLocked(*saved)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return saved, nil
}

// seedDraftLocked initializes the draft buffer from the latest
// submission's payload fields. Caller holds p.mu.
func (p *Player) seedDraftLocked(assignmentID uuid.UUID) {
	draft := &DraftBuffer{AssignmentID: assignmentID}
	if latest := model.LatestSubmission(p.submissions[assignmentID]); latest != nil {
		draft.Text = latest.Text
		draft.URL = latest.URL
		draft.FileURL = latest.FileURL
	}
	p.draft = draft
}

// upsertSubmissionLocked replaces a submission by ID or appends a new one.
// Caller holds p.mu.
func (p *Player) upsertSubmissionLocked(sub model.Submission) {
	list := p.submissions[sub.AssignmentID]
	for i := range list {
		if list[i].ID == sub.ID {
			list[i] = sub
			return
		}
	}
	p.submissions[sub.AssignmentID] = append(list, sub)
}

// draftEditable is the single editability rule: the learner may edit while
// no submission exists yet, the latest is still a draft, or the latest
// came back needing revision.
func draftEditable(latest *model.Submission) bool {
	if latest == nil {
		return true
	}
	switch latest.Status {
	case model.SubmissionDraft, model.SubmissionNeedsRevision:
		return true
	}
	return false
}

// BuildSubmissionPayload assembles the outbound payload for the
// assignment's modality. Text travels for text/mixed, a URL for url/mixed,
// and the legacy file_url for file/mixed — each only when non-empty. Any
// attached file forces the multipart path regardless of the declared
// modality.
func BuildSubmissionPayload(assignment *model.Assignment, draft *DraftBuffer) lms.SubmissionPayload {
	payload := lms.SubmissionPayload{}
	if draft == nil {
		return payload
	}

	switch assignment.SubmissionType {
	case model.SubmissionTypeText:
		payload.Text = draft.Text
	case model.SubmissionTypeURL:
		payload.URL = draft.URL
	case model.SubmissionTypeFile:
		payload.FileURL = draft.FileURL
	case model.SubmissionTypeMixed:
		payload.Text = draft.Text
		payload.URL = draft.URL
		payload.FileURL = draft.FileURL
	}

	if draft.HasFile() {
		payload.File = &lms.FileUpload{Name: draft.FileName, Data: draft.fileData}
		// The legacy plain-URL fallback may ride along with the binary.
		payload.FileURL = draft.FileURL
	}
	return payload
}
