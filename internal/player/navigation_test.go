package player

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumelearn/player-backend/internal/model"
)

func TestSelectInitialWithoutProgress(t *testing.T) {
	fx := twoModuleCourse()
	p := New(&fakeClient{}, fx.course, zerolog.Nop())

	current := p.SelectInitial()

	assert.Equal(t, ItemContent, current.Kind)
	assert.Equal(t, fx.a1, current.ItemID)
	assert.Equal(t, fx.modA, p.ExpandedModuleID())
}

func TestSelectInitialResumesAtFirstIncomplete(t *testing.T) {
	fx := twoModuleCourse()
	client := &fakeClient{
		progressFn: func(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error) {
			return []model.ModuleProgress{
				{ModuleID: fx.modA, Records: []model.ProgressRecord{
					{ContentID: fx.a1, Status: model.ProgressCompleted},
				}},
			}, nil
		},
	}
	p := New(client, fx.course, zerolog.Nop())
	p.LoadProgress(context.Background())

	current := p.SelectInitial()

	assert.Equal(t, fx.a2, current.ItemID)
	assert.Equal(t, fx.modA, current.ModuleID)
}

func TestSelectInitialAllCompleteFallsBackToFirstContent(t *testing.T) {
	fx := twoModuleCourse()
	client := &fakeClient{
		progressFn: func(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error) {
			return []model.ModuleProgress{
				{ModuleID: fx.modA, Records: []model.ProgressRecord{
					{ContentID: fx.a1, Status: model.ProgressCompleted},
					{ContentID: fx.a2, Percent: 100},
				}},
				{ModuleID: fx.modB, Records: []model.ProgressRecord{
					{ContentID: fx.b1, Status: model.ProgressCompleted},
				}},
			}, nil
		},
	}
	p := New(client, fx.course, zerolog.Nop())
	p.LoadProgress(context.Background())

	current := p.SelectInitial()

	assert.Equal(t, fx.a1, current.ItemID)
}

func TestSelectInitialEmptyCourse(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Modules: []model.Module{{ID: uuid.New()}}}
	p := New(&fakeClient{}, course, zerolog.Nop())

	current := p.SelectInitial()

	assert.Equal(t, ItemNone, current.Kind)
	assert.Equal(t, uuid.Nil, p.ExpandedModuleID())
}

func TestAdvanceWithinModule(t *testing.T) {
	fx := twoModuleCourse()
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	p.SelectInitial()

	require.NoError(t, p.MarkComplete(context.Background(), fx.a1))
	next, finished := p.AdvanceToNext()

	assert.False(t, finished)
	assert.Equal(t, fx.a2, next.ItemID)
	assert.Equal(t, fx.modA, p.ExpandedModuleID())
}

func TestAdvanceCrossesModuleBoundary(t *testing.T) {
	fx := twoModuleCourse()
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	require.NoError(t, p.SelectContent(fx.a2))

	next, finished := p.AdvanceToNext()

	assert.False(t, finished)
	assert.Equal(t, fx.b1, next.ItemID)
	assert.Equal(t, fx.modB, p.ExpandedModuleID(), "next module expands, previous collapses")
}

func TestAdvanceSkipsEmptyModule(t *testing.T) {
	fx := twoModuleCourse()
	// Insert an empty module between A and B.
	fx.course.Modules = []model.Module{
		fx.course.Modules[0],
		{ID: uuid.New(), CourseID: fx.course.ID, Title: "Empty", Order: 2},
		fx.course.Modules[1],
	}
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	require.NoError(t, p.SelectContent(fx.a2))

	next, finished := p.AdvanceToNext()

	assert.False(t, finished)
	assert.Equal(t, fx.b1, next.ItemID)
}

func TestAdvancePastLastContentSignalsCourseComplete(t *testing.T) {
	fx := twoModuleCourse()
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	require.NoError(t, p.SelectContent(fx.b1))

	current, finished := p.AdvanceToNext()

	assert.True(t, finished)
	assert.Equal(t, fx.b1, current.ItemID, "selection stays in place")
	assert.True(t, p.CourseComplete())

	// The signal latches.
	_, again := p.AdvanceToNext()
	assert.True(t, again)
	assert.True(t, p.CourseComplete())
}

func TestAdvanceNoOpForNonContentSelection(t *testing.T) {
	fx := twoModuleCourse()
	fx.course.Modules[0].Assignments = []model.Assignment{
		{ID: uuid.New(), ModuleID: fx.modA, SubmissionType: model.SubmissionTypeText},
	}
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	require.NoError(t, p.SelectAssignment(fx.course.Modules[0].Assignments[0].ID))

	current, finished := p.AdvanceToNext()

	assert.False(t, finished)
	assert.Equal(t, ItemAssignment, current.Kind)
}

func TestSelectUnknownItems(t *testing.T) {
	fx := twoModuleCourse()
	p := New(&fakeClient{}, fx.course, zerolog.Nop())

	assert.ErrorIs(t, p.SelectContent(uuid.New()), ErrUnknownItem)
	assert.ErrorIs(t, p.SelectAssignment(uuid.New()), ErrUnknownItem)
	assert.ErrorIs(t, p.SelectSession(uuid.New()), ErrUnknownItem)
}

func TestSelectSessionLeavesModuleExpansionAlone(t *testing.T) {
	fx := twoModuleCourse()
	sessionID := uuid.New()
	fx.course.Format = model.CourseFormatHybrid
	fx.course.Sessions = []model.LiveSession{{ID: sessionID, CourseID: fx.course.ID, Published: true}}
	p := New(&fakeClient{}, fx.course, zerolog.Nop())
	p.SelectInitial()

	require.NoError(t, p.SelectSession(sessionID))

	assert.Equal(t, ItemSession, p.Current().Kind)
	assert.Equal(t, fx.modA, p.ExpandedModuleID(), "session selection keeps the outline as-is")
}
