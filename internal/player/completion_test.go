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

func hybridCourse(criteria model.CompletionCriteria, sessions []model.LiveSession) *model.Course {
	return &model.Course{
		ID:       uuid.New(),
		Format:   model.CourseFormatHybrid,
		Criteria: criteria,
		Sessions: sessions,
	}
}

func TestEvaluateCompletionOnlineIgnoresCriteria(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Format: model.CourseFormatOnline, Criteria: model.CriteriaBoth}

	complete, err := EvaluateCompletion(course, true, 0, false)
	require.NoError(t, err)
	assert.True(t, complete, "online courses complete on modules alone")
}

func TestEvaluateCompletionCriteria(t *testing.T) {
	sessions := []model.LiveSession{{ID: uuid.New(), Mandatory: true}}

	tests := []struct {
		name              string
		criteria          model.CompletionCriteria
		modulesComplete   bool
		mandatoryAttended bool
		want              bool
	}{
		{"modules_only ignores sessions", model.CriteriaModulesOnly, true, false, true},
		{"empty criteria defaults to modules_only", "", true, false, true},
		{"sessions_only ignores modules", model.CriteriaSessionsOnly, false, true, true},
		{"both needs both", model.CriteriaBoth, true, false, false},
		{"both satisfied", model.CriteriaBoth, true, true, true},
		{"either on modules", model.CriteriaEither, true, false, true},
		{"either on sessions", model.CriteriaEither, false, true, true},
		{"either on neither", model.CriteriaEither, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := hybridCourse(tt.criteria, sessions)
			complete, err := EvaluateCompletion(course, tt.modulesComplete, 0, tt.mandatoryAttended)
			require.NoError(t, err)
			assert.Equal(t, tt.want, complete)
		})
	}
}

func TestEvaluateCompletionMinSessions(t *testing.T) {
	sessions := []model.LiveSession{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	course := hybridCourse(model.CriteriaMinSessions, sessions)
	course.MinSessions = 2

	complete, err := EvaluateCompletion(course, false, 1, true)
	require.NoError(t, err)
	assert.False(t, complete)

	complete, err = EvaluateCompletion(course, false, 2, true)
	require.NoError(t, err)
	assert.True(t, complete)

	// A non-positive threshold is a configuration error, not "nothing
	// required".
	course.MinSessions = 0
	_, err = EvaluateCompletion(course, true, 3, true)
	assert.Error(t, err)
}

func TestEvaluateCompletionUnknownCriteria(t *testing.T) {
	course := hybridCourse("attendance_weighted", nil)

	_, err := EvaluateCompletion(course, true, 0, true)
	assert.Error(t, err)
}

func TestPlayerCompletionSummary(t *testing.T) {
	fx := twoModuleCourse()
	fx.course.Format = model.CourseFormatHybrid
	fx.course.Criteria = model.CriteriaBoth
	fx.course.Sessions = []model.LiveSession{
		{ID: uuid.New(), Mandatory: true, Attended: true, Published: true},
		{ID: uuid.New(), Attended: false, Published: true},
	}
	p := New(&fakeClient{}, fx.course, zerolog.Nop())

	summary := p.Completion()
	assert.False(t, summary.Complete)
	assert.Equal(t, 1, summary.AttendedSessions)

	for _, id := range []uuid.UUID{fx.a1, fx.a2, fx.b1} {
		require.NoError(t, p.MarkComplete(context.Background(), id))
	}

	summary = p.Completion()
	assert.True(t, summary.ModulesComplete)
	assert.Equal(t, 100, summary.Percent)
	assert.True(t, summary.Complete, "all modules done and every mandatory session attended")
}

func TestCompletionZeroContentNeverModulesComplete(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Format: model.CourseFormatOnline}
	p := New(&fakeClient{}, course, zerolog.Nop())

	summary := p.Completion()
	assert.False(t, summary.ModulesComplete, "an empty course is not vacuously complete")
	assert.Equal(t, 0, summary.Percent)
}

func TestEvaluateCompletionZeroSessionsNeverSatisfiesAttendance(t *testing.T) {
	// An empty session list on a hybrid course is a scheduling gap, not
	// automatic attendance.
	course := hybridCourse(model.CriteriaSessionsOnly, nil)
	complete, err := EvaluateCompletion(course, true, 0, true)
	require.NoError(t, err)
	assert.False(t, complete)

	course = hybridCourse(model.CriteriaBoth, nil)
	complete, err = EvaluateCompletion(course, true, 0, true)
	require.NoError(t, err)
	assert.False(t, complete)

	// either still completes through modules alone.
	course = hybridCourse(model.CriteriaEither, nil)
	complete, err = EvaluateCompletion(course, true, 0, true)
	require.NoError(t, err)
	assert.True(t, complete)
}
