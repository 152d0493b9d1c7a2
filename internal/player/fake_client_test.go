package player

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
)

// fakeClient implements lms.Client with overridable behavior per method
// and call counters for verifying that blocked operations never reach the
// network.
type fakeClient struct {
	courseFn      func(ctx context.Context, id uuid.UUID) (*model.Course, error)
	courseSlugFn  func(ctx context.Context, slug string) (*model.Course, error)
	modulesFn     func(ctx context.Context, courseID uuid.UUID) ([]model.Module, error)
	contentsFn    func(ctx context.Context, courseID, moduleID uuid.UUID) ([]model.Content, error)
	progressFn    func(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error)
	updateFn      func(ctx context.Context, contentID uuid.UUID, update model.ProgressUpdate) error
	submissionsFn func(ctx context.Context) ([]model.Submission, error)
	createSubFn   func(ctx context.Context, assignmentID uuid.UUID, payload lms.SubmissionPayload) (*model.Submission, error)
	updateSubFn   func(ctx context.Context, submissionID uuid.UUID, payload lms.SubmissionPayload) (*model.Submission, error)
	submitSubFn   func(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error)
	submitQuizFn  func(ctx context.Context, sub lms.QuizSubmission) (*model.QuizResult, error)
	attemptsFn    func(ctx context.Context, contentID uuid.UUID) (*model.QuizHistory, error)
	announceFn    func(ctx context.Context, courseID uuid.UUID) ([]model.Announcement, error)
	sessionsFn    func(ctx context.Context, courseID uuid.UUID) ([]model.LiveSession, error)

	updateCalls     int
	submitQuizCalls int
	createSubCalls  int
	updateSubCalls  int
}

var errFake = errors.New("fake upstream failure")

func (f *fakeClient) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	if f.courseFn != nil {
		return f.courseFn(ctx, id)
	}
	return nil, errFake
}

func (f *fakeClient) GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	if f.courseSlugFn != nil {
		return f.courseSlugFn(ctx, slug)
	}
	return nil, errFake
}

func (f *fakeClient) GetCourseModules(ctx context.Context, courseID uuid.UUID) ([]model.Module, error) {
	if f.modulesFn != nil {
		return f.modulesFn(ctx, courseID)
	}
	return nil, nil
}

func (f *fakeClient) GetModuleContents(ctx context.Context, courseID, moduleID uuid.UUID) ([]model.Content, error) {
	if f.contentsFn != nil {
		return f.contentsFn(ctx, courseID, moduleID)
	}
	return nil, nil
}

func (f *fakeClient) GetCourseProgress(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error) {
	if f.progressFn != nil {
		return f.progressFn(ctx, courseID)
	}
	return nil, nil
}

func (f *fakeClient) UpdateContentProgress(ctx context.Context, contentID uuid.UUID, update model.ProgressUpdate) error {
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, contentID, update)
	}
	return nil
}

func (f *fakeClient) GetMySubmissions(ctx context.Context) ([]model.Submission, error) {
	if f.submissionsFn != nil {
		return f.submissionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) CreateSubmission(ctx context.Context, assignmentID uuid.UUID, payload lms.SubmissionPayload) (*model.Submission, error) {
	f.createSubCalls++
	if f.createSubFn != nil {
		return f.createSubFn(ctx, assignmentID, payload)
	}
	return nil, errFake
}

func (f *fakeClient) UpdateSubmission(ctx context.Context, submissionID uuid.UUID, payload lms.SubmissionPayload) (*model.Submission, error) {
	f.updateSubCalls++
	if f.updateSubFn != nil {
		return f.updateSubFn(ctx, submissionID, payload)
	}
	return nil, errFake
}

func (f *fakeClient) SubmitSubmission(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error) {
	if f.submitSubFn != nil {
		return f.submitSubFn(ctx, submissionID)
	}
	return nil, errFake
}

func (f *fakeClient) SubmitQuiz(ctx context.Context, sub lms.QuizSubmission) (*model.QuizResult, error) {
	f.submitQuizCalls++
	if f.submitQuizFn != nil {
		return f.submitQuizFn(ctx, sub)
	}
	return nil, errFake
}

func (f *fakeClient) GetQuizAttempts(ctx context.Context, contentID uuid.UUID) (*model.QuizHistory, error) {
	if f.attemptsFn != nil {
		return f.attemptsFn(ctx, contentID)
	}
	return nil, errFake
}

func (f *fakeClient) GetCourseAnnouncements(ctx context.Context, courseID uuid.UUID) ([]model.Announcement, error) {
	if f.announceFn != nil {
		return f.announceFn(ctx, courseID)
	}
	return nil, nil
}

func (f *fakeClient) GetCourseSessions(ctx context.Context, courseID uuid.UUID) ([]model.LiveSession, error) {
	if f.sessionsFn != nil {
		return f.sessionsFn(ctx, courseID)
	}
	return nil, nil
}

// twoModuleCourse builds the canonical fixture used across tests: module A
// with two video items, module B with one. IDs are deterministic per call.
type courseFixture struct {
	course *model.Course
	modA   uuid.UUID
	modB   uuid.UUID
	a1, a2 uuid.UUID
	b1     uuid.UUID
}

func twoModuleCourse() courseFixture {
	fx := courseFixture{
		modA: uuid.New(),
		modB: uuid.New(),
		a1:   uuid.New(),
		a2:   uuid.New(),
		b1:   uuid.New(),
	}
	courseID := uuid.New()
	fx.course = &model.Course{
		ID:     courseID,
		Slug:   "intro-to-widgets",
		Title:  "Intro to Widgets",
		Format: model.CourseFormatOnline,
		Modules: []model.Module{
			{
				ID:       fx.modA,
				CourseID: courseID,
				Title:    "Module A",
				Order:    1,
				Contents: []model.Content{
					{ID: fx.a1, ModuleID: fx.modA, Title: "A1", Kind: model.ContentKindVideo, Order: 1},
					{ID: fx.a2, ModuleID: fx.modA, Title: "A2", Kind: model.ContentKindVideo, Order: 2},
				},
			},
			{
				ID:       fx.modB,
				CourseID: courseID,
				Title:    "Module B",
				Order:    2,
				Contents: []model.Content{
					{ID: fx.b1, ModuleID: fx.modB, Title: "B1", Kind: model.ContentKindText, Order: 1},
				},
			},
		},
	}
	return fx
}
