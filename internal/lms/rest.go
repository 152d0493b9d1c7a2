package lms

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumelearn/player-backend/internal/model"
)

// RestClient implements Client against the LMS REST API using resty.
type RestClient struct {
	http *resty.Client
	log  zerolog.Logger
}

var _ Client = (*RestClient)(nil)

// NewRestClient creates a RestClient for the given base URL.
func NewRestClient(baseURL string, timeout time.Duration, log zerolog.Logger) *RestClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RestClient{
		http: httpClient,
		log:  log.With().Str("component", "lms_client").Logger(),
	}
}

// r builds a request bound to ctx, forwarding the learner bearer token when
// present.
func (c *RestClient) r(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := TokenFromContext(ctx); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// classify turns a transport error or a non-2xx response into the package
// error taxonomy. 401/403 collapse into ErrForbidden (access-denied
// presentation); 404 into ErrNotFound; anything else stays generic.
func classify(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	code := resp.StatusCode()
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case code >= 400:
		return fmt.Errorf("%s: upstream status %d", op, code)
	}
	return nil
}

func (c *RestClient) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	resp, err := c.r(ctx).
		SetResult(&course).
		Get(fmt.Sprintf("/courses/%s", id))
	if err := classify(resp, err, "get course"); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *RestClient) GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	resp, err := c.r(ctx).
		SetResult(&course).
		Get(fmt.Sprintf("/courses/slug/%s", slug))
	if err := classify(resp, err, "get course by slug"); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *RestClient) GetCourseModules(ctx context.Context, courseID uuid.UUID) ([]model.Module, error) {
	var modules []model.Module
	resp, err := c.r(ctx).
		SetResult(&modules).
		Get(fmt.Sprintf("/courses/%s/modules", courseID))
	if err := classify(resp, err, "get course modules"); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *RestClient) GetModuleContents(ctx context.Context, courseID, moduleID uuid.UUID) ([]model.Content, error) {
	var contents []model.Content
	resp, err := c.r(ctx).
		SetResult(&contents).
		Get(fmt.Sprintf("/courses/%s/modules/%s/contents", courseID, moduleID))
	if err := classify(resp, err, "get module contents"); err != nil {
		return nil, err
	}
	return contents, nil
}

func (c *RestClient) GetCourseProgress(ctx context.Context, courseID uuid.UUID) ([]model.ModuleProgress, error) {
	var progress []model.ModuleProgress
	resp, err := c.r(ctx).
		SetResult(&progress).
		Get(fmt.Sprintf("/courses/%s/progress", courseID))
	if err := classify(resp, err, "get course progress"); err != nil {
		return nil, err
	}
	return progress, nil
}

func (c *RestClient) UpdateContentProgress(ctx context.Context, contentID uuid.UUID, update model.ProgressUpdate) error {
	resp, err := c.r(ctx).
		SetBody(update).
		Patch(fmt.Sprintf("/contents/%s/progress", contentID))
	return classify(resp, err, "update content progress")
}

func (c *RestClient) GetMySubmissions(ctx context.Context) ([]model.Submission, error) {
	var subs []model.Submission
	resp, err := c.r(ctx).
		SetResult(&subs).
		Get("/me/submissions")
	if err := classify(resp, err, "get my submissions"); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *RestClient) CreateSubmission(ctx context.Context, assignmentID uuid.UUID, payload SubmissionPayload) (*model.Submission, error) {
	var sub model.Submission
	req := c.submissionRequest(ctx, payload).SetResult(&sub)
	resp, err := req.Post(fmt.Sprintf("/assignments/%s/submissions", assignmentID))
	if err := classify(resp, err, "create submission"); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *RestClient) UpdateSubmission(ctx context.Context, submissionID uuid.UUID, payload SubmissionPayload) (*model.Submission, error) {
	var sub model.Submission
	req := c.submissionRequest(ctx, payload).SetResult(&sub)
	resp, err := req.Patch(fmt.Sprintf("/submissions/%s", submissionID))
	if err := classify(resp, err, "update submission"); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *RestClient) SubmitSubmission(ctx context.Context, submissionID uuid.UUID) (*model.Submission, error) {
	var sub model.Submission
	resp, err := c.r(ctx).
		SetResult(&sub).
		Post(fmt.Sprintf("/submissions/%s/submit", submissionID))
	if err := classify(resp, err, "submit submission"); err != nil {
		return nil, err
	}
	return &sub, nil
}

// submissionRequest encodes the payload either as JSON or, when a file is
// attached, as a binary-safe multipart body with the structured fields as
// form values.
func (c *RestClient) submissionRequest(ctx context.Context, payload SubmissionPayload) *resty.Request {
	req := c.r(ctx)
	if !payload.Multipart() {
		return req.SetBody(payload)
	}

	fields := map[string]string{}
	if payload.Text != "" {
		fields["text"] = payload.Text
	}
	if payload.URL != "" {
		fields["url"] = payload.URL
	}
	if payload.FileURL != "" {
		// Legacy plain-URL field, still accepted upstream.
		fields["file_url"] = payload.FileURL
	}
	return req.
		SetFormData(fields).
		SetFileReader("file", payload.File.Name, bytes.NewReader(payload.File.Data))
}

func (c *RestClient) SubmitQuiz(ctx context.Context, sub QuizSubmission) (*model.QuizResult, error) {
	var result model.QuizResult
	resp, err := c.r(ctx).
		SetBody(sub).
		SetResult(&result).
		Post(fmt.Sprintf("/quizzes/%s/attempts", sub.ContentID))
	if err := classify(resp, err, "submit quiz"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestClient) GetQuizAttempts(ctx context.Context, contentID uuid.UUID) (*model.QuizHistory, error) {
	var history model.QuizHistory
	resp, err := c.r(ctx).
		SetResult(&history).
		Get(fmt.Sprintf("/quizzes/%s/attempts", contentID))
	if err := classify(resp, err, "get quiz attempts"); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *RestClient) GetCourseAnnouncements(ctx context.Context, courseID uuid.UUID) ([]model.Announcement, error) {
	var list []model.Announcement
	resp, err := c.r(ctx).
		SetResult(&list).
		Get(fmt.Sprintf("/courses/%s/announcements", courseID))
	if err := classify(resp, err, "get course announcements"); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *RestClient) GetCourseSessions(ctx context.Context, courseID uuid.UUID) ([]model.LiveSession, error) {
	var sessions []model.LiveSession
	resp, err := c.r(ctx).
		SetResult(&sessions).
		Get(fmt.Sprintf("/courses/%s/sessions", courseID))
	if err := classify(resp, err, "get course sessions"); err != nil {
		return nil, err
	}
	return sessions, nil
}
