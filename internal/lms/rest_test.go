package lms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumelearn/player-backend/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RestClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRestClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetCourseForwardsBearerToken(t *testing.T) {
	courseID := uuid.New()
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/courses/"+courseID.String(), r.URL.Path)
		writeJSON(t, w, model.Course{ID: courseID, Title: "Widgets"})
	})

	ctx := WithToken(context.Background(), "learner-token")
	course, err := client.GetCourse(ctx, courseID)

	require.NoError(t, err)
	assert.Equal(t, "Bearer learner-token", gotAuth)
	assert.Equal(t, "Widgets", course.Title)
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrForbidden},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})

		_, err := client.GetCourse(context.Background(), uuid.New())
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}

	// Other 4xx/5xx stay generic.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.GetCourse(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestUpdateContentProgressBody(t *testing.T) {
	contentID := uuid.New()
	var got model.ProgressUpdate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/contents/"+contentID.String()+"/progress", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateContentProgress(context.Background(), contentID, model.ProgressUpdate{Percent: 100, Completed: true})

	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Percent)
	assert.True(t, got.Completed)
}

func TestCreateSubmissionJSONWithoutFile(t *testing.T) {
	assignmentID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		var payload SubmissionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "essay", payload.Text)
		writeJSON(t, w, model.Submission{
			ID: uuid.New(), AssignmentID: assignmentID, AttemptNumber: 1, Status: model.SubmissionDraft,
		})
	})

	sub, err := client.CreateSubmission(context.Background(), assignmentID, SubmissionPayload{Text: "essay"})

	require.NoError(t, err)
	assert.Equal(t, model.SubmissionDraft, sub.Status)
}

func TestCreateSubmissionMultipartWithFile(t *testing.T) {
	assignmentID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "notes", r.FormValue("text"))
		assert.Equal(t, "https://cdn.example.com/old.pdf", r.FormValue("file_url"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x25, 0x50, 0x44, 0x46}, data)

		writeJSON(t, w, model.Submission{
			ID: uuid.New(), AssignmentID: assignmentID, AttemptNumber: 1, Status: model.SubmissionDraft,
		})
	})

	payload := SubmissionPayload{
		Text:    "notes",
		FileURL: "https://cdn.example.com/old.pdf",
		File:    &FileUpload{Name: "report.pdf", Data: []byte{0x25, 0x50, 0x44, 0x46}},
	}
	_, err := client.CreateSubmission(context.Background(), assignmentID, payload)

	require.NoError(t, err)
}

func TestSubmitQuizRoundTrip(t *testing.T) {
	contentID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quizzes/"+contentID.String()+"/attempts", r.URL.Path)

		var sub QuizSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, []string{"o1"}, sub.Answers["q1"])
		assert.Equal(t, 42, sub.ElapsedSeconds)

		writeJSON(t, w, model.QuizResult{ScorePercent: 80, Passed: true, AttemptNumber: 1})
	})

	result, err := client.SubmitQuiz(context.Background(), QuizSubmission{
		ContentID:      contentID,
		Answers:        model.QuizAnswers{"q1": {"o1"}},
		ElapsedSeconds: 42,
	})

	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 80.0, result.ScorePercent)
}

func TestTokenContextHelpers(t *testing.T) {
	assert.Empty(t, TokenFromContext(context.Background()))

	ctx := WithToken(context.Background(), "abc")
	assert.Equal(t, "abc", TokenFromContext(ctx))
}
