package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/middleware"
	"github.com/lumelearn/player-backend/internal/model"
	"github.com/lumelearn/player-backend/internal/player"
	"github.com/lumelearn/player-backend/internal/response"
	"github.com/lumelearn/player-backend/internal/service"
	"github.com/lumelearn/player-backend/internal/validator"
)

// maxUploadBytes caps assignment file uploads at 25 MiB.
const maxUploadBytes = 25 << 20

// PlayerHandler exposes the course player over HTTP. Every route operates
// on a player session owned by the authenticated learner.
type PlayerHandler struct {
	playerService *service.PlayerService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// Open godoc
// POST /api/v1/player
// Opens a player session for a course, addressed by ID or slug.
func (h *PlayerHandler) Open(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.OpenPlayerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var courseID *uuid.UUID
	if req.CourseID != "" {
		id, err := uuid.Parse(req.CourseID)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	ctx := lms.WithToken(c.Request.Context(), middleware.GetToken(c))
	ps, err := h.playerService.Open(ctx, claims.Learner(), courseID, req.Slug)
	if err != nil {
		h.failError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"session_id": ps.ID,
		"snapshot":   ps.Player.Snapshot(),
	})
}

// Snapshot godoc
// GET /api/v1/player/:session_id
// Returns the full player state: outline, current item, completion.
func (h *PlayerHandler) Snapshot(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"snapshot": ps.Player.Snapshot()})
}

// Close godoc
// DELETE /api/v1/player/:session_id
// Discards the player session.
func (h *PlayerHandler) Close(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.playerService.Close(sessionID, claims.Learner()); err != nil {
		h.failError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"closed": true})
}

// SelectItem godoc
// POST /api/v1/player/:session_id/select
// Changes the current item to a content, assignment, or live session.
func (h *PlayerHandler) SelectItem(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}

	var req model.SelectItemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	switch req.Kind {
	case "content":
		err = ps.Player.SelectContent(itemID)
	case "assignment":
		err = ps.Player.SelectAssignment(itemID)
	case "session":
		err = ps.Player.SelectSession(itemID)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if err != nil {
		h.failError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"current":         ps.Player.Current(),
		"expanded_module": ps.Player.ExpandedModuleID(),
	})
}

// CompleteContent godoc
// POST /api/v1/player/:session_id/contents/:content_id/complete
// Marks a content complete upstream and advances to the next item.
func (h *PlayerHandler) CompleteContent(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx := lms.WithToken(c.Request.Context(), middleware.GetToken(c))
	if err := ps.Player.MarkComplete(ctx, contentID); err != nil {
		h.failError(c, err)
		return
	}
	next, finished := ps.Player.AdvanceToNext()

	response.Success(c, http.StatusOK, gin.H{
		"current":         next,
		"course_complete": finished || ps.Player.CourseComplete(),
		"completion":      ps.Player.Completion(),
	})
}

// OpenQuiz godoc
// POST /api/v1/player/:session_id/quizzes/:content_id/open
// Parses the quiz definition, fetches attempt history, starts the timer.
func (h *PlayerHandler) OpenQuiz(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx := lms.WithToken(c.Request.Context(), middleware.GetToken(c))
	state, err := ps.Player.OpenQuiz(ctx, contentID)
	if err != nil {
		h.failError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"quiz":      state,
		"questions": stripAnswerKey(state.Definition()),
	})
}

// SetQuizAnswers godoc
// PUT /api/v1/player/:session_id/quizzes/:content_id/answers
// Buffers the learner's answers locally. Nothing is sent upstream.
func (h *PlayerHandler) SetQuizAnswers(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.QuizAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if err := ps.Player.SetQuizAnswers(contentID, req.Answers); err != nil {
		h.failError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": ps.Player.QuizStateFor(contentID)})
}

// SubmitQuiz godoc
// POST /api/v1/player/:session_id/quizzes/:content_id/submit
// Sends the buffered answers upstream for authoritative grading.
func (h *PlayerHandler) SubmitQuiz(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx := lms.WithToken(c.Request.Context(), middleware.GetToken(c))
	result, err := ps.Player.SubmitQuiz(ctx, contentID)
	if err != nil {
		h.failError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"result": result,
		"quiz":   ps.Player.QuizStateFor(contentID),
	})
}

// QuizPreview godoc
// GET /api/v1/player/:session_id/quizzes/:content_id/preview
// Grades the buffered answers locally without spending an attempt.
func (h *PlayerHandler) QuizPreview(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state := ps.Player.QuizStateFor(contentID)
	if state == nil || state.Definition() == nil {
		response.Fail(c, http.StatusConflict, response.ErrQuizNotOpen)
		return
	}
	score, passed := player.ScorePreview(state.Definition(), state.Answers)
	response.Success(c, http.StatusOK, gin.H{
		"score_percent": score,
		"would_pass":    passed,
	})
}

// SaveDraft godoc
// PUT /api/v1/player/:session_id/assignments/:assignment_id/draft
// Updates the local draft and pushes it upstream. Accepts JSON or, when a
// file is attached, multipart form data.
func (h *PlayerHandler) SaveDraft(c *gin.Context) {
	h.pushDraft(c, false)
}

// SubmitAssignment godoc
// POST /api/v1/player/:session_id/assignments/:assignment_id/submit
// Pushes the draft upstream and finalizes it for review.
func (h *PlayerHandler) SubmitAssignment(c *gin.Context) {
	h.pushDraft(c, true)
}

// ListSessions godoc
// GET /api/v1/player/:session_id/sessions
// Returns the course's live sessions with resolved status and ordering.
func (h *PlayerHandler) ListSessions(c *gin.Context) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": ps.Player.Sessions()})
}

func (h *PlayerHandler) pushDraft(c *gin.Context, submit bool) {
	ps := h.session(c)
	if ps == nil {
		return
	}
	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var (
		req      model.SaveDraftRequest
		fileName string
		fileData []byte
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.Text = c.PostForm("text")
		req.URL = c.PostForm("url")
		req.FileURL = c.PostForm("file_url")

		if fh, ferr := c.FormFile("file"); ferr == nil {
			if fh.Size > maxUploadBytes {
				response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrInvalidPayload)
				return
			}
			f, ferr := fh.Open()
			if ferr != nil {
				response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
				return
			}
			defer f.Close()
			fileData, ferr = io.ReadAll(io.LimitReader(f, maxUploadBytes))
			if ferr != nil {
				response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
				return
			}
			fileName = fh.Filename
		}
	} else {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	if err := ps.Player.UpdateDraft(assignmentID, req.Text, req.URL, req.FileURL, fileName, fileData); err != nil {
		h.failError(c, err)
		return
	}

	ctx := lms.WithToken(c.Request.Context(), middleware.GetToken(c))
	var sub *model.Submission
	if submit {
		sub, err = ps.Player.Submit(ctx, assignmentID)
	} else {
		sub, err = ps.Player.SaveDraft(ctx, assignmentID)
	}
	if err != nil {
		h.failError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}

// session resolves the :session_id route param to a player session owned
// by the authenticated learner, writing the error response on failure.
func (h *PlayerHandler) session(c *gin.Context) *service.PlayerSession {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil
	}
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil
	}
	ps, err := h.playerService.Get(sessionID, claims.Learner())
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrPlayerNotFound)
		return nil
	}
	return ps
}

// failError maps engine and upstream errors onto the response taxonomy.
func (h *PlayerHandler) failError(c *gin.Context, err error) {
	var unanswered *player.UnansweredError
	switch {
	case errors.As(err, &unanswered):
		fields := make(map[string]string, len(unanswered.QuestionIDs))
		for _, qid := range unanswered.QuestionIDs {
			fields[qid] = "answer required"
		}
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrUnansweredQuestions, fields)
	case errors.Is(err, player.ErrBusy):
		response.Fail(c, http.StatusConflict, response.ErrBusy)
	case errors.Is(err, player.ErrUnknownItem):
		response.Fail(c, http.StatusNotFound, response.ErrItemNotFound)
	case errors.Is(err, player.ErrNotQuiz):
		response.Fail(c, http.StatusBadRequest, response.ErrNotQuiz)
	case errors.Is(err, player.ErrQuizNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrQuizNotOpen)
	case errors.Is(err, player.ErrQuizLocked):
		response.Fail(c, http.StatusConflict, response.ErrQuizLocked)
	case errors.Is(err, player.ErrNoAttemptsLeft):
		response.Fail(c, http.StatusConflict, response.ErrNoAttemptsLeft)
	case errors.Is(err, player.ErrSubmissionLocked):
		response.Fail(c, http.StatusConflict, response.ErrSubmissionLocked)
	case errors.Is(err, service.ErrPlayerNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrPlayerNotFound)
	case errors.Is(err, service.ErrCourseRefRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, lms.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrAccessDenied)
	case errors.Is(err, lms.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
	}
}

// publicQuestion is a quiz question with the answer key removed.
type publicQuestion struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Multi   bool               `json:"multi"`
	Weight  float64            `json:"weight"`
	Options []model.QuizOption `json:"options"`
}

func stripAnswerKey(def *model.QuizDefinition) []publicQuestion {
	if def == nil {
		return nil
	}
	out := make([]publicQuestion, 0, len(def.Questions))
	for _, q := range def.Questions {
		out = append(out, publicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Multi:   q.Multi,
			Weight:  q.Weight,
			Options: q.Options,
		})
	}
	return out
}
