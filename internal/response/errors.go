package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Access ────────────────────────────────────────────────────────
	// ErrAccessDenied routes to the enrollment-blocked presentation with
	// a path back to the catalog; it is an expected state, not a bug.
	ErrAccessDenied ErrCode = "ACCESS_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrPlayerNotFound ErrCode = "PLAYER_SESSION_NOT_FOUND"
	ErrItemNotFound   ErrCode = "ITEM_NOT_FOUND"

	// ─── Player-specific ───────────────────────────────────────────────
	ErrBusy                ErrCode = "ACTION_IN_FLIGHT"
	ErrQuizNotOpen         ErrCode = "QUIZ_NOT_OPEN"
	ErrNotQuiz             ErrCode = "NOT_A_QUIZ"
	ErrQuizLocked          ErrCode = "QUIZ_ALREADY_PASSED"
	ErrNoAttemptsLeft      ErrCode = "NO_ATTEMPTS_REMAINING"
	ErrUnansweredQuestions ErrCode = "UNANSWERED_QUESTIONS"
	ErrSubmissionLocked    ErrCode = "SUBMISSION_LOCKED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Upstream / Server ─────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_ERROR"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Access ────────────────────────────────────────────────────────
	case ErrAccessDenied:
		return "You are not enrolled in this course. Browse the catalog to enrol."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrPlayerNotFound:
		return "Player session not found or expired. Reopen the course."
	case ErrItemNotFound:
		return "That item does not exist in this course."

	// ─── Player-specific ───────────────────────────────────────────────
	case ErrBusy:
		return "This action is already in progress. Please wait for it to finish."
	case ErrQuizNotOpen:
		return "Open the quiz before answering or submitting."
	case ErrNotQuiz:
		return "This content item is not a quiz."
	case ErrQuizLocked:
		return "You already passed this quiz. Further submissions are disabled."
	case ErrNoAttemptsLeft:
		return "You have no quiz attempts remaining."
	case ErrUnansweredQuestions:
		return "Please answer every question before submitting."
	case ErrSubmissionLocked:
		return "This submission is under review and can no longer be edited."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Upstream / Server ─────────────────────────────────────────────
	case ErrUpstream:
		return "The learning platform did not respond. Please retry the action."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
