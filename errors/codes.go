package errors

// ErrorCode identifies a business or system failure class.
// Codes are stable identifiers exposed in API error bodies.
type ErrorCode string

const (
	// Common
	ErrorCode_INTERNAL            ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrorCode_INVALID_INPUT_VALUE ErrorCode = "INVALID_INPUT_VALUE"
	ErrorCode_NOT_FOUND           ErrorCode = "NOT_FOUND"
	ErrorCode_ACCESS_DENIED       ErrorCode = "ACCESS_DENIED"
	ErrorCode_UNAUTHORIZED        ErrorCode = "UNAUTHORIZED"

	// Users
	ErrorCode_USER_NOT_FOUND     ErrorCode = "USER_NOT_FOUND"
	ErrorCode_DUPLICATE_EMAIL    ErrorCode = "DUPLICATE_EMAIL"
	ErrorCode_DUPLICATE_NICKNAME ErrorCode = "DUPLICATE_NICKNAME"

	// Auth
	ErrorCode_INVALID_LOGIN ErrorCode = "INVALID_LOGIN"
	ErrorCode_TOKEN_EXPIRED ErrorCode = "TOKEN_EXPIRED"
	ErrorCode_TOKEN_INVALID ErrorCode = "TOKEN_INVALID"
	ErrorCode_TOKEN_MISSING ErrorCode = "TOKEN_MISSING"

	// Meetings / data
	ErrorCode_MEETING_NOT_FOUND  ErrorCode = "MEETING_NOT_FOUND"
	ErrorCode_FEEDBACK_NOT_FOUND ErrorCode = "FEEDBACK_NOT_FOUND"
	ErrorCode_FILE_UPLOAD_FAILED ErrorCode = "FILE_UPLOAD_FAILED"
	ErrorCode_INVALID_FILE       ErrorCode = "INVALID_FILE"

	// External collaborators
	ErrorCode_AI_SERVER_ERROR ErrorCode = "AI_SERVER_ERROR"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}
