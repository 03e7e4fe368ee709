package errors

import (
	"fmt"
	"net/http"
)

// AppError is the application error type carried from the usecase layer
// to the HTTP boundary, where it is serialized uniformly.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements the error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As chains.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidInput(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_INPUT_VALUE,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAccessDenied() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_ACCESS_DENIED,
		Message:  "Access denied",
	}
}

func ErrUnauthorized(message string) AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHORIZED,
		Message:  message,
	}
}

// User errors

func ErrUserNotFound() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_USER_NOT_FOUND,
		Message:  "User not found",
	}
}

func ErrDuplicateEmail(email string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_DUPLICATE_EMAIL,
		Message:  "Email is already registered",
	}.WithDetail("email", email)
}

func ErrDuplicateNickname(nickname string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_DUPLICATE_NICKNAME,
		Message:  "Nickname is already in use",
	}.WithDetail("nickname", nickname)
}

// Auth errors

func ErrInvalidLogin() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_LOGIN,
		Message:  "Invalid email or password",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_TOKEN_EXPIRED,
		Message:  "Token has expired",
	}
}

func ErrTokenInvalid(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_TOKEN_INVALID,
		Message:  "Invalid token",
	}
}

func ErrTokenMissing() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_TOKEN_MISSING,
		Message:  "Missing authorization token",
	}
}

// Meeting errors

func ErrMeetingNotFound(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MEETING_NOT_FOUND,
		Message:  "Meeting not found",
	}.WithDetail("meeting_id", meetingID)
}

func ErrFeedbackNotFound(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_FEEDBACK_NOT_FOUND,
		Message:  "Feedback not found",
	}.WithDetail("meeting_id", meetingID)
}

func ErrInvalidFile() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_FILE,
		Message:  "Invalid or empty file",
	}
}

func ErrFileUploadFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_FILE_UPLOAD_FAILED,
		Message:  "Failed to store uploaded file",
	}
}

// AI peer errors

func ErrAIServer(body string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_AI_SERVER_ERROR,
		Message:  "AI server returned an error",
	}.WithDetail("response", body)
}
