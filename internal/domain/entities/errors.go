package entities

import "errors"

// Sentinel errors returned by the repository layer. The usecase layer maps
// them onto the API error taxonomy.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)
