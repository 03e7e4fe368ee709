package auth

import "github.com/google/uuid"

// TokenResponse carries a freshly issued access token. The refresh token
// travels in an HttpOnly cookie, never in the body.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// NicknameDuplicateResponse reports whether a nickname is taken
type NicknameDuplicateResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}

// UserInfoResponse is the authenticated user's profile
type UserInfoResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Nickname string    `json:"nickname"`
}
