package auth

// SignupRequest registers a new account
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,nickname"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
