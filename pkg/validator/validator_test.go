package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupPayload struct {
	Email    string `validate:"required,email"`
	Nickname string `validate:"required,nickname"`
	Password string `validate:"required,min=8"`
}

func TestValidateSignupPayload(t *testing.T) {
	v := New()

	valid := signupPayload{Email: "user@test.local", Nickname: "user_01", Password: "password123"}
	assert.NoError(t, v.Validate(valid))

	tests := []struct {
		name    string
		payload signupPayload
	}{
		{"bad email", signupPayload{Email: "not-an-email", Nickname: "user_01", Password: "password123"}},
		{"nickname too short", signupPayload{Email: "user@test.local", Nickname: "u", Password: "password123"}},
		{"nickname too long", signupPayload{Email: "user@test.local", Nickname: "abcdefghijklmnopqrstu", Password: "password123"}},
		{"nickname with spaces", signupPayload{Email: "user@test.local", Nickname: "user 01", Password: "password123"}},
		{"password too short", signupPayload{Email: "user@test.local", Nickname: "user_01", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate(tt.payload))
		})
	}
}
