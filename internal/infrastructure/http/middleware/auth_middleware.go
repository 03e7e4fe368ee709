package middleware

import (
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	"github.com/meetingoneline/meeting-one-line/pkg/jwt"
)

const (
	// UserIDContextKey is the echo context key for the authenticated user ID
	UserIDContextKey = "user_id"
)

// AuthMiddleware validates bearer tokens on protected routes
type AuthMiddleware struct {
	jwtManager *jwt.Manager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the access token and stores the user ID on the
// echo context
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return apperrors.ErrTokenMissing()
		}

		claims, err := m.jwtManager.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwtlib.ErrTokenExpired) {
				return apperrors.ErrTokenExpired()
			}
			return apperrors.ErrTokenInvalid(err)
		}

		c.Set(UserIDContextKey, claims.UserID)
		return next(c)
	}
}

// UserIDFromContext retrieves the authenticated user ID set by Authenticate
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDContextKey).(uuid.UUID)
	return id, ok
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
