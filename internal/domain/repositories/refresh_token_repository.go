package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
)

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	// Save stores an issued refresh token
	Save(ctx context.Context, token *entities.RefreshToken) error

	// FindByToken retrieves a stored refresh token by its value
	FindByToken(ctx context.Context, token string) (*entities.RefreshToken, error)

	// DeleteByUserID removes all refresh tokens of a user
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
