package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
)

// UserRepository defines the interface for user data access.
// All lookups exclude soft-deleted rows.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// ExistsByEmail checks whether a user with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByNickname checks whether a user with the nickname exists
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
}
