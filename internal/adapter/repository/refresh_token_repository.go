package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/database"
)

// refreshTokenRepository implements the RefreshTokenRepository interface
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) repositories.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

// Save stores an issued refresh token
func (r *refreshTokenRepository) Save(ctx context.Context, token *entities.RefreshToken) error {
	return r.conn(ctx).Create(token).Error
}

// FindByToken retrieves a stored refresh token by its value
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*entities.RefreshToken, error) {
	var rt entities.RefreshToken
	err := r.conn(ctx).
		Where("token = ?", token).
		First(&rt).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// DeleteByUserID removes all refresh tokens of a user
func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.conn(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.RefreshToken{}).Error
}
