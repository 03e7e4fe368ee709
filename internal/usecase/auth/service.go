package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
	"github.com/meetingoneline/meeting-one-line/pkg/jwt"
)

// Service handles signup, login and token lifecycle
type Service struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.RefreshTokenRepository
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewService creates a new auth service
func NewService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup registers a new user and issues a token pair
func (s *Service) Signup(ctx context.Context, email, password, nickname string) (*TokenPair, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail(email)
	}

	exists, err = s.userRepo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateNickname(nickname)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	user := entities.NewUser(email, string(hashed), nickname)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidLogin()
	}

	return s.issueTokens(ctx, user)
}

// issueTokens creates a token pair and stores the refresh half
func (s *Service) issueTokens(ctx context.Context, user *entities.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	if err := s.tokenRepo.Save(ctx, entities.NewRefreshToken(user.ID, refreshToken)); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh validates a refresh token against its signature and the stored
// copy, then issues a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.ErrUnauthorized("Refresh token cookie is missing")
	}

	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrTokenInvalid(err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return "", apperrors.ErrUserNotFound()
		}
		return "", apperrors.ErrInternal(err)
	}

	stored, err := s.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil || stored.UserID != user.ID {
		if err != nil && !errors.Is(err, entities.ErrRefreshTokenNotFound) {
			return "", apperrors.ErrInternal(err)
		}
		return "", apperrors.ErrUnauthorized("Refresh token is not recognized")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return "", apperrors.ErrInternal(err)
	}
	return accessToken, nil
}

// CheckNickname reports whether a nickname is already taken
func (s *Service) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	exists, err := s.userRepo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, apperrors.ErrInternal(err)
	}
	return exists, nil
}

// Me returns the authenticated user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}
	return user, nil
}

// Logout revokes all of the user's refresh tokens
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return apperrors.ErrUserNotFound()
		}
		return apperrors.ErrInternal(err)
	}
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return apperrors.ErrInternal(err)
	}
	return nil
}
