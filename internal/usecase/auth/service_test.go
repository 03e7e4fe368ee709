package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	for _, u := range r.users {
		if u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

type fakeTokenRepo struct {
	tokens map[string]*entities.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entities.RefreshToken)}
}

func (r *fakeTokenRepo) Save(_ context.Context, t *entities.RefreshToken) error {
	r.tokens[t.Token] = t
	return nil
}

func (r *fakeTokenRepo) FindByToken(_ context.Context, token string) (*entities.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, entities.ErrRefreshTokenNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	for token, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	manager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(users, tokens, manager, zap.NewNop()), users, tokens
}

func registerUser(t *testing.T, users *fakeUserRepo, email, password, nickname string) *entities.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := entities.NewUser(email, string(hashed), nickname)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestSignup_IssuesTokenPairAndStoresRefreshToken(t *testing.T) {
	service, _, tokens := newTestService()

	pair, err := service.Signup(context.Background(), "new@test.local", "password123", "newbie")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = tokens.FindByToken(context.Background(), pair.RefreshToken)
	assert.NoError(t, err, "refresh token should be persisted")
}

func TestSignup_HashesPassword(t *testing.T) {
	service, users, _ := newTestService()

	_, err := service.Signup(context.Background(), "new@test.local", "password123", "newbie")
	require.NoError(t, err)

	user, err := users.FindByEmail(context.Background(), "new@test.local")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "taken@test.local", "password123", "existing")

	_, err := service.Signup(context.Background(), "taken@test.local", "password123", "newbie")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_DUPLICATE_EMAIL, appErr.Code)
}

func TestSignup_RejectsDuplicateNickname(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "existing@test.local", "password123", "taken")

	_, err := service.Signup(context.Background(), "new@test.local", "password123", "taken")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_DUPLICATE_NICKNAME, appErr.Code)
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "user@test.local", "password123", "user")

	pair, err := service.Login(context.Background(), "user@test.local", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "user@test.local", "password123", "user")

	_, err := service.Login(context.Background(), "user@test.local", "wrong-password")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_INVALID_LOGIN, appErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), "nobody@test.local", "password123")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_USER_NOT_FOUND, appErr.Code)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "user@test.local", "password123", "user")

	pair, err := service.Login(context.Background(), "user@test.local", "password123")
	require.NoError(t, err)

	accessToken, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefresh_EmptyToken(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Refresh(context.Background(), "")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_UNAUTHORIZED, appErr.Code)
}

func TestRefresh_RejectsRevokedToken(t *testing.T) {
	service, users, tokens := newTestService()
	user := registerUser(t, users, "user@test.local", "password123", "user")

	pair, err := service.Login(context.Background(), "user@test.local", "password123")
	require.NoError(t, err)

	// Logout deletes the stored copy; a well-signed token must still fail.
	require.NoError(t, tokens.DeleteByUserID(context.Background(), user.ID))

	_, err = service.Refresh(context.Background(), pair.RefreshToken)

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_UNAUTHORIZED, appErr.Code)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Refresh(context.Background(), "not-a-jwt")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_TOKEN_INVALID, appErr.Code)
}

func TestCheckNickname(t *testing.T) {
	service, users, _ := newTestService()
	registerUser(t, users, "user@test.local", "password123", "taken")

	exists, err := service.CheckNickname(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.CheckNickname(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogout_RevokesAllUserTokens(t *testing.T) {
	service, users, tokens := newTestService()
	user := registerUser(t, users, "user@test.local", "password123", "user")

	first, err := service.Login(context.Background(), "user@test.local", "password123")
	require.NoError(t, err)
	second, err := service.Login(context.Background(), "user@test.local", "password123")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), user.ID))

	_, err = tokens.FindByToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrRefreshTokenNotFound)
	_, err = tokens.FindByToken(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrRefreshTokenNotFound)
}

func TestMe_ReturnsProfile(t *testing.T) {
	service, users, _ := newTestService()
	user := registerUser(t, users, "user@test.local", "password123", "user")

	got, err := service.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Nickname, got.Nickname)
}
