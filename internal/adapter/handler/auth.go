package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	authDTO "github.com/meetingoneline/meeting-one-line/internal/adapter/dto/auth"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/http/middleware"
	authUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/auth"
)

const refreshCookieName = "refreshToken"

// Auth handles authentication HTTP requests
type Auth struct {
	authService   *authUsecase.Service
	refreshExpiry time.Duration
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *authUsecase.Service, refreshExpiry time.Duration, logger *zap.Logger) *Auth {
	return &Auth{
		authService:   authService,
		refreshExpiry: refreshExpiry,
		logger:        logger,
	}
}

// Signup handles POST /api/auth/signup
// @Summary      Register a new account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.SignupRequest  true  "Signup request"
// @Success      201      {object}  auth.TokenResponse
// @Router       /api/auth/signup [post]
func (h *Auth) Signup(c echo.Context) error {
	var req authDTO.SignupRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput(err.Error()))
	}

	tokens, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(http.StatusCreated, authDTO.TokenResponse{AccessToken: tokens.AccessToken})
}

// Login handles POST /api/auth/login
// @Summary      Authenticate with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.LoginRequest  true  "Login request"
// @Success      200      {object}  auth.TokenResponse
// @Router       /api/auth/login [post]
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput(err.Error()))
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(http.StatusOK, authDTO.TokenResponse{AccessToken: tokens.AccessToken})
}

// Refresh handles POST /api/auth/refresh. The refresh token is read from
// the HttpOnly cookie set at login.
func (h *Auth) Refresh(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, authDTO.TokenResponse{AccessToken: accessToken})
}

// CheckNickname handles GET /api/auth/check-nickname?nickname=
func (h *Auth) CheckNickname(c echo.Context) error {
	nickname := c.QueryParam("nickname")
	if nickname == "" {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("nickname query parameter is required"))
	}

	exists, err := h.authService.CheckNickname(c.Request().Context(), nickname)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, authDTO.NicknameDuplicateResponse{IsDuplicate: exists})
}

// Me handles GET /api/auth/me
func (h *Auth) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, authDTO.UserInfoResponse{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	})
}

// Logout handles POST /api/auth/logout. All refresh tokens of the user are
// revoked and the cookie is cleared.
func (h *Auth) Logout(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return HandleError(c, h.logger, err)
	}

	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie
func (h *Auth) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the refresh token cookie
func (h *Auth) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
