package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/http/middleware"
	"github.com/meetingoneline/meeting-one-line/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	authMiddleware  *middleware.AuthMiddleware
	authHandler     *Auth
	meetingHandler  *Meeting
	feedbackHandler *Feedback
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *Auth,
	meetingHandler *Meeting,
	feedbackHandler *Feedback,
) *Router {
	return &Router{
		cfg:             cfg,
		authMiddleware:  authMiddleware,
		authHandler:     authHandler,
		meetingHandler:  meetingHandler,
		feedbackHandler: feedbackHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")

	rt.setupAuthRoutes(api)
	rt.setupMeetingRoutes(api)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/signup", rt.authHandler.Signup)
	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.GET("/check-nickname", rt.authHandler.CheckNickname)
	authGroup.GET("/me", rt.authHandler.Me, rt.authMiddleware.Authenticate)
	authGroup.POST("/logout", rt.authHandler.Logout, rt.authMiddleware.Authenticate)
}

// setupMeetingRoutes configures meeting and feedback routes. The analysis
// callback stays outside the auth group because the AI server calls it
// without a user token.
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	g.POST("/meetings/:meetingId/callback", rt.meetingHandler.Callback)

	meetings := g.Group("/meetings", rt.authMiddleware.Authenticate)
	meetings.POST("", rt.meetingHandler.Upload)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/search", rt.meetingHandler.Search)
	meetings.GET("/analysis/status", rt.meetingHandler.AnalysisStatus)
	meetings.GET("/:meetingId", rt.meetingHandler.Detail)
	meetings.PUT("/:meetingId", rt.meetingHandler.Update)
	meetings.DELETE("/:meetingId", rt.meetingHandler.Delete)
	meetings.PATCH("/:meetingId/status", rt.meetingHandler.UpdateStatus)
	meetings.GET("/:meetingId/feedback", rt.feedbackHandler.Get)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
