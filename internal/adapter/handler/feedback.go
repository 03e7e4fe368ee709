package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	feedbackDTO "github.com/meetingoneline/meeting-one-line/internal/adapter/dto/feedback"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/http/middleware"
	feedbackUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/feedback"
)

// Feedback handles meeting feedback HTTP requests
type Feedback struct {
	feedbackService *feedbackUsecase.Service
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *feedbackUsecase.Service, logger *zap.Logger) *Feedback {
	return &Feedback{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// Get handles GET /api/meetings/:meetingId/feedback
// @Summary      Get meeting feedback
// @Tags         Feedback
// @Produce      json
// @Security     BearerAuth
// @Param        meetingId  path      string  true  "Meeting UUID"
// @Success      200        {object}  feedback.DetailResponse
// @Router       /api/meetings/{meetingId}/feedback [get]
func (h *Feedback) Get(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	feedback, err := h.feedbackService.GetByMeeting(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, feedbackDTO.NewDetailResponse(feedback))
}
