package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	meetingDTO "github.com/meetingoneline/meeting-one-line/internal/adapter/dto/meeting"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/http/middleware"
	meetingUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/meeting"
)

// Meeting handles meeting HTTP requests
type Meeting struct {
	meetingService *meetingUsecase.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService *meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// Upload handles POST /api/meetings
// @Summary      Upload a meeting recording
// @Description  Stores the audio file, creates the meeting and dispatches analysis
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title  formData  string  true  "Meeting title"
// @Param        date   formData  string  true  "Meeting datetime (RFC 3339)"
// @Param        file   formData  file    true  "Audio file (wav/mp3)"
// @Success      201    {object}  meeting.CreateResponse
// @Router       /api/meetings [post]
func (h *Meeting) Upload(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	title := c.FormValue("title")
	if title == "" {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("title is required"))
	}

	date, err := time.Parse(time.RFC3339, c.FormValue("date"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("date must be RFC 3339"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidFile())
	}
	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidFile())
	}
	defer file.Close()

	result, err := h.meetingService.Upload(c.Request().Context(), userID, meetingUsecase.UploadInput{
		Title:       title,
		Date:        date,
		Filename:    fileHeader.Filename,
		File:        file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, meetingDTO.CreateResponse{
		MeetingID: result.MeetingID,
		Status:    result.Status.Lower(),
		Message:   "file uploaded and analysis requested",
	})
}

// Callback handles POST /api/meetings/:meetingId/callback. The route is not
// behind user auth; the AI server calls it directly.
func (h *Meeting) Callback(c echo.Context) error {
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDTO.AiCallbackRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput(err.Error()))
	}

	input := &meetingUsecase.CallbackInput{
		Status:   req.Status,
		Summary:  req.Summary,
		Keywords: req.Keywords,
		Raw:      req.RawCallback(),
	}
	for _, sp := range req.Speakers {
		speaker := meetingUsecase.CallbackSpeaker{SpeakerID: sp.SpeakerID}
		for _, seg := range sp.Segments {
			speaker.Segments = append(speaker.Segments, meetingUsecase.CallbackSegment{
				Start: seg.Start,
				End:   seg.End,
				Text:  seg.Text,
			})
		}
		input.Speakers = append(input.Speakers, speaker)
	}
	if req.Feedback != nil {
		input.Feedback = toCallbackFeedback(req.Feedback)
	}

	if err := h.meetingService.ProcessCallback(c.Request().Context(), meetingID, input); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.CommonMessage{
		Message: "meeting analysis and feedback stored",
	})
}

// toCallbackFeedback maps the wire feedback onto the usecase input
func toCallbackFeedback(in *meetingDTO.CallbackFeedback) *meetingUsecase.CallbackFeedback {
	out := &meetingUsecase.CallbackFeedback{}
	for _, ai := range in.ActionItems {
		out.ActionItems = append(out.ActionItems, meetingUsecase.CallbackActionItem{
			Name:       ai.Name,
			Content:    ai.Content,
			OrderIndex: ai.OrderIndex,
		})
	}
	for _, topic := range in.Topics {
		out.Topics = append(out.Topics, meetingUsecase.CallbackTopic{
			Title:      topic.Title,
			Importance: topic.Importance,
			Summary:    topic.Summary,
			Proportion: topic.Proportion,
		})
	}
	for _, cat := range in.FollowUpCategories {
		category := meetingUsecase.CallbackFollowUpCategory{Category: cat.Category}
		for _, q := range cat.Questions {
			category.Questions = append(category.Questions, meetingUsecase.CallbackFollowUpQuestion{
				Question:   q.Question,
				OrderIndex: q.OrderIndex,
			})
		}
		out.FollowUpCategories = append(out.FollowUpCategories, category)
	}
	return out
}

// List handles GET /api/meetings
// @Summary      List meetings
// @Description  Pages through the user's meetings, newest first, with optional filters
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        page     query  int     false  "1-based page"
// @Param        size     query  int     false  "page size"
// @Param        keyword  query  string  false  "matches title or summary"
// @Param        title    query  string  false  "matches title"
// @Param        summary  query  string  false  "matches summary"
// @Param        status   query  string  false  "uploaded|processing|completed|failed"
// @Success      200      {object}  meeting.ListResponse
// @Router       /api/meetings [get]
func (h *Meeting) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	result, err := h.meetingService.List(c.Request().Context(), userID, listInputFromQuery(c))
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.NewListResponse(result))
}

// Search handles GET /api/meetings/search. The query is answered by the AI
// server's vector store and proxied unchanged.
func (h *Meeting) Search(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	result, err := h.meetingService.SemanticSearch(c.Request().Context(), userID, listInputFromQuery(c))
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AnalysisStatus handles GET /api/meetings/analysis/status
func (h *Meeting) AnalysisStatus(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}

	entries, err := h.meetingService.AnalysisStatus(c.Request().Context(), userID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.NewAnalysisStatusResponse(entries))
}

// Detail handles GET /api/meetings/:meetingId
func (h *Meeting) Detail(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meeting, err := h.meetingService.Detail(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.NewDetailResponse(meeting))
}

// Update handles PUT /api/meetings/:meetingId. Only the supplied fields
// change; absent ones keep their stored values.
func (h *Meeting) Update(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDTO.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("malformed request body"))
	}

	input := meetingUsecase.UpdateInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Keywords: req.Keywords,
	}
	for _, sp := range req.Speakers {
		update := meetingUsecase.SpeakerUpdate{
			SpeakerID: sp.SpeakerID,
			Name:      sp.Name,
		}
		if sp.Segments != nil {
			segments := make([]meetingUsecase.CallbackSegment, 0, len(*sp.Segments))
			for _, seg := range *sp.Segments {
				segments = append(segments, meetingUsecase.CallbackSegment{
					Start: seg.Start,
					End:   seg.End,
					Text:  seg.Text,
				})
			}
			update.Segments = &segments
		}
		input.Speakers = append(input.Speakers, update)
	}

	if err := h.meetingService.Update(c.Request().Context(), userID, meetingID, input); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.CommonMessage{Message: "meeting updated"})
}

// Delete handles DELETE /api/meetings/:meetingId
func (h *Meeting) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	if err := h.meetingService.Delete(c.Request().Context(), userID, meetingID); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.CommonMessage{Message: "meeting deleted"})
}

// UpdateStatus handles PATCH /api/meetings/:meetingId/status
func (h *Meeting) UpdateStatus(c echo.Context) error {
	if _, ok := middleware.UserIDFromContext(c); !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthorized("user not authenticated"))
	}
	meetingID, err := parseMeetingID(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	var req meetingDTO.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput(err.Error()))
	}

	status, ok := entities.ParseMeetingStatus(req.Status)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrInvalidInput("unknown status: "+req.Status))
	}

	if err := h.meetingService.UpdateStatus(c.Request().Context(), meetingID, status, req.Summary); err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, meetingDTO.CommonMessage{Message: "meeting status updated"})
}

// listInputFromQuery reads paging and filter query parameters
func listInputFromQuery(c echo.Context) meetingUsecase.ListInput {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return meetingUsecase.ListInput{
		Page:    page,
		Size:    size,
		Keyword: c.QueryParam("keyword"),
		Title:   c.QueryParam("title"),
		Summary: c.QueryParam("summary"),
		Status:  c.QueryParam("status"),
	}
}

// parseMeetingID reads the :meetingId path parameter
func parseMeetingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("meetingId"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidInput("meetingId must be a UUID")
	}
	return id, nil
}
