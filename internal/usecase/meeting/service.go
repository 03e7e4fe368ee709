package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/cache"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/database"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/external/aipeer"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/storage"
)

const (
	analysisCutoff         = time.Hour
	analysisStatusCacheTTL = 10 * time.Second
	dispatchFailedSummary  = "AI analysis request failed"
	markFailedTimeout      = 10 * time.Second
)

// Service handles the meeting lifecycle: upload, analysis dispatch, callback
// ingestion, reads, edits and deletion.
type Service struct {
	meetingRepo     repositories.MeetingRepository
	userRepo        repositories.UserRepository
	feedbackRepo    repositories.FeedbackRepository
	aiClient        aipeer.Client
	store           storage.Store
	cache           cache.Store
	tx              database.TxManager
	logger          *zap.Logger
	dispatchTimeout time.Duration
}

// NewService creates a new meeting service
func NewService(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	feedbackRepo repositories.FeedbackRepository,
	aiClient aipeer.Client,
	store storage.Store,
	cacheStore cache.Store,
	tx database.TxManager,
	logger *zap.Logger,
	dispatchTimeout time.Duration,
) *Service {
	return &Service{
		meetingRepo:     meetingRepo,
		userRepo:        userRepo,
		feedbackRepo:    feedbackRepo,
		aiClient:        aiClient,
		store:           store,
		cache:           cacheStore,
		tx:              tx,
		logger:          logger,
		dispatchTimeout: dispatchTimeout,
	}
}

// UploadInput represents input for uploading a meeting recording
type UploadInput struct {
	Title       string
	Date        time.Time
	Filename    string
	File        io.Reader
	Size        int64
	ContentType string
}

// UploadResult reports the created meeting to the caller
type UploadResult struct {
	MeetingID uuid.UUID
	Status    entities.MeetingStatus
}

// Upload stores the recording, persists the meeting and dispatches analysis
// to the AI server. Dispatch runs in the background; its failure flips the
// meeting to FAILED via the error callback. The result always reports the
// UPLOADED state regardless of how far dispatch got.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}

	if input.File == nil || input.Size <= 0 {
		return nil, apperrors.ErrInvalidFile()
	}

	filePath, err := s.store.Save(ctx, user.ID.String(), input.Filename, input.File, input.Size, input.ContentType)
	if err != nil {
		return nil, apperrors.ErrFileUploadFailed(err)
	}

	meeting := entities.NewMeeting(user.ID, input.Title, input.Date, filePath)
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	// PROCESSING must be recorded before dispatch starts: a fast dispatch
	// failure writes FAILED, and that write has to come second.
	if err := s.meetingRepo.UpdateStatus(ctx, meeting.ID, entities.StatusProcessing); err != nil {
		s.logger.Error("failed to mark meeting as processing",
			zap.String("meeting_id", meeting.ID.String()), zap.Error(err))
	}

	s.dispatchAnalysis(user.ID, meeting.ID, filePath, meeting.Title)

	return &UploadResult{MeetingID: meeting.ID, Status: entities.StatusUploaded}, nil
}

// dispatchAnalysis fires the analysis request on a detached context so it
// outlives the upload request. On failure the meeting is marked FAILED.
func (s *Service) dispatchAnalysis(userID, meetingID uuid.UUID, filePath, title string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		err := s.aiClient.RequestAnalysis(ctx, &aipeer.AnalyzeRequest{
			UserID:       userID.String(),
			MeetingID:    meetingID.String(),
			FilePath:     filePath,
			MeetingTitle: title,
		})
		if err != nil {
			s.logger.Error("analysis dispatch failed",
				zap.String("meeting_id", meetingID.String()), zap.Error(err))
			s.markFailed(meetingID)
			return
		}

		s.logger.Info("analysis dispatched", zap.String("meeting_id", meetingID.String()))
	}()
}

// markFailed flips a meeting to FAILED with the dispatch failure summary.
// The dispatch context is usually already expired when this runs (timeouts
// are the common dispatch failure), so the writes get a fresh context.
// The meeting may already be gone; that is not an error here.
func (s *Service) markFailed(meetingID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), markFailedTimeout)
	defer cancel()

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return
	}
	summary := dispatchFailedSummary
	meeting.UpdateStatusAndSummary(entities.StatusFailed, &summary)
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		s.logger.Error("failed to mark meeting as failed",
			zap.String("meeting_id", meetingID.String()), zap.Error(err))
	}
}

// CallbackInput is the analysis result payload delivered by the AI server
type CallbackInput struct {
	Status   string
	Summary  *string
	Keywords []string
	Speakers []CallbackSpeaker
	Feedback *CallbackFeedback
	Raw      json.RawMessage
}

// CallbackSpeaker is one diarized speaker in a callback
type CallbackSpeaker struct {
	SpeakerID string
	Segments  []CallbackSegment
}

// CallbackSegment is one utterance in a callback
type CallbackSegment struct {
	Start float64
	End   float64
	Text  string
}

// CallbackFeedback is the feedback portion of a callback
type CallbackFeedback struct {
	ActionItems        []CallbackActionItem
	Topics             []CallbackTopic
	FollowUpCategories []CallbackFollowUpCategory
}

// CallbackActionItem is one action item in a callback
type CallbackActionItem struct {
	Name       string
	Content    string
	OrderIndex int
}

// CallbackTopic is one topic in a callback
type CallbackTopic struct {
	Title      string
	Importance string
	Summary    string
	Proportion int
}

// CallbackFollowUpCategory is one follow-up category in a callback
type CallbackFollowUpCategory struct {
	Category  string
	Questions []CallbackFollowUpQuestion
}

// CallbackFollowUpQuestion is one follow-up question in a callback
type CallbackFollowUpQuestion struct {
	Question   string
	OrderIndex int
}

// ProcessCallback applies an analysis result to a meeting: status and
// summary are overwritten, keywords and speakers are replaced wholesale and
// feedback, when present, is rebuilt. Everything happens in one transaction
// so a failed callback leaves the previous state intact.
func (s *Service) ProcessCallback(ctx context.Context, meetingID uuid.UUID, input *CallbackInput) error {
	status, ok := entities.ParseMeetingStatus(input.Status)
	if !ok {
		return apperrors.ErrInvalidInput("unknown status: " + input.Status)
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
		if err != nil {
			if errors.Is(err, entities.ErrMeetingNotFound) {
				return apperrors.ErrMeetingNotFound(meetingID.String())
			}
			return err
		}

		s.logger.Info("processing analysis callback",
			zap.String("meeting_id", meetingID.String()),
			zap.String("status", string(status)))

		meeting.UpdateStatusAndSummary(status, input.Summary)
		meeting.RawCallback = []byte(input.Raw)
		if err := s.meetingRepo.Update(ctx, meeting); err != nil {
			return err
		}

		keywords := make([]entities.Keyword, 0, len(input.Keywords))
		for _, kw := range input.Keywords {
			keywords = append(keywords, entities.Keyword{
				ID:        uuid.New(),
				MeetingID: meeting.ID,
				Keyword:   kw,
			})
		}
		if err := s.meetingRepo.ReplaceKeywords(ctx, meeting.ID, keywords); err != nil {
			return err
		}

		speakers := make([]entities.Speaker, 0, len(input.Speakers))
		for _, sp := range input.Speakers {
			speaker := entities.Speaker{
				ID:        uuid.New(),
				MeetingID: meeting.ID,
				Label:     sp.SpeakerID,
			}
			for _, seg := range sp.Segments {
				speaker.Segments = append(speaker.Segments, entities.Segment{
					ID:        uuid.New(),
					SpeakerID: speaker.ID,
					StartTime: seg.Start,
					EndTime:   seg.End,
					Text:      seg.Text,
				})
			}
			speakers = append(speakers, speaker)
		}
		if err := s.meetingRepo.ReplaceSpeakers(ctx, meeting.ID, speakers); err != nil {
			return err
		}

		if input.Feedback != nil {
			if err := s.feedbackRepo.Upsert(ctx, buildFeedback(meeting.ID, input.Feedback)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrInternal(err)
	}

	s.invalidateAnalysisCache(ctx, meetingID)
	return nil
}

// buildFeedback maps a callback feedback payload onto the feedback aggregate
func buildFeedback(meetingID uuid.UUID, in *CallbackFeedback) *entities.Feedback {
	feedback := entities.NewFeedback(meetingID)
	for _, ai := range in.ActionItems {
		feedback.ActionItems = append(feedback.ActionItems, entities.ActionItem{
			ID:         uuid.New(),
			Name:       ai.Name,
			Content:    ai.Content,
			OrderIndex: ai.OrderIndex,
		})
	}
	for _, topic := range in.Topics {
		feedback.Topics = append(feedback.Topics, entities.Topic{
			ID:         uuid.New(),
			Title:      topic.Title,
			Importance: topic.Importance,
			Summary:    topic.Summary,
			Proportion: topic.Proportion,
		})
	}
	for _, cat := range in.FollowUpCategories {
		category := entities.FollowUpCategory{
			ID:       uuid.New(),
			Category: cat.Category,
		}
		for _, q := range cat.Questions {
			category.Questions = append(category.Questions, entities.FollowUpQuestion{
				ID:         uuid.New(),
				CategoryID: category.ID,
				Question:   q.Question,
				OrderIndex: q.OrderIndex,
			})
		}
		feedback.FollowUpCategories = append(feedback.FollowUpCategories, category)
	}
	return feedback
}

// ListInput carries filters for listing a user's meetings
type ListInput struct {
	Page    int
	Size    int
	Keyword string
	Title   string
	Summary string
	Status  string
}

// ListResult is one page of a user's meetings
type ListResult struct {
	Meetings   []*entities.Meeting
	Page       int
	Size       int
	TotalPages int
}

// List returns a page of the user's meetings, newest first. All supplied
// filters apply together; an unknown status filter is ignored.
func (s *Service) List(ctx context.Context, userID uuid.UUID, input ListInput) (*ListResult, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}

	filter := repositories.MeetingSearchFilter{
		Keyword: input.Keyword,
		Title:   input.Title,
		Summary: input.Summary,
		Page:    input.Page,
		Size:    input.Size,
	}
	if input.Status != "" {
		if status, ok := entities.ParseMeetingStatus(input.Status); ok {
			filter.Status = &status
		} else {
			s.logger.Warn("ignoring unknown status filter", zap.String("status", input.Status))
		}
	}

	meetings, total, err := s.meetingRepo.Search(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.Size
	if size < 1 {
		size = 10
	}
	totalPages := int((total + int64(size) - 1) / int64(size))

	return &ListResult{
		Meetings:   meetings,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// SemanticSearch proxies the listing through the AI server's vector store
// and returns its payload unchanged.
func (s *Service) SemanticSearch(ctx context.Context, userID uuid.UUID, input ListInput) (*aipeer.SearchResult, error) {
	result, err := s.aiClient.SearchMeetings(ctx, &aipeer.SearchRequest{
		UserID:  userID.String(),
		Page:    input.Page,
		Size:    input.Size,
		Keyword: input.Keyword,
		Title:   input.Title,
		Summary: input.Summary,
		Status:  input.Status,
	})
	if err != nil {
		var appErr apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.ErrAIServer("", err)
	}
	return result, nil
}

// Detail returns a meeting with its transcript and keywords. Only the owner
// may read it.
func (s *Service) Detail(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}

	meeting, err := s.meetingRepo.FindByIDWithDetails(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, apperrors.ErrInternal(err)
	}
	if !meeting.IsOwnedBy(userID) {
		return nil, apperrors.ErrAccessDenied()
	}
	return meeting, nil
}

// UpdateInput carries the editable fields of a meeting. Nil pointers leave
// the stored value alone; a non-nil empty slice clears the collection.
type UpdateInput struct {
	Title    *string
	Summary  *string
	Keywords *[]string
	Speakers []SpeakerUpdate
}

// SpeakerUpdate edits one existing speaker, matched by its label
type SpeakerUpdate struct {
	SpeakerID string
	Name      *string
	Segments  *[]CallbackSegment
}

// Update edits a meeting's title, summary, keywords and speakers, then
// pushes the new content into the AI server's vector store. The embedding
// upsert runs inside the transaction; its failure rolls the edit back.
func (s *Service) Update(ctx context.Context, userID, meetingID uuid.UUID, input UpdateInput) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return apperrors.ErrUserNotFound()
		}
		return apperrors.ErrInternal(err)
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		meeting, err := s.meetingRepo.FindByIDWithDetails(ctx, meetingID)
		if err != nil {
			if errors.Is(err, entities.ErrMeetingNotFound) {
				return apperrors.ErrMeetingNotFound(meetingID.String())
			}
			return err
		}
		if !meeting.IsOwnedBy(userID) {
			return apperrors.ErrAccessDenied()
		}

		if input.Title != nil && *input.Title != "" {
			meeting.Title = *input.Title
		}
		if input.Summary != nil && *input.Summary != "" {
			meeting.Summary = input.Summary
		}
		if err := s.meetingRepo.Update(ctx, meeting); err != nil {
			return err
		}

		if input.Keywords != nil {
			keywords := make([]entities.Keyword, 0, len(*input.Keywords))
			for _, kw := range *input.Keywords {
				keywords = append(keywords, entities.Keyword{
					ID:        uuid.New(),
					MeetingID: meeting.ID,
					Keyword:   kw,
				})
			}
			if err := s.meetingRepo.ReplaceKeywords(ctx, meeting.ID, keywords); err != nil {
				return err
			}
			meeting.Keywords = keywords
		}

		if len(input.Speakers) > 0 {
			applySpeakerUpdates(meeting, input.Speakers)
			if err := s.meetingRepo.ReplaceSpeakers(ctx, meeting.ID, meeting.Speakers); err != nil {
				return err
			}
		}

		// Push the edited content to the vector store. A peer failure here
		// aborts the transaction so search and database never diverge.
		return s.aiClient.UpsertEmbeddings(ctx, buildUpsertRequest(userID, meeting))
	})
	if err != nil {
		var appErr apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrInternal(err)
	}
	return nil
}

// applySpeakerUpdates merges speaker edits into the loaded aggregate.
// Unknown speaker labels are ignored.
func applySpeakerUpdates(meeting *entities.Meeting, updates []SpeakerUpdate) {
	for _, update := range updates {
		for i := range meeting.Speakers {
			speaker := &meeting.Speakers[i]
			if speaker.Label != update.SpeakerID {
				continue
			}
			if update.Name != nil && *update.Name != "" {
				speaker.Name = update.Name
			}
			if update.Segments != nil {
				segments := make([]entities.Segment, 0, len(*update.Segments))
				for _, seg := range *update.Segments {
					segments = append(segments, entities.Segment{
						ID:        uuid.New(),
						SpeakerID: speaker.ID,
						StartTime: seg.Start,
						EndTime:   seg.End,
						Text:      seg.Text,
					})
				}
				speaker.Segments = segments
			}
			break
		}
	}
}

// buildUpsertRequest shapes a meeting for the embedding upsert endpoint
func buildUpsertRequest(userID uuid.UUID, meeting *entities.Meeting) *aipeer.EmbeddingUpsertRequest {
	summary := ""
	if meeting.Summary != nil {
		summary = *meeting.Summary
	}
	keywords := make([]string, 0, len(meeting.Keywords))
	for _, kw := range meeting.Keywords {
		keywords = append(keywords, kw.Keyword)
	}
	speakers := make([]aipeer.EmbeddingSpeaker, 0, len(meeting.Speakers))
	for i := range meeting.Speakers {
		sp := &meeting.Speakers[i]
		speaker := aipeer.EmbeddingSpeaker{
			SpeakerID: sp.Label,
			Name:      sp.Name,
		}
		for _, seg := range sp.SortedSegments() {
			speaker.Segments = append(speaker.Segments, aipeer.EmbeddingSegment{
				Start: seg.StartTime,
				End:   seg.EndTime,
				Text:  seg.Text,
			})
		}
		speakers = append(speakers, speaker)
	}
	return &aipeer.EmbeddingUpsertRequest{
		UserID:    userID.String(),
		MeetingID: meeting.ID.String(),
		Title:     meeting.Title,
		Summary:   summary,
		Keywords:  keywords,
		Speakers:  speakers,
	}
}

// Delete soft-deletes a meeting and removes it from the AI server's vector
// store. The embedding delete runs inside the transaction so a peer failure
// keeps the meeting alive; the stored recording is unlinked only after the
// transaction commits.
func (s *Service) Delete(ctx context.Context, userID, meetingID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return apperrors.ErrUserNotFound()
		}
		return apperrors.ErrInternal(err)
	}

	var filePath string
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
		if err != nil {
			if errors.Is(err, entities.ErrMeetingNotFound) {
				return apperrors.ErrMeetingNotFound(meetingID.String())
			}
			return err
		}
		if !meeting.IsOwnedBy(userID) {
			return apperrors.ErrAccessDenied()
		}
		filePath = meeting.FilePath

		if err := s.meetingRepo.SoftDelete(ctx, meeting.ID); err != nil {
			return err
		}

		return s.aiClient.DeleteEmbeddings(ctx, userID.String(), meetingID.String())
	})
	if err != nil {
		var appErr apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrInternal(err)
	}

	if filePath != "" {
		if err := s.store.Delete(ctx, filePath); err != nil {
			s.logger.Warn("failed to remove stored recording",
				zap.String("path", filePath), zap.Error(err))
		}
	}
	return nil
}

// UpdateStatus overwrites a meeting's status, optionally with a summary.
// Used by operators and by the analysis error path.
func (s *Service) UpdateStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus, summary *string) error {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return apperrors.ErrInternal(err)
	}

	meeting.UpdateStatusAndSummary(status, summary)
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return apperrors.ErrInternal(err)
	}

	s.logger.Warn("meeting status changed",
		zap.String("meeting_id", meetingID.String()),
		zap.String("status", string(status)))
	return nil
}

// AnalysisStatusEntry is one meeting still awaiting analysis
type AnalysisStatusEntry struct {
	MeetingID uuid.UUID
	Title     string
	Status    entities.MeetingStatus
	CreatedAt time.Time
}

// AnalysisStatus returns the user's meetings from the last hour that are
// neither COMPLETED nor FAILED. Results are cached briefly because clients
// poll this endpoint.
func (s *Service) AnalysisStatus(ctx context.Context, userID uuid.UUID) ([]AnalysisStatusEntry, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrInternal(err)
	}

	cacheKey := analysisCacheKey(userID)
	if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
		var entries []AnalysisStatusEntry
		if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
			return entries, nil
		}
	}

	cutoff := time.Now().Add(-analysisCutoff)
	meetings, err := s.meetingRepo.FindRecentIncomplete(ctx, userID, cutoff)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	entries := make([]AnalysisStatusEntry, 0, len(meetings))
	for _, m := range meetings {
		entries = append(entries, AnalysisStatusEntry{
			MeetingID: m.ID,
			Title:     m.Title,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}

	if payload, jsonErr := json.Marshal(entries); jsonErr == nil {
		if cacheErr := s.cache.Set(ctx, cacheKey, string(payload), analysisStatusCacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache analysis status", zap.Error(cacheErr))
		}
	}
	return entries, nil
}

// invalidateAnalysisCache drops the owner's cached poll result after a
// callback lands so the next poll sees the new state immediately.
func (s *Service) invalidateAnalysisCache(ctx context.Context, meetingID uuid.UUID) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return
	}
	if err := s.cache.Delete(ctx, analysisCacheKey(meeting.UserID)); err != nil {
		s.logger.Warn("failed to invalidate analysis status cache", zap.Error(err))
	}
}

func analysisCacheKey(userID uuid.UUID) string {
	return "analysis_status:" + userID.String()
}
