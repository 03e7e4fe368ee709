package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
)

// Service reads the AI feedback of a meeting
type Service struct {
	meetingRepo  repositories.MeetingRepository
	feedbackRepo repositories.FeedbackRepository
}

// NewService creates a new feedback service
func NewService(meetingRepo repositories.MeetingRepository, feedbackRepo repositories.FeedbackRepository) *Service {
	return &Service{
		meetingRepo:  meetingRepo,
		feedbackRepo: feedbackRepo,
	}
}

// GetByMeeting returns a meeting's feedback. Only the meeting owner may
// read it.
func (s *Service) GetByMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Feedback, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, apperrors.ErrInternal(err)
	}
	if !meeting.IsOwnedBy(userID) {
		return nil, apperrors.ErrAccessDenied()
	}

	feedback, err := s.feedbackRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrFeedbackNotFound) {
			return nil, apperrors.ErrFeedbackNotFound(meetingID.String())
		}
		return nil, apperrors.ErrInternal(err)
	}
	return feedback, nil
}
