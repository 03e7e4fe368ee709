package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
)

// FeedbackRepository defines the interface for meeting feedback data access
type FeedbackRepository interface {
	// Upsert creates the feedback row for a meeting if absent and replaces
	// its action items, topics and follow-up categories wholesale
	Upsert(ctx context.Context, feedback *entities.Feedback) error

	// FindByMeetingID retrieves a meeting's feedback with all child collections
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Feedback, error)
}
