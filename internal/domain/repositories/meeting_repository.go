package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
)

// MeetingSearchFilter carries the optional conjunctive filters for listing
// meetings. Keyword matches title or summary; Title and Summary each match
// their own column. All text matches are case-insensitive substring matches.
type MeetingSearchFilter struct {
	Keyword string
	Title   string
	Summary string
	Status  *entities.MeetingStatus

	Page int // 1-based
	Size int
}

// MeetingRepository defines the interface for meeting data access.
// All lookups exclude soft-deleted rows.
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by ID without its child collections
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDWithDetails retrieves a meeting with speakers, segments and keywords
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// Search retrieves a page of a user's meetings matching the filter,
	// newest first, along with the total match count
	Search(ctx context.Context, userID uuid.UUID, filter MeetingSearchFilter) ([]*entities.Meeting, int64, error)

	// Update persists changes to an existing meeting
	Update(ctx context.Context, meeting *entities.Meeting) error

	// UpdateStatus updates only the status column
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error

	// SoftDelete marks a meeting as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ReplaceSpeakers deletes a meeting's speakers (and their segments) and
	// inserts the given set
	ReplaceSpeakers(ctx context.Context, meetingID uuid.UUID, speakers []entities.Speaker) error

	// ReplaceKeywords deletes a meeting's keywords and inserts the given set
	ReplaceKeywords(ctx context.Context, meetingID uuid.UUID, keywords []entities.Keyword) error

	// FindRecentIncomplete retrieves the user's meetings created after the
	// cutoff that are still awaiting analysis (not COMPLETED or FAILED)
	FindRecentIncomplete(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*entities.Meeting, error)
}
