package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/database"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// conn resolves the handle, joining the context's transaction when present
func (r *meetingRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.conn(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID without its child collections
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.conn(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&meeting).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByIDWithDetails retrieves a meeting with speakers, segments and keywords
func (r *meetingRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.conn(ctx).
		Preload("Speakers").
		Preload("Speakers.Segments").
		Preload("Keywords").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&meeting).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// Search retrieves a page of a user's meetings matching the filter
func (r *meetingRepository) Search(ctx context.Context, userID uuid.UUID, filter repositories.MeetingSearchFilter) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.conn(ctx).
		Model(&entities.Meeting{}).
		Where("user_id = ? AND deleted_at IS NULL", userID)

	// Apply filters; all are conjunctive
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("title ILIKE ? OR summary ILIKE ?", pattern, pattern)
	}
	if filter.Title != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Summary != "" {
		query = query.Where("summary ILIKE ?", "%"+filter.Summary+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 {
		size = 10
	}

	err := query.
		Preload("Keywords").
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

// Update persists changes to an existing meeting
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	return r.conn(ctx).
		Omit("Speakers", "Keywords").
		Save(meeting).Error
}

// UpdateStatus updates only the status column
func (r *meetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	result := r.conn(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrMeetingNotFound
	}
	return nil
}

// SoftDelete marks a meeting as deleted
func (r *meetingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrMeetingNotFound
	}
	return nil
}

// ReplaceSpeakers deletes a meeting's speakers and inserts the given set.
// Segments go with their speakers via ON DELETE CASCADE.
func (r *meetingRepository) ReplaceSpeakers(ctx context.Context, meetingID uuid.UUID, speakers []entities.Speaker) error {
	conn := r.conn(ctx)

	if err := conn.
		Where("meeting_id = ?", meetingID).
		Delete(&entities.Speaker{}).Error; err != nil {
		return err
	}
	if len(speakers) == 0 {
		return nil
	}
	return conn.Create(&speakers).Error
}

// ReplaceKeywords deletes a meeting's keywords and inserts the given set
func (r *meetingRepository) ReplaceKeywords(ctx context.Context, meetingID uuid.UUID, keywords []entities.Keyword) error {
	conn := r.conn(ctx)

	if err := conn.
		Where("meeting_id = ?", meetingID).
		Delete(&entities.Keyword{}).Error; err != nil {
		return err
	}
	if len(keywords) == 0 {
		return nil
	}
	return conn.Create(&keywords).Error
}

// FindRecentIncomplete retrieves the user's meetings created after the cutoff
// that are still awaiting analysis
func (r *meetingRepository) FindRecentIncomplete(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.conn(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Where("created_at >= ?", cutoff).
		Where("status NOT IN ?", []entities.MeetingStatus{entities.StatusCompleted, entities.StatusFailed}).
		Order("created_at DESC").
		Find(&meetings).Error
	return meetings, err
}
