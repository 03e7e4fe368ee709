package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	"github.com/meetingoneline/meeting-one-line/internal/domain/repositories"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/database"
)

// feedbackRepository implements the FeedbackRepository interface
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) repositories.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db).WithContext(ctx)
}

// Upsert creates the feedback row for a meeting if absent and replaces its
// child collections wholesale. Callers run this inside a transaction so a
// partial replace never becomes visible.
func (r *feedbackRepository) Upsert(ctx context.Context, feedback *entities.Feedback) error {
	conn := r.conn(ctx)

	var existing entities.Feedback
	err := conn.
		Where("meeting_id = ?", feedback.MeetingID).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if feedback.ID == uuid.Nil {
			feedback.ID = uuid.New()
		}
	case err != nil:
		return err
	default:
		feedback.ID = existing.ID
		feedback.CreatedAt = existing.CreatedAt
		if err := r.deleteChildren(conn, existing.ID); err != nil {
			return err
		}
	}

	for i := range feedback.ActionItems {
		feedback.ActionItems[i].FeedbackID = feedback.ID
	}
	for i := range feedback.Topics {
		feedback.Topics[i].FeedbackID = feedback.ID
	}
	for i := range feedback.FollowUpCategories {
		feedback.FollowUpCategories[i].FeedbackID = feedback.ID
	}

	return conn.Save(feedback).Error
}

// deleteChildren clears all child rows of a feedback. Questions go with
// their categories via ON DELETE CASCADE.
func (r *feedbackRepository) deleteChildren(conn *gorm.DB, feedbackID uuid.UUID) error {
	if err := conn.Where("feedback_id = ?", feedbackID).Delete(&entities.ActionItem{}).Error; err != nil {
		return err
	}
	if err := conn.Where("feedback_id = ?", feedbackID).Delete(&entities.Topic{}).Error; err != nil {
		return err
	}
	return conn.Where("feedback_id = ?", feedbackID).Delete(&entities.FollowUpCategory{}).Error
}

// FindByMeetingID retrieves a meeting's feedback with all child collections
func (r *feedbackRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Feedback, error) {
	var feedback entities.Feedback
	err := r.conn(ctx).
		Preload("ActionItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("action_items.order_index ASC")
		}).
		Preload("Topics").
		Preload("FollowUpCategories").
		Preload("FollowUpCategories.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("follow_up_questions.order_index ASC")
		}).
		Where("meeting_id = ?", meetingID).
		First(&feedback).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}
