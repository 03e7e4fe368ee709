package entities

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is the AI-generated review for one completed meeting. There is at
// most one per meeting; its child collections are cleared and rebuilt when a
// callback delivers a new feedback payload.
type Feedback struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`

	ActionItems        []ActionItem       `json:"action_items,omitempty" gorm:"foreignKey:FeedbackID"`
	Topics             []Topic            `json:"topics,omitempty" gorm:"foreignKey:FeedbackID"`
	FollowUpCategories []FollowUpCategory `json:"follow_up_categories,omitempty" gorm:"foreignKey:FeedbackID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Feedback) TableName() string {
	return "feedbacks"
}

// NewFeedback creates an empty feedback aggregate for a meeting
func NewFeedback(meetingID uuid.UUID) *Feedback {
	return &Feedback{
		ID:        uuid.New(),
		MeetingID: meetingID,
	}
}

// ActionItem is one actionable follow-up extracted from the meeting.
// OrderIndex is stored as supplied by the peer, without re-sequencing.
type ActionItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedbackID uuid.UUID `json:"feedback_id" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Content    string    `json:"content" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// Topic is one discussion topic with its share of the meeting
type Topic struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedbackID uuid.UUID `json:"feedback_id" gorm:"type:uuid;not null;index"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Importance string    `json:"importance" gorm:"type:varchar(50)"`
	Summary    string    `json:"summary" gorm:"type:text"`
	Proportion int       `json:"proportion" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Topic) TableName() string {
	return "topics"
}

// FollowUpCategory groups suggested follow-up questions under a label
type FollowUpCategory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FeedbackID uuid.UUID `json:"feedback_id" gorm:"type:uuid;not null;index"`
	Category   string    `json:"category" gorm:"type:varchar(100);not null"`

	Questions []FollowUpQuestion `json:"questions,omitempty" gorm:"foreignKey:CategoryID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FollowUpCategory) TableName() string {
	return "follow_up_categories"
}

// FollowUpQuestion is one suggested question within a category
type FollowUpQuestion struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	Question   string    `json:"question" gorm:"type:text;not null"`
	OrderIndex int       `json:"order_index" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FollowUpQuestion) TableName() string {
	return "follow_up_questions"
}
