package feedback

import (
	"github.com/google/uuid"

	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
)

// DetailResponse is a meeting's full feedback
type DetailResponse struct {
	MeetingID          uuid.UUID          `json:"meetingId"`
	ActionItems        []ActionItem       `json:"actionItems"`
	Topics             []Topic            `json:"topics"`
	FollowUpCategories []FollowUpCategory `json:"followUpCategories"`
}

// ActionItem is one actionable follow-up
type ActionItem struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	OrderIndex int    `json:"orderIndex"`
}

// Topic is one discussion topic
type Topic struct {
	Title      string `json:"title"`
	Importance string `json:"importance"`
	Summary    string `json:"summary"`
	Proportion int    `json:"proportion"`
}

// FollowUpCategory groups suggested questions under a label
type FollowUpCategory struct {
	Category  string     `json:"category"`
	Questions []Question `json:"questions"`
}

// Question is one suggested follow-up question
type Question struct {
	Question   string `json:"question"`
	OrderIndex int    `json:"orderIndex"`
}

// NewDetailResponse shapes a feedback aggregate for the wire
func NewDetailResponse(f *entities.Feedback) DetailResponse {
	actionItems := make([]ActionItem, 0, len(f.ActionItems))
	for _, ai := range f.ActionItems {
		actionItems = append(actionItems, ActionItem{
			Name:       ai.Name,
			Content:    ai.Content,
			OrderIndex: ai.OrderIndex,
		})
	}

	topics := make([]Topic, 0, len(f.Topics))
	for _, t := range f.Topics {
		topics = append(topics, Topic{
			Title:      t.Title,
			Importance: t.Importance,
			Summary:    t.Summary,
			Proportion: t.Proportion,
		})
	}

	categories := make([]FollowUpCategory, 0, len(f.FollowUpCategories))
	for _, cat := range f.FollowUpCategories {
		questions := make([]Question, 0, len(cat.Questions))
		for _, q := range cat.Questions {
			questions = append(questions, Question{
				Question:   q.Question,
				OrderIndex: q.OrderIndex,
			})
		}
		categories = append(categories, FollowUpCategory{
			Category:  cat.Category,
			Questions: questions,
		})
	}

	return DetailResponse{
		MeetingID:          f.MeetingID,
		ActionItems:        actionItems,
		Topics:             topics,
		FollowUpCategories: categories,
	}
}
