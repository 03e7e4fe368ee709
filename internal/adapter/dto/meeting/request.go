package meeting

import "encoding/json"

// AiCallbackRequest is the analysis result payload posted by the AI server
type AiCallbackRequest struct {
	Status   string            `json:"status" validate:"required"`
	Summary  *string           `json:"summary"`
	Keywords []string          `json:"keywords"`
	Speakers []CallbackSpeaker `json:"speakers"`
	Feedback *CallbackFeedback `json:"feedback"`
}

// CallbackSpeaker is one diarized speaker in a callback payload
type CallbackSpeaker struct {
	SpeakerID string            `json:"speakerId"`
	Segments  []CallbackSegment `json:"segments"`
}

// CallbackSegment is one utterance in a callback payload
type CallbackSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// CallbackFeedback is the feedback portion of a callback payload
type CallbackFeedback struct {
	ActionItems        []CallbackActionItem       `json:"actionItems"`
	Topics             []CallbackTopic            `json:"topics"`
	FollowUpCategories []CallbackFollowUpCategory `json:"followUpCategories"`
}

// CallbackActionItem is one action item in a callback payload
type CallbackActionItem struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	OrderIndex int    `json:"orderIndex"`
}

// CallbackTopic is one topic in a callback payload
type CallbackTopic struct {
	Title      string `json:"title"`
	Importance string `json:"importance"`
	Summary    string `json:"summary"`
	Proportion int    `json:"proportion"`
}

// CallbackFollowUpCategory is one follow-up category in a callback payload
type CallbackFollowUpCategory struct {
	Category  string                     `json:"category"`
	Questions []CallbackFollowUpQuestion `json:"questions"`
}

// CallbackFollowUpQuestion is one suggested question in a callback payload
type CallbackFollowUpQuestion struct {
	Question   string `json:"question"`
	OrderIndex int    `json:"orderIndex"`
}

// UpdateRequest edits a meeting. Omitted fields are left unchanged; an
// empty keywords array clears the keywords.
type UpdateRequest struct {
	Title    *string         `json:"title"`
	Summary  *string         `json:"summary"`
	Keywords *[]string       `json:"keywords"`
	Speakers []SpeakerUpdate `json:"speakers"`
}

// SpeakerUpdate edits one speaker, matched by its label
type SpeakerUpdate struct {
	SpeakerID string             `json:"speakerId" validate:"required"`
	Name      *string            `json:"name"`
	Segments  *[]CallbackSegment `json:"segments"`
}

// UpdateStatusRequest overwrites a meeting's analysis status
type UpdateStatusRequest struct {
	Status  string  `json:"status" validate:"required"`
	Summary *string `json:"summary"`
}

// RawCallback re-serializes the callback for audit storage
func (r *AiCallbackRequest) RawCallback() json.RawMessage {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return raw
}
