package meeting

import (
	"time"

	"github.com/google/uuid"

	"github.com/meetingoneline/meeting-one-line/internal/domain/entities"
	meetingUC "github.com/meetingoneline/meeting-one-line/internal/usecase/meeting"
)

// CreateResponse confirms an upload and the dispatched analysis
type CreateResponse struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}

// CommonMessage is a plain confirmation message
type CommonMessage struct {
	Message string `json:"message"`
}

// ListItem is one meeting in a list response
type ListItem struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Summary   *string   `json:"summary"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse is one page of meetings
type ListResponse struct {
	Content    []ListItem `json:"content"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"totalPages"`
}

// NewListResponse shapes a list result for the wire
func NewListResponse(result *meetingUC.ListResult) ListResponse {
	items := make([]ListItem, 0, len(result.Meetings))
	for _, m := range result.Meetings {
		items = append(items, ListItem{
			MeetingID: m.ID,
			Title:     m.Title,
			Status:    m.Status.Lower(),
			Summary:   m.Summary,
			Keywords:  keywordStrings(m.Keywords),
			CreatedAt: m.CreatedAt,
		})
	}
	return ListResponse{
		Content:    items,
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages,
	}
}

// DetailResponse is the full view of one meeting
type DetailResponse struct {
	MeetingID uuid.UUID       `json:"meetingId"`
	Title     string          `json:"title"`
	Date      time.Time       `json:"date"`
	Status    string          `json:"status"`
	Summary   *string         `json:"summary"`
	Keywords  []string        `json:"keywords"`
	Speakers  []DetailSpeaker `json:"speakers"`
	FilePath  string          `json:"filePath"`
}

// DetailSpeaker is one speaker with its ordered utterances
type DetailSpeaker struct {
	SpeakerID string          `json:"speakerId"`
	Name      *string         `json:"name"`
	Segments  []DetailSegment `json:"segments"`
}

// DetailSegment is one utterance in a detail response
type DetailSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// NewDetailResponse shapes a meeting aggregate for the wire. Segments are
// returned in ascending start-time order.
func NewDetailResponse(m *entities.Meeting) DetailResponse {
	speakers := make([]DetailSpeaker, 0, len(m.Speakers))
	for i := range m.Speakers {
		sp := &m.Speakers[i]
		segments := make([]DetailSegment, 0, len(sp.Segments))
		for _, seg := range sp.SortedSegments() {
			segments = append(segments, DetailSegment{
				Start: seg.StartTime,
				End:   seg.EndTime,
				Text:  seg.Text,
			})
		}
		speakers = append(speakers, DetailSpeaker{
			SpeakerID: sp.Label,
			Name:      sp.Name,
			Segments:  segments,
		})
	}

	return DetailResponse{
		MeetingID: m.ID,
		Title:     m.Title,
		Date:      m.Date,
		Status:    m.Status.Lower(),
		Summary:   m.Summary,
		Keywords:  keywordStrings(m.Keywords),
		Speakers:  speakers,
		FilePath:  m.FilePath,
	}
}

// AnalysisStatusItem is one meeting still awaiting analysis
type AnalysisStatusItem struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnalysisStatusResponse lists the meetings still awaiting analysis
type AnalysisStatusResponse struct {
	CompletedMeetings []AnalysisStatusItem `json:"completedMeetings"`
}

// NewAnalysisStatusResponse shapes poll entries for the wire
func NewAnalysisStatusResponse(entries []meetingUC.AnalysisStatusEntry) AnalysisStatusResponse {
	items := make([]AnalysisStatusItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, AnalysisStatusItem{
			MeetingID: e.MeetingID,
			Title:     e.Title,
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt,
		})
	}
	return AnalysisStatusResponse{CompletedMeetings: items}
}

func keywordStrings(keywords []entities.Keyword) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, kw.Keyword)
	}
	return out
}
