package entities

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus is the lifecycle state of an uploaded recording.
//
// Transitions: UPLOADED -> PROCESSING -> {COMPLETED, FAILED}, with a direct
// UPLOADED -> FAILED when the analysis dispatch cannot be started. Callbacks
// overwrite the status unconditionally, so a late callback can still move a
// terminal state.
type MeetingStatus string

const (
	StatusUploaded   MeetingStatus = "UPLOADED"
	StatusProcessing MeetingStatus = "PROCESSING"
	StatusCompleted  MeetingStatus = "COMPLETED"
	StatusFailed     MeetingStatus = "FAILED"
)

// ParseMeetingStatus normalizes a wire status string ("completed") to a
// MeetingStatus and reports whether it is one of the known states.
func ParseMeetingStatus(s string) (MeetingStatus, bool) {
	status := MeetingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed:
		return status, true
	}
	return status, false
}

// Lower returns the wire representation of the status.
func (s MeetingStatus) Lower() string {
	return strings.ToLower(string(s))
}

// Meeting is the aggregate root for one uploaded recording and everything
// the analysis pipeline attaches to it.
type Meeting struct {
	ID       uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID   uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Title    string        `json:"title" gorm:"type:varchar(255);not null"`
	Date     time.Time     `json:"date" gorm:"not null"`
	FilePath string        `json:"file_path" gorm:"type:varchar(500);not null"`
	Status   MeetingStatus `json:"status" gorm:"type:varchar(20);not null"`
	Summary  *string       `json:"summary,omitempty" gorm:"type:text"`

	// RawCallback keeps the last AI callback payload verbatim for debugging.
	RawCallback datatypes.JSON `json:"-" gorm:"type:jsonb"`

	Speakers []Speaker `json:"speakers,omitempty" gorm:"foreignKey:MeetingID"`
	Keywords []Keyword `json:"keywords,omitempty" gorm:"foreignKey:MeetingID"`

	DeletedAt *time.Time `json:"-" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting in the UPLOADED state
func NewMeeting(userID uuid.UUID, title string, date time.Time, filePath string) *Meeting {
	return &Meeting{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Date:     date,
		FilePath: filePath,
		Status:   StatusUploaded,
	}
}

// UpdateStatusAndSummary overwrites status and summary. A nil summary clears
// the stored one; callbacks apply their status without transition checks.
func (m *Meeting) UpdateStatusAndSummary(status MeetingStatus, summary *string) {
	m.Status = status
	m.Summary = summary
}

// SoftDelete marks the meeting deleted without removing the row
func (m *Meeting) SoftDelete() {
	now := time.Now()
	m.DeletedAt = &now
}

// IsDeleted reports whether the meeting is soft-deleted
func (m *Meeting) IsDeleted() bool {
	return m.DeletedAt != nil
}

// IsOwnedBy reports whether the meeting belongs to the given user
func (m *Meeting) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}

// Speaker is one diarized voice within a meeting, labelled by the analysis
// peer (e.g. "S1"). Speakers are replaced wholesale on every callback.
type Speaker struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Label     string    `json:"speaker_id" gorm:"type:varchar(50);not null"`
	Name      *string   `json:"name,omitempty" gorm:"type:varchar(100)"`

	Segments []Segment `json:"segments,omitempty" gorm:"foreignKey:SpeakerID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Speaker) TableName() string {
	return "speakers"
}

// SortedSegments returns the speaker's segments ordered by ascending start
// time. Segments are stored as delivered; ordering is a read-time concern.
func (s *Speaker) SortedSegments() []Segment {
	out := make([]Segment, len(s.Segments))
	copy(out, s.Segments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Segment is a contiguous utterance of one speaker
type Segment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SpeakerID uuid.UUID `json:"speaker_id" gorm:"type:uuid;not null;index"`
	StartTime float64   `json:"start" gorm:"not null"`
	EndTime   float64   `json:"end" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Segment) TableName() string {
	return "segments"
}

// Keyword is a plain tag attached to a meeting by the analysis peer
type Keyword struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Keyword   string    `json:"keyword" gorm:"type:varchar(100);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Keyword) TableName() string {
	return "keywords"
}
