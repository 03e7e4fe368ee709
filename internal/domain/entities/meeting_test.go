package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseMeetingStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MeetingStatus
		ok   bool
	}{
		{"completed", StatusCompleted, true},
		{"COMPLETED", StatusCompleted, true},
		{" processing ", StatusProcessing, true},
		{"uploaded", StatusUploaded, true},
		{"failed", StatusFailed, true},
		{"almost-done", "ALMOST-DONE", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMeetingStatus(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestNewMeetingStartsUploaded(t *testing.T) {
	userID := uuid.New()
	m := NewMeeting(userID, "Weekly sync", time.Now(), "/uploads/a.mp3")

	assert.Equal(t, StatusUploaded, m.Status)
	assert.True(t, m.IsOwnedBy(userID))
	assert.False(t, m.IsOwnedBy(uuid.New()))
	assert.False(t, m.IsDeleted())
}

func TestSoftDelete(t *testing.T) {
	m := NewMeeting(uuid.New(), "t", time.Now(), "/uploads/a.mp3")

	m.SoftDelete()

	assert.True(t, m.IsDeleted())
	assert.NotNil(t, m.DeletedAt)
}

func TestUpdateStatusAndSummaryClearsSummaryOnNil(t *testing.T) {
	m := NewMeeting(uuid.New(), "t", time.Now(), "/uploads/a.mp3")
	summary := "done"
	m.UpdateStatusAndSummary(StatusCompleted, &summary)
	assert.Equal(t, &summary, m.Summary)

	m.UpdateStatusAndSummary(StatusProcessing, nil)
	assert.Nil(t, m.Summary)
}

func TestSortedSegmentsOrdersByStartTime(t *testing.T) {
	s := Speaker{Segments: []Segment{
		{StartTime: 5.0, Text: "third"},
		{StartTime: 0.5, Text: "first"},
		{StartTime: 2.0, Text: "second"},
	}}

	sorted := s.SortedSegments()

	assert.Equal(t, []string{"first", "second", "third"},
		[]string{sorted[0].Text, sorted[1].Text, sorted[2].Text})
	// original order untouched
	assert.Equal(t, "third", s.Segments[0].Text)
}
