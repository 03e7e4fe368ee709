package aipeer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
)

func TestRequestAnalysis_SendsExpectedPayload(t *testing.T) {
	var got AnalyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ai/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	err := client.RequestAnalysis(context.Background(), &AnalyzeRequest{
		UserID:       "user-1",
		MeetingID:    "meeting-1",
		FilePath:     "/uploads/meetings/user-1/a.mp3",
		MeetingTitle: "Weekly sync",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "meeting-1", got.MeetingID)
	assert.Equal(t, "/uploads/meetings/user-1/a.mp3", got.FilePath)
	assert.Equal(t, "Weekly sync", got.MeetingTitle)
}

func TestRequestAnalysis_ServerErrorBecomesAIServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	err := client.RequestAnalysis(context.Background(), &AnalyzeRequest{MeetingID: "m"})

	require.Error(t, err)
	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_AI_SERVER_ERROR, appErr.Code)
}

func TestSearchMeetings_BuildsQueryAndDecodesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/meetings", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "user-1", q.Get("userId"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("size"))
		assert.Equal(t, "roadmap", q.Get("keyword"))
		assert.Empty(t, q.Get("title"))

		json.NewEncoder(w).Encode(SearchResult{
			Content:    []SearchMeeting{{MeetingID: "meeting-1", Title: "Roadmap review"}},
			Page:       2,
			Size:       5,
			TotalPages: 3,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	result, err := client.SearchMeetings(context.Background(), &SearchRequest{
		UserID:  "user-1",
		Page:    2,
		Size:    5,
		Keyword: "roadmap",
	})

	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "meeting-1", result.Content[0].MeetingID)
	assert.Equal(t, 3, result.TotalPages)
}

func TestSearchMeetings_DefaultsPageAndSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		json.NewEncoder(w).Encode(SearchResult{Page: 1, Size: 10})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	_, err := client.SearchMeetings(context.Background(), &SearchRequest{UserID: "user-1"})
	require.NoError(t, err)
}

func TestDeleteEmbeddings_UsesPathAndQuery(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/embeddings/meeting-1", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("userId"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	require.NoError(t, client.DeleteEmbeddings(context.Background(), "user-1", "meeting-1"))
	assert.True(t, called)
}

func TestDeleteEmbeddings_ClientErrorBecomesAIServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown meeting", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), zap.NewNop())
	err := client.DeleteEmbeddings(context.Background(), "user-1", "meeting-1")

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_AI_SERVER_ERROR, appErr.Code)
	assert.Contains(t, appErr.Details["response"], "unknown meeting")
}

func TestUpsertEmbeddings_SendsSpeakers(t *testing.T) {
	var got EmbeddingUpsertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings/upsert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	name := "Alice"
	client := NewClient(server.URL, server.Client(), zap.NewNop())
	err := client.UpsertEmbeddings(context.Background(), &EmbeddingUpsertRequest{
		UserID:    "user-1",
		MeetingID: "meeting-1",
		Title:     "Weekly sync",
		Summary:   "Discussed roadmap",
		Keywords:  []string{"roadmap"},
		Speakers: []EmbeddingSpeaker{{
			SpeakerID: "S1",
			Name:      &name,
			Segments:  []EmbeddingSegment{{Start: 0, End: 1.5, Text: "hello"}},
		}},
	})

	require.NoError(t, err)
	require.Len(t, got.Speakers, 1)
	assert.Equal(t, "S1", got.Speakers[0].SpeakerID)
	require.Len(t, got.Speakers[0].Segments, 1)
	assert.Equal(t, "hello", got.Speakers[0].Segments[0].Text)
}
