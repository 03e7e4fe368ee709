package aipeer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/meetingoneline/meeting-one-line/errors"
)

// Client wraps calls to the external analysis service. Analysis dispatch is
// fire-and-forget from the caller's point of view; embedding upsert and
// delete are synchronous so their failures can abort the caller's
// transaction.
type Client interface {
	// RequestAnalysis asks the peer to analyze an uploaded recording
	RequestAnalysis(ctx context.Context, req *AnalyzeRequest) error

	// SearchMeetings runs a semantic meeting search on the peer's vector
	// store and returns its list payload unchanged
	SearchMeetings(ctx context.Context, req *SearchRequest) (*SearchResult, error)

	// UpsertEmbeddings pushes a completed meeting into the peer's vector store
	UpsertEmbeddings(ctx context.Context, req *EmbeddingUpsertRequest) error

	// DeleteEmbeddings removes a meeting from the peer's vector store
	DeleteEmbeddings(ctx context.Context, userID, meetingID string) error
}

// AnalyzeRequest is the dispatch payload for POST /ai/analyze
type AnalyzeRequest struct {
	UserID       string `json:"userId"`
	MeetingID    string `json:"meetingId"`
	FilePath     string `json:"filePath"`
	MeetingTitle string `json:"meetingTitle"`
}

// SearchRequest carries the query parameters for GET /meetings
type SearchRequest struct {
	UserID  string
	Page    int
	Size    int
	Keyword string
	Title   string
	Summary string
	Status  string
}

// SearchResult is the peer's list payload, shaped like the API's own
// meeting list response so handlers can return it as-is
type SearchResult struct {
	Content    []SearchMeeting `json:"content"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"totalPages"`
}

// SearchMeeting is one matched meeting in a semantic search result
type SearchMeeting struct {
	MeetingID string   `json:"meetingId"`
	Title     string   `json:"title"`
	Date      string   `json:"date,omitempty"`
	Status    string   `json:"status,omitempty"`
	Summary   *string  `json:"summary,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

// EmbeddingUpsertRequest is the payload for POST /embeddings/upsert
type EmbeddingUpsertRequest struct {
	UserID    string             `json:"userId"`
	MeetingID string             `json:"meetingId"`
	Title     string             `json:"title"`
	Summary   string             `json:"summary"`
	Keywords  []string           `json:"keywords"`
	Speakers  []EmbeddingSpeaker `json:"speakers"`
}

// EmbeddingSpeaker is one speaker's transcript in an upsert payload
type EmbeddingSpeaker struct {
	SpeakerID string             `json:"speakerId"`
	Name      *string            `json:"name,omitempty"`
	Segments  []EmbeddingSegment `json:"segments"`
}

// EmbeddingSegment is one utterance in an upsert payload
type EmbeddingSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// httpClient is the HTTP implementation of Client
type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a Client for the analysis service at baseURL
func NewClient(baseURL string, client *http.Client, logger *zap.Logger) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// RequestAnalysis asks the peer to analyze an uploaded recording
func (c *httpClient) RequestAnalysis(ctx context.Context, req *AnalyzeRequest) error {
	c.logger.Info("requesting analysis from AI server",
		zap.String("meeting_id", req.MeetingID),
		zap.String("file_path", req.FilePath))

	return c.post(ctx, "/ai/analyze", req)
}

// SearchMeetings runs a semantic meeting search on the peer's vector store
func (c *httpClient) SearchMeetings(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	params := url.Values{}
	params.Set("userId", req.UserID)
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size < 1 {
		size = 10
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}
	if req.Title != "" {
		params.Set("title", req.Title)
	}
	if req.Summary != "" {
		params.Set("summary", req.Summary)
	}
	if req.Status != "" {
		params.Set("status", req.Status)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/meetings?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.ErrAIServer("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("AI server search returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, apperrors.ErrAIServer(string(body), nil)
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &result, nil
}

// UpsertEmbeddings pushes a completed meeting into the peer's vector store
func (c *httpClient) UpsertEmbeddings(ctx context.Context, req *EmbeddingUpsertRequest) error {
	c.logger.Info("upserting embeddings on AI server",
		zap.String("meeting_id", req.MeetingID))

	return c.post(ctx, "/embeddings/upsert", req)
}

// DeleteEmbeddings removes a meeting from the peer's vector store
func (c *httpClient) DeleteEmbeddings(ctx context.Context, userID, meetingID string) error {
	c.logger.Info("deleting embeddings on AI server",
		zap.String("meeting_id", meetingID))

	endpoint := fmt.Sprintf("%s/embeddings/%s?userId=%s", c.baseURL, meetingID, url.QueryEscape(userID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperrors.ErrAIServer("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("AI server embedding delete returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return apperrors.ErrAIServer(string(body), nil)
	}
	return nil
}

// post sends a JSON body and treats any 4xx/5xx as an AI server error
func (c *httpClient) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperrors.ErrAIServer("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("AI server returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return apperrors.ErrAIServer(string(respBody), nil)
	}
	return nil
}
