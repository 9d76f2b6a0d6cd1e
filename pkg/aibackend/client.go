// Package aibackend is the HTTP client for the external transcription/RAG
// service: note generation, generation status, export and the warmup probe.
// The service's internals (speech recognition, translation, retrieval) are an
// external collaborator; this package only speaks its API.
package aibackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lecturelens-be/internal/pkg/apperrors"
)

type GenerationStatus string

const (
	GenerationPending GenerationStatus = "pending"
	GenerationReady   GenerationStatus = "ready"
	GenerationError   GenerationStatus = "error"
)

type GenerateRequest struct {
	SessionId      string `json:"session_id"`
	TargetLanguage string `json:"target_language,omitempty"`
	// ForceRegenerate distinguishes explicit regeneration (discards manual
	// edits, so the caller must have passed the confirmation gate) from
	// first generation.
	ForceRegenerate bool `json:"force_regenerate"`
}

type GenerateResponse struct {
	JobId string `json:"job_id"`
}

type StatusResponse struct {
	Status            GenerationStatus `json:"status"`
	Progress          float64          `json:"progress"`
	ContentMarkdown   string           `json:"content_markdown,omitempty"`
	ContentTranslated string           `json:"content_markdown_translated,omitempty"`
	Error             string           `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.httpClient.Do(req)
}

// GenerateNotes asks the backend to build structured notes for a session.
func (c *Client) GenerateNotes(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/notes/generate", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		// The backend answers 503 while its models are still loading
		return nil, fmt.Errorf("%w: backend returned %d", apperrors.ErrColdStartInProgress, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%w: backend returned %d: %s", apperrors.ErrGenerationFailed, resp.StatusCode, string(bodyBytes))
	}

	var out GenerateResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGenerationStatus polls a running generation job.
func (c *Client) GetGenerationStatus(ctx context.Context, jobId string) (*StatusResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/notes/status/"+jobId, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status poll failed: %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out StatusResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportPDF renders the note as PDF. A backend failure returns
// ErrExportUnavailable so callers can offer the Markdown fallback instead of
// failing silently.
func (c *Client) ExportPDF(ctx context.Context, sessionId string, contentMarkdown string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/notes/export/pdf", map[string]string{
		"session_id":       sessionId,
		"content_markdown": contentMarkdown,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExportUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned %d", apperrors.ErrExportUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Probe checks backend readiness once. Used by the warmup monitor.
func (c *Client) Probe(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend not ready: %d", resp.StatusCode)
	}
	return nil
}
