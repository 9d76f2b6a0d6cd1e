package aibackend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lecturelens-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/notes/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job_id":"job-42"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	resp, err := client.GenerateNotes(context.Background(), GenerateRequest{SessionId: "s1"})

	assert.NoError(t, err)
	assert.Equal(t, "job-42", resp.JobId)
}

func TestGenerateNotesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GenerateNotes(context.Background(), GenerateRequest{SessionId: "s1"})

	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
}

func TestGenerateNotesColdStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GenerateNotes(context.Background(), GenerateRequest{SessionId: "s1"})

	assert.True(t, errors.Is(err, apperrors.ErrColdStartInProgress))
}

func TestGetGenerationStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/notes/status/job-42", r.URL.Path)
		w.Write([]byte(`{"status":"pending","progress":0.4}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	status, err := client.GetGenerationStatus(context.Background(), "job-42")

	assert.NoError(t, err)
	assert.Equal(t, GenerationPending, status.Status)
	assert.InDelta(t, 0.4, status.Progress, 1e-9)
}

func TestExportPDFUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.ExportPDF(context.Background(), "s1", "# Notes")

	assert.True(t, errors.Is(err, apperrors.ErrExportUnavailable))
}

func TestExportPDFSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	data, err := client.ExportPDF(context.Background(), "s1", "# Notes")

	assert.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}
