package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func writeSamplePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, os.WriteFile(path, []byte(samplePDF), 0644))
	return path
}

func TestUploadPDFSendsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, processInvoicePath, r.URL.Path)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()

		assert.Equal(t, "invoice.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		data, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, samplePDF, string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "message": "PDF processed and indexed successfully."}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	resp, err := client.UploadPDF(context.Background(), writeSamplePDF(t))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "PDF processed and indexed successfully.", resp.Message)
}

func TestUploadPDFWithoutSuccessFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).UploadPDF(context.Background(), writeSamplePDF(t))
	assert.ErrorIs(t, err, ErrNotIndexed)
}

func TestUploadPDFMissingFile(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).UploadPDF(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, calls.Load())
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		upload   string
		question string
	}{
		{
			name:     "error field",
			status:   http.StatusBadRequest,
			body:     `{"error": "Encrypted PDFs are not supported"}`,
			upload:   "Encrypted PDFs are not supported",
			question: "Encrypted PDFs are not supported",
		},
		{
			name:     "fastapi detail",
			status:   http.StatusInternalServerError,
			body:     `{"detail": "vector store unavailable"}`,
			upload:   "vector store unavailable",
			question: "vector store unavailable",
		},
		{
			name:     "validation detail list falls back",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail": [{"loc": ["body", "question"], "msg": "field required"}]}`,
			upload:   UploadFallbackMessage,
			question: QueryFallbackMessage,
		},
		{
			name:     "json without message",
			status:   http.StatusBadGateway,
			body:     `{"status": "down"}`,
			upload:   UploadFallbackMessage,
			question: QueryFallbackMessage,
		},
		{
			name:     "html body",
			status:   http.StatusBadGateway,
			body:     `<html>Bad Gateway</html>`,
			upload:   UploadFallbackMessage,
			question: QueryFallbackMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 0)

			_, err := client.UploadPDF(context.Background(), writeSamplePDF(t))
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.upload, err.Error())

			_, err = client.Query(context.Background(), "What is the total?")
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.question, err.Error())
		})
	}
}

func TestQuerySendsQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, queryPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req QueryRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is the total?", req.Question)

		w.Write([]byte(`{"answer": "$42", "chunksUsed": 3, "contextLength": 500}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 0).Query(context.Background(), "What is the total?")
	require.NoError(t, err)
	assert.Equal(t, "$42", resp.Answer)
	require.True(t, resp.HasStats())
	assert.Equal(t, 3, *resp.ChunksUsed)
	assert.Equal(t, 500, *resp.ContextLength)
}

func TestQueryWithoutStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "answer": "The invoice is due in May."}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 0).Query(context.Background(), "When is it due?")
	require.NoError(t, err)
	assert.Equal(t, "The invoice is due in May.", resp.Answer)
	assert.False(t, resp.HasStats())
}

func TestQueryUnparsableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Query(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, QueryFallbackMessage, err.Error())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0).Query(context.Background(), "hello")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Contains(t, err.Error(), "Failed to reach backend")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"message": "Hello from the IntelliAgent Backend!"}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL+"/", 0).Ping(context.Background()))
}

func TestNewClientDefaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("", 0).BaseURL())
	assert.Equal(t, "http://example.com:8000", NewClient("http://example.com:8000///", 0).BaseURL())
}
