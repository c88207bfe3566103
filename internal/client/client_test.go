package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/xraylab/internal/analysis"
)

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chest1.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	return path
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 5 * time.Second

	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil uses defaults", config: nil},
		{name: "defaults", config: DefaultConfig()},
		{name: "empty base url", config: &Config{Timeout: time.Second}, wantErr: true},
		{name: "bad scheme", config: &Config{BaseURL: "ftp://host", Timeout: time.Second}, wantErr: true},
		{name: "zero timeout", config: &Config{BaseURL: "http://host"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitForAnalysis_Success(t *testing.T) {
	path := writeImage(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "chest1.png", header.Filename)
		assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"confidence_score": 0.87,
			"findings": ["Lungs are clear and well expanded"],
			"recommendations": ["None"],
			"metadata": {"model_version": "Research Model v1.0", "analysis_id": "abc"}
		}`))
	})

	result, err := c.SubmitForAnalysis(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 0.87, result.ConfidenceScore)
	assert.Equal(t, []string{"Lungs are clear and well expanded"}, result.Findings)
	assert.Equal(t, []string{"model_version", "analysis_id"}, result.Metadata.Keys())
}

func TestSubmitForAnalysis_ServerError(t *testing.T) {
	path := writeImage(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model crashed"}`))
	})

	result, err := c.SubmitForAnalysis(context.Background(), path)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsRequestError(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "model crashed")

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, OpAnalyze, re.Op)
}

func TestSubmitForAnalysis_Failures(t *testing.T) {
	path := writeImage(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "confidence out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"confidence_score": 2.5,
					"findings":         []string{"x"},
					"recommendations":  []string{},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			result, err := c.SubmitForAnalysis(context.Background(), path)
			assert.Nil(t, result)
			assert.True(t, IsRequestError(err), "got %v", err)
		})
	}
}

func TestSubmitForAnalysis_TransportAndInput(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c, err := New(DefaultConfig())
		require.NoError(t, err)

		_, err = c.SubmitForAnalysis(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
		assert.True(t, IsRequestError(err))
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c, err := New(&Config{BaseURL: url, Timeout: time.Second})
		require.NoError(t, err)

		_, err = c.SubmitForAnalysis(context.Background(), writeImage(t))
		assert.True(t, IsRequestError(err))
		assert.Zero(t, StatusCode(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not reach the server")
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.SubmitForAnalysis(ctx, writeImage(t))
		assert.True(t, IsRequestError(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_ImplementsAnalyzer(t *testing.T) {
	var _ analysis.Analyzer = (*Client)(nil)
}

func TestCheckServiceHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write([]byte(`{"status":"healthy","timestamp":"2026-10-19T10:00:00"}`))
		})

		payload, err := c.CheckServiceHealth(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "healthy", payload["status"])
	})

	t.Run("unhealthy status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.CheckServiceHealth(context.Background())
		assert.True(t, IsRequestError(err))
		assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	})

	t.Run("unparseable body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := c.CheckServiceHealth(context.Background())
		assert.True(t, IsRequestError(err))
	})
}

func TestRequestError_Format(t *testing.T) {
	err := newStatusError(OpAnalyze, 500, "boom")
	assert.Equal(t, "op=analyze: status=500: request failed with status 500 (boom)", err.Error())

	wrapped := newRequestErrorWithCause(OpHealth, "health check failed", io.EOF)
	assert.ErrorIs(t, wrapped, io.EOF)
	assert.Contains(t, wrapped.Error(), "cause=EOF")
}
