package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/yildizm/xraylab/internal/analysis"
)

// maxErrorBody bounds how much of an error response is read for detail
const maxErrorBody = 4096

// Client talks to the research analysis service
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new client instance
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the configured service endpoint
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SubmitForAnalysis uploads the file at path as multipart field "file" and
// decodes the returned result. It makes exactly one request.
func (c *Client) SubmitForAnalysis(ctx context.Context, path string) (*analysis.Result, error) {
	body, contentType, err := multipartBody(path)
	if err != nil {
		return nil, newRequestErrorWithCause(OpAnalyze, "failed to build request body", err)
	}

	endpoint := c.baseURL.JoinPath("/api/analyze")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, newRequestErrorWithCause(OpAnalyze, "failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newRequestErrorWithCause(OpAnalyze, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(OpAnalyze, resp.StatusCode, errorDetail(resp.Body))
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newRequestErrorWithCause(OpAnalyze, "failed to decode response", err)
	}
	if err := analysis.Validate(&result); err != nil {
		return nil, newRequestErrorWithCause(OpAnalyze, "service returned an invalid result", err)
	}

	return &result, nil
}

// Analyze implements analysis.Analyzer
func (c *Client) Analyze(ctx context.Context, path string) (*analysis.Result, error) {
	return c.SubmitForAnalysis(ctx, path)
}

// CheckServiceHealth probes the service liveness endpoint once
func (c *Client) CheckServiceHealth(ctx context.Context) (map[string]any, error) {
	endpoint := c.baseURL.JoinPath("/health")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, newRequestErrorWithCause(OpHealth, "failed to create health check request", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newRequestErrorWithCause(OpHealth, "health check failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(OpHealth, resp.StatusCode, errorDetail(resp.Body))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newRequestErrorWithCause(OpHealth, "failed to decode health payload", err)
	}
	if payload == nil {
		return nil, newRequestError(OpHealth, "empty health payload")
	}

	return payload, nil
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// multipartBody builds a multipart form with the file under field "file"
func multipartBody(path string) (io.Reader, string, error) {
	// #nosec G304 - path is the file the user explicitly selected
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// errorDetail extracts a message from common JSON error bodies
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errorResp struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &errorResp) != nil {
		return ""
	}

	switch {
	case errorResp.Message != "":
		return errorResp.Message
	case errorResp.Detail != "":
		return errorResp.Detail
	default:
		return errorResp.Error
	}
}
