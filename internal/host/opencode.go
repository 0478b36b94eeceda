package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// OpenCode talks to an opencode server over its HTTP API.
type OpenCode struct {
	baseURL    string
	directory  string
	httpClient *http.Client
}

// OpenCodeOption configures an OpenCode host.
type OpenCodeOption func(*OpenCode)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenCodeOption {
	return func(o *OpenCode) {
		o.httpClient = client
	}
}

// WithDirectory scopes requests to a project directory on the server.
func WithDirectory(dir string) OpenCodeOption {
	return func(o *OpenCode) {
		o.directory = dir
	}
}

// NewOpenCode creates a host client for the server at baseURL.
func NewOpenCode(baseURL string, opts ...OpenCodeOption) *OpenCode {
	o := &OpenCode{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type logRequest struct {
	Service string `json:"service"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type promptRequest struct {
	Parts []textPart `json:"parts"`
}

// Log posts the entry to /log.
func (o *OpenCode) Log(ctx context.Context, e Entry) error {
	return o.post(ctx, "/log", logRequest{
		Service: e.Service,
		Level:   e.Level.String(),
		Message: e.Message,
	})
}

// Dispatch queues text as a prompt in the session without waiting for the
// agent to answer, so the next idle signal can arrive while this process
// has already exited.
func (o *OpenCode) Dispatch(ctx context.Context, sessionID, text string) error {
	if sessionID == "" {
		return fmt.Errorf("dispatch: session id is required")
	}
	path := "/session/" + url.PathEscape(sessionID) + "/prompt_async"
	return o.post(ctx, path, promptRequest{
		Parts: []textPart{{Type: "text", Text: text}},
	})
}

func (o *OpenCode) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := o.baseURL + path
	if o.directory != "" {
		endpoint += "?directory=" + url.QueryEscape(o.directory)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned status %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(respBody)))
	}
	return nil
}
