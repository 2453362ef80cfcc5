package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Agent describes a remote conversational search agent.
type Agent struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// RunInfo is the remote service's view of one run. RunError is populated
// when the run failed on the remote side.
type RunInfo struct {
	Id       string    `json:"id"`
	ThreadId string    `json:"thread_id"`
	Status   Status    `json:"status"`
	RunError *RunError `json:"last_error,omitempty"`
}

type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ThreadMessage is one message in an agent conversation thread.
type ThreadMessage struct {
	Id      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the consumed agent capability: thread and run management for a
// remote asynchronous conversational job.
type Client interface {
	GetAgent(ctx context.Context, agentId string) (*Agent, error)
	CreateThread(ctx context.Context) (string, error)
	PostMessage(ctx context.Context, threadId, role, text string) (string, error)
	CreateRun(ctx context.Context, threadId, agentId string) (*RunInfo, error)
	GetRun(ctx context.Context, threadId, runId string) (*RunInfo, error)
	// ListMessages returns the thread's messages in chronological
	// (ascending) order.
	ListMessages(ctx context.Context, threadId string) ([]ThreadMessage, error)
}

// HTTPClient talks to an assistants-style REST service.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ Client = &HTTPClient{}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) GetAgent(ctx context.Context, agentId string) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assistants/%s", agentId), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *HTTPClient) CreateThread(ctx context.Context) (string, error) {
	var thread struct {
		Id string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/threads", map[string]interface{}{}, &thread); err != nil {
		return "", err
	}
	return thread.Id, nil
}

func (c *HTTPClient) PostMessage(ctx context.Context, threadId, role, text string) (string, error) {
	payload := map[string]interface{}{
		"role":    role,
		"content": text,
	}
	var message struct {
		Id string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/messages", threadId), payload, &message); err != nil {
		return "", err
	}
	return message.Id, nil
}

func (c *HTTPClient) CreateRun(ctx context.Context, threadId, agentId string) (*RunInfo, error) {
	payload := map[string]interface{}{
		"assistant_id": agentId,
	}
	var run RunInfo
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/runs", threadId), payload, &run); err != nil {
		return nil, err
	}
	if run.ThreadId == "" {
		run.ThreadId = threadId
	}
	return &run, nil
}

func (c *HTTPClient) GetRun(ctx context.Context, threadId, runId string) (*RunInfo, error) {
	var run RunInfo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/threads/%s/runs/%s", threadId, runId), nil, &run); err != nil {
		return nil, err
	}
	if run.ThreadId == "" {
		run.ThreadId = threadId
	}
	return &run, nil
}

func (c *HTTPClient) ListMessages(ctx context.Context, threadId string) ([]ThreadMessage, error) {
	var list struct {
		Data []ThreadMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/threads/%s/messages?order=asc", threadId), nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("agent service request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent service error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
