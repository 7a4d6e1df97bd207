package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mithrel/mriynyk/pkg/api"
)

const DefaultTimeout = 60 * time.Second

var (
	ErrEmptyTopic = errors.New("topic is required")
	ErrNoURL      = errors.New("answer.url is not configured")
	ErrStatus     = errors.New("answer endpoint returned an error status")
)

// Client calls the note generation endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Answer posts req to <base>/answer and decodes the generated note.
func (c *Client) Answer(ctx context.Context, req api.AnswerRequest) (api.AnswerResponse, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	req.StudentInfo = strings.TrimSpace(req.StudentInfo)
	if req.Topic == "" {
		return api.AnswerResponse{}, ErrEmptyTopic
	}
	if c.baseURL == "" {
		return api.AnswerResponse{}, ErrNoURL
	}
	body, err := json.Marshal(req)
	if err != nil {
		return api.AnswerResponse{}, err
	}

	respBody, code, err := c.execRequest(ctx, http.MethodPost, c.baseURL+"/answer", body)
	if err != nil {
		return api.AnswerResponse{}, fmt.Errorf("request answer: %w", err)
	}
	if code < 200 || code >= 300 {
		return api.AnswerResponse{}, fmt.Errorf("%w: HTTP %d: %s", ErrStatus, code, strings.TrimSpace(string(respBody)))
	}

	var out api.AnswerResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return api.AnswerResponse{}, fmt.Errorf("decode answer: %w", err)
	}
	return out, nil
}

func (c *Client) execRequest(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, 0, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
