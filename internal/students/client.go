package students

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mithrel/mriynyk/pkg/api"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrNoURL  = errors.New("students.url is not configured")
	ErrStatus = errors.New("student data endpoint returned an error status")
)

// Query narrows student data. Zero Grade means every grade; an empty or
// "all" Subject means every subject.
type Query struct {
	Grade   int
	Subject string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Grade > 0 {
		v.Set("grade", strconv.Itoa(q.Grade))
	}
	if s := strings.TrimSpace(q.Subject); s != "" && s != "all" {
		v.Set("subject", s)
	}
	return v
}

// Client reads attendance and scores from the student data API. Per-student
// replies are cached by student and query until ClearCache.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]api.StudentData
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		cache:      map[string]api.StudentData{},
	}
}

// Students lists the students of grade (0 = all).
func (c *Client) Students(ctx context.Context, grade int) ([]api.Student, error) {
	var out []api.Student
	if err := c.getJSON(ctx, "/students", Query{Grade: grade}.values(), &out); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

// Student finds id in the roster of grade. An unknown id gets a generic label.
func (c *Client) Student(ctx context.Context, id, grade int) (api.Student, error) {
	list, err := c.Students(ctx, grade)
	if err != nil {
		return api.Student{}, err
	}
	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}
	return api.Student{ID: id, Label: "Student " + strconv.Itoa(id)}, nil
}

// StudentData returns the absences and scores of one student.
func (c *Client) StudentData(ctx context.Context, id int, q Query) (api.StudentData, error) {
	params := q.values()
	key := strconv.Itoa(id) + "|" + params.Encode()
	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var out api.StudentData
	if err := c.getJSON(ctx, "/students/"+strconv.Itoa(id), params, &out); err != nil {
		return api.StudentData{}, fmt.Errorf("student %d: %w", id, err)
	}
	c.mu.Lock()
	c.cache[key] = out
	c.mu.Unlock()
	return out, nil
}

// Overview returns class-wide averages, absence counts and top/bottom students.
func (c *Client) Overview(ctx context.Context, grade int) (api.Overview, error) {
	var out api.Overview
	if err := c.getJSON(ctx, "/overview", Query{Grade: grade}.values(), &out); err != nil {
		return api.Overview{}, fmt.Errorf("overview: %w", err)
	}
	return out, nil
}

// ClearCache drops every cached per-student reply.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = map[string]api.StudentData{}
	c.mu.Unlock()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	if c.baseURL == "" {
		return ErrNoURL
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
