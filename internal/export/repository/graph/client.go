package graph

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
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"todo-export/internal/export"
	"todo-export/internal/export/repository"
)

const (
	defaultBaseURL           = "https://graph.microsoft.com/v1.0"
	defaultTimeout           = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBaseDelay    = 1 * time.Second
	defaultRetryMaxDelay     = 30 * time.Second
	defaultRequestsPerSecond = 4
)

// Config tunes the Graph client. Zero values fall back to defaults.
type Config struct {
	Timeout           time.Duration
	RetryAttempts     int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerSecond float64
}

// Client is the HTTP wrapper for the Microsoft Graph To Do REST API. All
// requests carry the bearer token supplied at construction; there is no
// global token state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      Config
}

// NewClient creates a new Graph client. The token is validated for presence
// here, before any fetch work begins.
func NewClient(baseURL, accessToken string, cfg Config) (*Client, error) {
	if accessToken == "" {
		return nil, export.ErrMissingToken
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultRetryBaseDelay
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = defaultRetryMaxDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &oauth2.Transport{Source: src},
			Timeout:   cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		retry:   cfg,
	}, nil
}

// ListTaskLists fetches every page of the user's task lists.
func (c *Client) ListTaskLists(ctx context.Context) ([]TodoList, error) {
	raws, err := c.getAll(ctx, c.baseURL+"/me/todo/lists")
	if err != nil {
		return nil, err
	}
	lists := make([]TodoList, 0, len(raws))
	for _, raw := range raws {
		var l TodoList
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("failed to decode task list record: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// ListTasks fetches every page of one list's tasks. When skipCompleted is
// set, completed tasks are filtered out server-side.
func (c *Client) ListTasks(ctx context.Context, listID string, skipCompleted bool) ([]TodoTask, error) {
	u := fmt.Sprintf("%s/me/todo/lists/%s/tasks", c.baseURL, url.PathEscape(listID))
	if skipCompleted {
		u += "?$filter=" + url.QueryEscape("status ne 'completed'")
	}
	raws, err := c.getAll(ctx, u)
	if err != nil {
		return nil, err
	}
	tasks := make([]TodoTask, 0, len(raws))
	for _, raw := range raws {
		var t TodoTask
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("failed to decode task record: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ListChecklistItems fetches every page of one task's checklist items.
func (c *Client) ListChecklistItems(ctx context.Context, listID, taskID string) ([]TodoChecklistItem, error) {
	u := fmt.Sprintf("%s/me/todo/lists/%s/tasks/%s/checklistItems",
		c.baseURL, url.PathEscape(listID), url.PathEscape(taskID))
	raws, err := c.getAll(ctx, u)
	if err != nil {
		return nil, err
	}
	items := make([]TodoChecklistItem, 0, len(raws))
	for _, raw := range raws {
		var it TodoChecklistItem
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("failed to decode checklist item record: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// getAll follows @odata.nextLink until no continuation remains, concatenating
// the value arrays of every page in order.
func (c *Client) getAll(ctx context.Context, startURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	next := startURL
	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}
		var p collectionPage
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("failed to decode collection page: %w", err)
		}
		items = append(items, p.Value...)
		next = p.NextLink
	}
	return items, nil
}

// get issues one GET with rate limiting and bounded retries. Authentication
// failures are returned immediately; 429 and 5xx responses and transport
// errors are retried with exponential backoff.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retry.RetryAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build graph request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		body, retryAfter, err := c.doOnce(req)
		if err == nil {
			return body, nil
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err

		if attempt < c.retry.RetryAttempts {
			delay := c.backoff(attempt)
			if retryAfter > delay {
				delay = retryAfter
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.retry.RetryAttempts, lastErr)
}

func (c *Client) doOnce(req *http.Request) (body []byte, retryAfter time.Duration, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &transientError{fmt.Errorf("failed to call graph API: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, &transientError{fmt.Errorf("failed to read graph response: %w", err)}
		}
		return body, 0, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, 0, fmt.Errorf("graph API status %d: %w", resp.StatusCode, repository.ErrInvalidToken)

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		raw, _ := io.ReadAll(resp.Body)
		if secs, parseErr := strconv.Atoi(resp.Header.Get("Retry-After")); parseErr == nil && secs > 0 {
			retryAfter = time.Duration(secs) * time.Second
		}
		return nil, retryAfter, &transientError{fmt.Errorf("graph API transient error %d: %s", resp.StatusCode, string(raw))}

	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(raw))
	}
}

// backoff returns the delay before the next attempt: base doubled per attempt,
// capped at the configured maximum.
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retry.RetryBaseDelay << (attempt - 1)
	if delay > c.retry.RetryMaxDelay {
		delay = c.retry.RetryMaxDelay
	}
	return delay
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// ---- Wire types scoped to this package ----

// collectionPage is one page of a Graph collection response.
type collectionPage struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
}

// TodoList is the Graph todoTaskList resource.
type TodoList struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	WellKnownName string `json:"wellknownListName"`
}

// TodoTask is the Graph todoTask resource, reduced to the fields exported.
type TodoTask struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Importance string    `json:"importance"`
	Status     string    `json:"status"`
	Body       *ItemBody `json:"body"`
}

// ItemBody is the Graph itemBody resource.
type ItemBody struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// TodoChecklistItem is the Graph checklistItem resource.
type TodoChecklistItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsChecked   bool   `json:"isChecked"`
}
