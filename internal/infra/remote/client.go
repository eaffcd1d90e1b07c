// Package remote provides the HTTP client for the remote task store.
// The remote store is a PostgREST-style data API: per-row insert, update,
// delete and select on a `tasks` table, filtered by owner identity, plus a
// server-sent-events channel for realtime changes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/totodo-app/totodo/internal/domain"
)

const requestTimeout = 15 * time.Second

// Client implements domain.RemoteStore against a REST data API.
// Every request is scoped to the owning identity (user id filter).
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	apiKey       string
	userID       string
}

// New creates a new Client. accessToken is attached as a bearer token via
// oauth2; apiKey is sent on every request as the service key header.
func New(baseURL, apiKey, accessToken, userID string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout

	// The event stream stays open indefinitely, and http.Client.Timeout
	// bounds the whole exchange including body reads. The stream client
	// therefore carries no global timeout; the request context governs
	// its lifetime.
	streamClient := oauth2.NewClient(context.Background(), src)

	return &Client{
		httpClient:   httpClient,
		streamClient: streamClient,
		baseURL:      baseURL,
		apiKey:       apiKey,
		userID:       userID,
	}
}

// taskRow is the wire representation of a task: the task columns plus the
// owner column the API filters on.
type taskRow struct {
	domain.Task
	UserID string `json:"user_id"`
}

// InsertTask inserts a task and returns the stored row.
func (c *Client) InsertTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	body, err := json.Marshal([]taskRow{{Task: task, UserID: c.userID}})
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/tasks", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	var rows []taskRow
	if err := c.do(req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert returned no row: %w", domain.ErrRemoteRejected)
	}
	stored := rows[0].Task
	return &stored, nil
}

// UpdateTask updates a task keyed by its id.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) error {
	body, err := json.Marshal(taskRow{Task: task, UserID: c.userID})
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}

	query := url.Values{}
	query.Set("id", "eq."+task.ID)
	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/tasks", query, body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteTask deletes a task keyed by its id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	req, err := c.newRequest(ctx, http.MethodDelete, "/rest/v1/tasks", query, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// FetchTasks returns the full remote collection for the owning identity,
// ordered by creation time descending.
func (c *Client) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/tasks", query, nil)
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := c.do(req, &rows); err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.Task)
	}
	return tasks, nil
}

// Ping checks reachability of the data API. Used by the connectivity probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodHead, "/rest/v1/", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", domain.ErrRemoteUnavailable)
	}
	_ = resp.Body.Close()
	return nil
}

// newRequest builds a request with the identity filter and auth headers.
// The user id filter is always applied, so a row can never be read or
// written across identities.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	if query == nil {
		query = url.Values{}
	}
	if method != http.MethodPost && method != http.MethodHead {
		query.Set("user_id", "eq."+c.userID)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes the request and decodes the response into out (if non-nil).
// Errors are classified into the domain taxonomy: transport failures and 5xx
// map to ErrRemoteUnavailable, 409 to ErrDuplicateTask, other 4xx to
// ErrRemoteRejected.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, domain.ErrRemoteUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		switch {
		case resp.StatusCode == http.StatusConflict:
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, domain.ErrDuplicateTask)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%s %s: status %d: %w", req.Method, req.URL.Path, resp.StatusCode, domain.ErrRemoteUnavailable)
		default:
			return fmt.Errorf("%s %s: status %d: %s: %w", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(snippet), domain.ErrRemoteRejected)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ensure Client implements RemoteStore.
var _ domain.RemoteStore = (*Client)(nil)
