// Package clickup implements the service.Service interface against the
// ClickUp v2 REST API.
package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	"clickup/internal/config"
	"clickup/internal/service"
)

// defaultRetryAfter applies when a 429 response omits the Retry-After header.
const defaultRetryAfter = 60 * time.Second

// Client issues HTTP requests against the configured base URL, maps status
// codes to the service error taxonomy, and retries transient failures with
// bounded backoff. It is safe for concurrent use.
type Client struct {
	cfg  *config.Config
	http *http.Client

	// sleep and backoffBase are injectable for tests.
	sleep       func(time.Duration)
	backoffBase time.Duration
}

// New creates a client. It fails with a ConfigError when no credential is
// configured, so callers can refuse to proceed before any request is made.
func New(cfg *config.Config) (*Client, error) {
	if _, err := cfg.Headers(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.Timeout()},
		sleep:       time.Sleep,
		backoffBase: time.Second,
	}, nil
}

// joinURL composes base and path with exactly one slash between them,
// regardless of trailing or leading slashes in either part.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// handleResponse maps an HTTP response to either its body or a typed error.
func handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, service.NewNetworkError("reading response body: "+err.Error(), err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, service.NewAuthenticationError("invalid API token", resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden:
		return nil, service.NewAuthorizationError("insufficient permissions", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, service.NewNotFoundError("resource not found", resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest:
		payload := map[string]any{}
		_ = json.Unmarshal(body, &payload)
		msg := "bad request"
		if s, ok := payload["err"].(string); ok && s != "" {
			msg = s
		}
		return nil, service.NewValidationError(msg, resp.StatusCode, payload)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if h := resp.Header.Get("Retry-After"); h != "" {
			if secs, err := strconv.Atoi(h); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, service.NewRateLimitError("rate limit exceeded", resp.StatusCode, retryAfter)
	case resp.StatusCode >= 500:
		return nil, service.NewServerError(fmt.Sprintf("server error: %d", resp.StatusCode), resp.StatusCode)
	default:
		return nil, service.NewAPIError(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}

// retryableNetwork reports whether a failed send may be retried. Connection
// failures happen before the request reaches the server and always retry. A
// timeout on a POST may have mutated remote state, so it is not retried.
func retryableNetwork(method string, err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return method != http.MethodPost
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return method != http.MethodPost
	}
	return true
}

// request performs one logical remote operation: build URL, attach headers,
// send with timeout, map the status, and retry rate limits and transient
// network failures up to the configured budget.
func (c *Client) request(ctx context.Context, method, endpoint string, q url.Values, body any) ([]byte, error) {
	target := joinURL(c.cfg.BaseURL(), endpoint)
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	headers, err := c.cfg.Headers()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	maxRetries := c.cfg.MaxRetries()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		logrus.WithFields(logrus.Fields{
			"method":  method,
			"url":     target,
			"attempt": attempt + 1,
		}).Debug("clickup request")

		resp, err := c.http.Do(req)
		if err != nil {
			if retryableNetwork(method, err) && attempt < maxRetries {
				delay := c.backoffBase << attempt
				logrus.WithFields(logrus.Fields{"delay": delay, "error": err}).Warn("network failure, retrying")
				c.sleep(delay)
				continue
			}
			return nil, service.NewNetworkError("network error: "+err.Error(), err)
		}

		data, err := handleResponse(resp)
		resp.Body.Close()
		if err == nil {
			return data, nil
		}

		var rl *service.RateLimitError
		if errors.As(err, &rl) {
			if attempt < maxRetries {
				logrus.WithField("retry_after", rl.RetryAfter).Warn("rate limited, retrying")
				c.sleep(rl.RetryAfter)
				continue
			}
			return nil, err
		}
		return nil, err
	}

	return nil, service.NewAPIError("max retries exceeded", 0)
}

// decode parses a successful body, treating an undecodable payload as a
// remote error in its own right.
func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return service.NewAPIError("invalid JSON response: "+err.Error(), 0)
	}
	return nil
}

// requireIDName enforces the fields the remote always provides on a record.
func requireIDName(kind, id, name string) error {
	if id == "" || name == "" {
		return service.NewAPIError(fmt.Sprintf("malformed %s payload: missing id or name", kind), 0)
	}
	return nil
}

// Teams/Workspaces

func (c *Client) GetTeams(ctx context.Context) ([]service.Team, error) {
	data, err := c.request(ctx, http.MethodGet, "/team", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Teams []service.Team `json:"teams"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID string) (service.Team, error) {
	data, err := c.request(ctx, http.MethodGet, "/team/"+teamID, nil, nil)
	if err != nil {
		return service.Team{}, err
	}
	var out struct {
		Team service.Team `json:"team"`
	}
	if err := decode(data, &out); err != nil {
		return service.Team{}, err
	}
	if err := requireIDName("team", out.Team.ID, out.Team.Name); err != nil {
		return service.Team{}, err
	}
	return out.Team, nil
}

func (c *Client) GetTeamMembers(ctx context.Context, teamID string) ([]service.User, error) {
	data, err := c.request(ctx, http.MethodGet, "/team/"+teamID+"/member", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Members []service.TeamMember `json:"members"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	users := make([]service.User, 0, len(out.Members))
	for _, m := range out.Members {
		users = append(users, m.User)
	}
	return users, nil
}

// Spaces

func (c *Client) GetSpaces(ctx context.Context, teamID string) ([]service.Space, error) {
	data, err := c.request(ctx, http.MethodGet, "/team/"+teamID+"/space", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Spaces []service.Space `json:"spaces"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Spaces, nil
}

func (c *Client) GetSpace(ctx context.Context, spaceID string) (service.Space, error) {
	data, err := c.request(ctx, http.MethodGet, "/space/"+spaceID, nil, nil)
	if err != nil {
		return service.Space{}, err
	}
	var space service.Space
	if err := decode(data, &space); err != nil {
		return service.Space{}, err
	}
	if err := requireIDName("space", space.ID, space.Name); err != nil {
		return service.Space{}, err
	}
	return space, nil
}

// Folders

func (c *Client) GetFolders(ctx context.Context, spaceID string) ([]service.Folder, error) {
	data, err := c.request(ctx, http.MethodGet, "/space/"+spaceID+"/folder", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Folders []service.Folder `json:"folders"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Folders, nil
}

func (c *Client) GetFolder(ctx context.Context, folderID string) (service.Folder, error) {
	data, err := c.request(ctx, http.MethodGet, "/folder/"+folderID, nil, nil)
	if err != nil {
		return service.Folder{}, err
	}
	var folder service.Folder
	if err := decode(data, &folder); err != nil {
		return service.Folder{}, err
	}
	if err := requireIDName("folder", folder.ID, folder.Name); err != nil {
		return service.Folder{}, err
	}
	return folder, nil
}

// Lists

func (c *Client) GetLists(ctx context.Context, folderID string) ([]service.List, error) {
	data, err := c.request(ctx, http.MethodGet, "/folder/"+folderID+"/list", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Lists []service.List `json:"lists"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Lists, nil
}

func (c *Client) GetFolderlessLists(ctx context.Context, spaceID string) ([]service.List, error) {
	data, err := c.request(ctx, http.MethodGet, "/space/"+spaceID+"/list", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Lists []service.List `json:"lists"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Lists, nil
}

func (c *Client) GetList(ctx context.Context, listID string) (service.List, error) {
	data, err := c.request(ctx, http.MethodGet, "/list/"+listID, nil, nil)
	if err != nil {
		return service.List{}, err
	}
	var list service.List
	if err := decode(data, &list); err != nil {
		return service.List{}, err
	}
	if err := requireIDName("list", list.ID, list.Name); err != nil {
		return service.List{}, err
	}
	return list, nil
}

func (c *Client) CreateList(ctx context.Context, folderID string, req service.ListRequest) (service.List, error) {
	data, err := c.request(ctx, http.MethodPost, "/folder/"+folderID+"/list", nil, req)
	if err != nil {
		return service.List{}, err
	}
	var list service.List
	if err := decode(data, &list); err != nil {
		return service.List{}, err
	}
	return list, nil
}

func (c *Client) CreateFolderlessList(ctx context.Context, spaceID string, req service.ListRequest) (service.List, error) {
	data, err := c.request(ctx, http.MethodPost, "/space/"+spaceID+"/list", nil, req)
	if err != nil {
		return service.List{}, err
	}
	var list service.List
	if err := decode(data, &list); err != nil {
		return service.List{}, err
	}
	return list, nil
}

// Tasks

func (c *Client) GetTasks(ctx context.Context, listID string, filter service.TaskFilter) ([]service.Task, error) {
	q, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("encoding task filter: %w", err)
	}
	data, err := c.request(ctx, http.MethodGet, "/list/"+listID+"/task", q, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	data, err := c.request(ctx, http.MethodGet, "/task/"+taskID, nil, nil)
	if err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := decode(data, &task); err != nil {
		return service.Task{}, err
	}
	if err := requireIDName("task", task.ID, task.Name); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

func (c *Client) CreateTask(ctx context.Context, listID string, req service.TaskRequest) (service.Task, error) {
	data, err := c.request(ctx, http.MethodPost, "/list/"+listID+"/task", nil, req)
	if err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := decode(data, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, req service.TaskRequest) (service.Task, error) {
	data, err := c.request(ctx, http.MethodPut, "/task/"+taskID, nil, req)
	if err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := decode(data, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.request(ctx, http.MethodDelete, "/task/"+taskID, nil, nil)
	return err
}

func (c *Client) SearchTasks(ctx context.Context, teamID, queryText string) ([]service.Task, error) {
	q := url.Values{}
	q.Set("query", queryText)
	data, err := c.request(ctx, http.MethodGet, "/team/"+teamID+"/task", q, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// Comments

func (c *Client) GetTaskComments(ctx context.Context, taskID string) ([]service.Comment, error) {
	data, err := c.request(ctx, http.MethodGet, "/task/"+taskID+"/comment", nil, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Comments []service.Comment `json:"comments"`
	}
	if err := decode(data, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (c *Client) CreateComment(ctx context.Context, taskID, text string) (service.Comment, error) {
	body := map[string]string{"comment_text": text}
	data, err := c.request(ctx, http.MethodPost, "/task/"+taskID+"/comment", nil, body)
	if err != nil {
		return service.Comment{}, err
	}
	var comment service.Comment
	if err := decode(data, &comment); err != nil {
		return service.Comment{}, err
	}
	return comment, nil
}

// Users

func (c *Client) GetUser(ctx context.Context) (service.User, error) {
	data, err := c.request(ctx, http.MethodGet, "/user", nil, nil)
	if err != nil {
		return service.User{}, err
	}
	var out struct {
		User service.User `json:"user"`
	}
	if err := decode(data, &out); err != nil {
		return service.User{}, err
	}
	return out.User, nil
}

// ValidateAuth performs a who-am-I call and reduces the result to a
// tri-state so callers can present diagnostics without error handling.
func (c *Client) ValidateAuth(ctx context.Context) (bool, string, *service.User) {
	user, err := c.GetUser(ctx)
	if err == nil {
		return true, fmt.Sprintf("authentication valid for %s (%s)", user.Username, user.Email), &user
	}

	var (
		authErr *service.AuthenticationError
		permErr *service.AuthorizationError
		netErr  *service.NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		return false, "invalid API token", nil
	case errors.As(err, &permErr):
		return false, "API token lacks required permissions", nil
	case errors.As(err, &netErr):
		return false, "network error: " + netErr.Message, nil
	default:
		return false, "API error: " + err.Error(), nil
	}
}
