// Package remote implements service.Service against the tareas HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tareas/internal/service"
)

// RequestTimeout is the default timeout for API calls.
const RequestTimeout = 10 * time.Second

// Client implements service.Service over HTTP with a bearer token.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// New creates a client for the API at baseURL. A nil httpClient uses a
// client with RequestTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type sessionBody struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (b sessionBody) session() service.Session {
	return service.Session{Email: b.Email, Token: b.Token, ExpiresAt: b.ExpiresAt}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn implements service.Service.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	var body sessionBody
	if err := c.do(ctx, http.MethodPost, "/api/v1/signin", credentials{email, password}, &body); err != nil {
		return service.Session{}, err
	}
	c.setToken(body.Token)
	return body.session(), nil
}

// SignUp implements service.Service.
func (c *Client) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	var body sessionBody
	if err := c.do(ctx, http.MethodPost, "/api/v1/signup", credentials{email, password}, &body); err != nil {
		return service.Session{}, err
	}
	c.setToken(body.Token)
	return body.session(), nil
}

// SignOut implements service.Service. The local token is dropped even when the call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/signout", nil, nil)
	c.setToken("")
	return err
}

// Resume implements service.Service.
func (c *Client) Resume(ctx context.Context, s service.Session) (service.Session, error) {
	c.setToken(s.Token)
	var body sessionBody
	if err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, &body); err != nil {
		c.setToken("")
		return service.Session{}, err
	}
	if !strings.EqualFold(body.Email, strings.TrimSpace(s.Email)) {
		c.setToken("")
		return service.Session{}, service.ErrUnauthorized
	}
	return body.session(), nil
}

// GetTasks implements service.Service.
func (c *Client) GetTasks(ctx context.Context, email string) ([]service.Task, error) {
	var tasks []service.Task
	path := "/api/v1/tasks?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// AddTask implements service.Service.
func (c *Client) AddTask(ctx context.Context, email, text string) error {
	req := struct {
		Email string `json:"email"`
		Task  string `json:"task"`
	}{email, text}
	return c.do(ctx, http.MethodPost, "/api/v1/tasks", req, nil)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var sentinels = []error{
	service.ErrInvalidCredentials,
	service.ErrEmailTaken,
	service.ErrInvalidInput,
	service.ErrNotFound,
	service.ErrUnauthorized,
}

// decodeError turns an error reply back into the sentinel the server returned.
// The message is kept verbatim so it can be shown to the user.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = resp.Status
		}
	}
	msg := body.Error

	for _, s := range sentinels {
		if msg == s.Error() {
			return s
		}
		if rest, ok := strings.CutPrefix(msg, s.Error()+": "); ok {
			return fmt.Errorf("%w: %s", s, rest)
		}
	}

	var base error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		base = service.ErrInvalidInput
	case http.StatusUnauthorized, http.StatusForbidden:
		base = service.ErrUnauthorized
	case http.StatusNotFound:
		base = service.ErrNotFound
	case http.StatusConflict:
		base = service.ErrEmailTaken
	default:
		return errors.New(msg)
	}
	return fmt.Errorf("%w: %s", base, msg)
}
