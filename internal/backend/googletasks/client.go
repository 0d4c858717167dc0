// Package googletasks implements store.TaskStore on the Google Tasks API.
// Each account owns one task list titled "tareas: <email>".
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tareas/internal/config"
	"tareas/internal/service"
	"tareas/internal/store"
)

const (
	// PageSize is the number of tasks or lists per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	// ListTitlePrefix prefixes the title of every account's list.
	ListTitlePrefix = "tareas: "
)

// ErrNotLinked is returned when no Google authorization is stored.
var ErrNotLinked = errors.New("google tasks not linked (run: tareas link-google)")

// Client implements store.TaskStore using Google Tasks API.
type Client struct {
	svc *tasks.Service

	mu    sync.Mutex
	lists map[string]string // email -> list ID
}

// New creates a client from the stored OAuth client and token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.HasOAuthClient() || !cfg.HasToken() {
		return nil, ErrNotLinked
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client and optional options
// such as option.WithEndpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, lists: make(map[string]string)}, nil
}

// ListTitle returns the title of the list holding email's tasks.
func ListTitle(email string) string {
	return ListTitlePrefix + email
}

// listID resolves (creating if needed) the list for email.
func (c *Client) listID(ctx context.Context, email string, create bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.lists[email]; ok {
		return id, nil
	}

	id, err := c.resolveList(ctx, ListTitle(email))
	if err != nil {
		return "", err
	}
	if id == "" {
		if !create {
			return "", nil
		}
		id, err = c.createList(ctx, ListTitle(email))
		if err != nil {
			return "", err
		}
	}
	c.lists[email] = id
	return id, nil
}

// resolveList finds a list by title (case-insensitive, trimmed).
// Returns "" when no list matches.
func (c *Client) resolveList(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	want := strings.ToLower(strings.TrimSpace(title))
	var matches []string
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == want {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", title)
	}
}

func (c *Client) createList(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return list.Id, nil
}

// ListTasks implements store.TaskStore. New Google tasks are placed on top,
// so creation order is descending position.
func (c *Client) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	listID, err := c.listID(ctx, email, false)
	if err != nil {
		return nil, err
	}
	result := []service.Task{}
	if listID == "" {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err = c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			items = append(items, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position > items[j].Position
	})
	for _, t := range items {
		result = append(result, service.Task{ID: encodeID(listID, t.Id), Task: t.Title})
	}
	return result, nil
}

// InsertTask implements store.TaskStore.
func (c *Client) InsertTask(ctx context.Context, email, text string) (service.Task, error) {
	listID, err := c.listID(ctx, email, true)
	if err != nil {
		return service.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(listID, &tasks.Task{Title: text}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return service.Task{ID: encodeID(listID, t.Id), Task: t.Title}, nil
}

// DeleteTask implements store.TaskStore. Only ids in email's list are accepted.
func (c *Client) DeleteTask(ctx context.Context, email, id string) error {
	listID, taskID, ok := decodeID(id)
	if !ok {
		return store.ErrNotFound
	}
	owned, err := c.listID(ctx, email, false)
	if err != nil {
		return err
	}
	if owned == "" || owned != listID {
		return store.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func encodeID(listID, taskID string) string {
	return listID + "/" + taskID
}

func decodeID(id string) (listID, taskID string, ok bool) {
	listID, taskID, ok = strings.Cut(id, "/")
	if !ok || listID == "" || taskID == "" {
		return "", "", false
	}
	return listID, taskID, true
}

// wrapError maps API errors to store errors and user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: tareas link-google)")
		case http.StatusNotFound:
			return store.ErrNotFound
		}
	}
	return err
}
