// Package googletasks implements backend.Backend on top of a Google Tasks list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/backend"
	"todo/internal/config"
	"todo/internal/task"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client stores the task sequence in one Google Tasks list.
// Priority and the local task ID travel in the task notes.
type Client struct {
	svc    *tasks.Service
	listID string
	log    logrus.FieldLogger
}

// New creates a client from the stored OAuth client and token.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Create HTTP client with a token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	return NewWithHTTPClient(ctx, httpClient, cfg.GoogleList, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client. Extra
// options (such as option.WithEndpoint) are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, log logrus.FieldLogger, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		svc:    svc,
		listID: listID,
		log:    log.WithFields(logrus.Fields{"backend": "googletasks", "list": listID}),
	}, nil
}

// Load returns every task in the list, completed ones included, in list order.
func (c *Client) Load(ctx context.Context) ([]task.Task, error) {
	remote, err := c.listAll(ctx)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, backend.ErrNotExist
		}
		return nil, wrapError(err)
	}

	result := make([]task.Task, 0, len(remote))
	for _, rt := range remote {
		id, priority := parseNotes(rt.Notes)
		if id == "" {
			id = rt.Id
		}
		result = append(result, task.Task{
			ID:        id,
			Name:      rt.Title,
			Completed: rt.Status == statusCompleted,
			Priority:  priority,
		})
	}

	c.log.WithField("count", len(result)).Debug("loaded tasks")
	return result, nil
}

// Save replaces the list contents: existing remote tasks are deleted and
// the sequence is inserted in order.
func (c *Client) Save(ctx context.Context, ts []task.Task) error {
	remote, err := c.listAll(ctx)
	if err != nil {
		return wrapError(err)
	}

	for _, rt := range remote {
		if err := c.deleteTask(ctx, rt.Id); err != nil {
			return wrapError(err)
		}
	}

	previous := ""
	for _, t := range ts {
		created, err := c.insertTask(ctx, t, previous)
		if err != nil {
			return wrapError(err)
		}
		previous = created.Id
	}

	c.log.WithField("count", len(ts)).Debug("saved tasks")
	return nil
}

// Close is a no-op; the HTTP client has no resources to release.
func (c *Client) Close() error {
	return nil
}

// listAll fetches all pages of the list sorted by position.
func (c *Client) listAll(ctx context.Context) ([]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []*tasks.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			result = append(result, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, err
	}

	// Positions are zero-padded strings, so lexical order is list order.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (c *Client) deleteTask(ctx context.Context, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	return c.svc.Tasks.Delete(c.listID, taskID).Context(ctx).Do()
}

func (c *Client) insertTask(ctx context.Context, t task.Task, previous string) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	status := statusNeedsAction
	if t.Completed {
		status = statusCompleted
	}
	call := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  t.Name,
		Notes:  formatNotes(t),
		Status: status,
	})
	if previous != "" {
		call = call.Previous(previous)
	}
	return call.Context(ctx).Do()
}

// formatNotes encodes the fields Google Tasks has no column for.
func formatNotes(t task.Task) string {
	return fmt.Sprintf("priority: %s\nid: %s", t.Priority, t.ID)
}

// parseNotes reads what formatNotes wrote. Tasks created elsewhere have no
// notes and get Medium priority.
func parseNotes(notes string) (id string, priority task.Priority) {
	priority = task.Medium
	for _, line := range strings.Split(notes, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "priority":
			if value != "" {
				priority = task.Priority(value)
			}
		case "id":
			id = value
		}
	}
	return id, priority
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: todo login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
