// Package api provides the REST client for the events backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"eventdesk/internal/auth"
	"eventdesk/internal/config"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/pkg/utils"

	"github.com/google/uuid"
)

// Endpoint paths on the backend.
const (
	PathEvents       = "/events"
	PathViewEvents   = "/viewEvents"
	PathJoinEvent    = "/joinEvent"
	PathLeaveEvent   = "/leaveEvent"
	PathHostEvent    = "/hostEvent"
	PathJoinedEvents = "/joinedEvents"

	// Limit response size to 10MB
	maxResponseBytes = 10 * 1024 * 1024
)

// Client defines the backend operations the views depend on.
type Client interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	ViewEvents(ctx context.Context) ([]models.Event, error)
	JoinEvent(ctx context.Context, id models.ID) (*Reply, error)
	LeaveEvent(ctx context.Context, id models.ID) (*Reply, error)
	HostEvent(ctx context.Context, draft *models.FormDraft) (*Reply, error)
	JoinedEvents(ctx context.Context) ([]models.JoinedEvent, error)
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// Reply is the acknowledgement returned by mutating endpoints.
type Reply struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// envelope is the union of every response body the backend produces.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Events  json.RawMessage `json:"events,omitempty"`
}

// HTTPClient talks JSON and multipart over HTTP to the backend.
type HTTPClient struct {
	httpClient *http.Client
	creds      auth.CredentialProvider
	helper     *utils.HTTPHelper
	logger     *logger.Logger
	newID      func() string
	baseURL    string
	scheme     string
}

// NewHTTPClient creates a client for baseURL. creds may be nil for anonymous calls.
func NewHTTPClient(baseURL string, creds auth.CredentialProvider, log *logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		creds:   creds,
		scheme:  "Bearer",
		helper:  utils.NewHTTPHelper(""),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		newID:  uuid.NewString,
		logger: log,
	}
}

// NewHTTPClientFromConfig creates a client using the api and auth sections of cfg.
func NewHTTPClientFromConfig(cfg *config.Config, creds auth.CredentialProvider, log *logger.Logger) *HTTPClient {
	c := NewHTTPClient(cfg.API.BaseURL, creds, log)
	c.SetScheme(cfg.Auth.Scheme)
	c.helper = utils.NewHTTPHelper(cfg.API.UserAgent)
	c.httpClient.Timeout = cfg.API.GetTimeout()

	return c
}

// SetScheme sets the Authorization scheme used on every call. Empty sends the raw token.
func (c *HTTPClient) SetScheme(scheme string) {
	c.scheme = scheme
}

// SetHTTPClient replaces the underlying transport (useful for testing).
func (c *HTTPClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// BaseURL returns the backend root the client targets.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ListEvents fetches the events feed.
func (c *HTTPClient) ListEvents(ctx context.Context) ([]models.Event, error) {
	env, err := c.do(ctx, http.MethodGet, PathEvents, nil, "", false)
	if err != nil {
		return nil, err
	}

	return decodeEvents[models.Event](env)
}

// ViewEvents re-lists events; the feed card uses it to refresh attendee counts.
func (c *HTTPClient) ViewEvents(ctx context.Context) ([]models.Event, error) {
	env, err := c.do(ctx, http.MethodGet, PathViewEvents, nil, "", true)
	if err != nil {
		return nil, err
	}

	return decodeEvents[models.Event](env)
}

// JoinEvent registers the current user for the event.
func (c *HTTPClient) JoinEvent(ctx context.Context, id models.ID) (*Reply, error) {
	env, err := c.do(ctx, http.MethodPost, idPath(PathJoinEvent, id), nil, "application/json", true)
	if err != nil {
		return nil, err
	}

	return &Reply{Success: env.Success, Message: env.Message}, nil
}

// LeaveEvent unregisters the current user from the event.
func (c *HTTPClient) LeaveEvent(ctx context.Context, id models.ID) (*Reply, error) {
	env, err := c.do(ctx, http.MethodPost, idPath(PathLeaveEvent, id), nil, "", false)
	if err != nil {
		return nil, err
	}

	return &Reply{Success: env.Success, Message: env.Message}, nil
}

// JoinedEvents lists the events the current user has registered for.
func (c *HTTPClient) JoinedEvents(ctx context.Context) ([]models.JoinedEvent, error) {
	env, err := c.do(ctx, http.MethodGet, PathJoinedEvents, nil, "", false)
	if err != nil {
		return nil, err
	}

	return decodeEvents[models.JoinedEvent](env)
}

// HostEvent submits the creation form as multipart data.
func (c *HTTPClient) HostEvent(ctx context.Context, draft *models.FormDraft) (*Reply, error) {
	body, contentType, err := EncodeDraft(draft)
	if err != nil {
		return nil, err
	}

	env, err := c.do(ctx, http.MethodPost, PathHostEvent, body, contentType, true)
	if err != nil {
		return nil, err
	}

	return &Reply{Success: env.Success, Message: env.Message}, nil
}

func idPath(prefix string, id models.ID) string {
	return prefix + "/" + url.PathEscape(id.String())
}

// do performs one request. requireSuccess additionally demands success=true
// in the body, which is how the join, view and host endpoints report outcome.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, requireSuccess bool) (*envelope, error) {
	requestID := c.newID()
	log := c.requestLogger(method, path, requestID)

	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.helper.JoinURL(c.baseURL, path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.helper.BuildHeaders(map[string]string{"X-Request-ID": requestID})
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if log != nil {
			log.Debug("request failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && log != nil {
			log.Debug("failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	if log != nil {
		log.Debug("response received", "status", resp.StatusCode, "bytes", len(raw), "duration", time.Since(start))
	}

	var env envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	// A non-2xx status is an application error whatever the body holds; a
	// plain-text error page carries no message.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil {
			if log != nil {
				log.Debug("error response is not JSON", "status", resp.StatusCode, "error", decodeErr)
			}
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w: status %d: %w", ErrTransport, ErrMalformedResponse, resp.StatusCode, decodeErr)
	}

	if requireSuccess && (env.Success == nil || !*env.Success) {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

// authorize attaches the Authorization header. A missing token is not an
// error: the request goes out anonymously and the backend decides.
func (c *HTTPClient) authorize(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return nil
	}

	token, err := c.creds.Token(ctx)
	if errors.Is(err, auth.ErrNoToken) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to obtain credentials: %w", err)
	}

	req.Header.Set("Authorization", auth.Header(c.scheme, token))

	return nil
}

func (c *HTTPClient) requestLogger(method, path, requestID string) *logger.Logger {
	if c.logger == nil {
		return nil
	}

	return c.logger.With("method", method, "path", path, "request_id", requestID)
}

// decodeEvents unmarshals the events field of env. A missing field is a
// malformed response; an explicit null is an empty list.
func decodeEvents[T any](env *envelope) ([]T, error) {
	if env == nil || env.Events == nil {
		return nil, fmt.Errorf("%w: %w: no events field", ErrTransport, ErrMalformedResponse)
	}

	var events []T
	if err := json.Unmarshal(env.Events, &events); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrTransport, ErrMalformedResponse, err)
	}

	if events == nil {
		events = []T{}
	}

	return events, nil
}
