package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

const (
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of attempts per call, the first included.
	DefaultRetries = 4

	// DefaultRetryInterval is the first backoff interval.
	DefaultRetryInterval = 500 * time.Millisecond
)

// Client is the HTTP implementation of Oracle.
//
// Transport failures and 5xx answers are retried with exponential backoff;
// 4xx answers and {"error": ...} bodies fail at once with ErrRemote.
// Client is safe for concurrent use, although the oracle itself keeps one
// selected problem per team id.
type Client struct {
	baseURL  string
	id       string
	http     *http.Client
	retries  uint
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	rooms   int
	queries int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetries sets the attempt count; values below 1 mean a single attempt.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.retries = uint(n)
	}
}

// WithRetryInterval sets the first backoff interval.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.interval = d }
}

// WithClientLogger sets the request logger; nil keeps the default.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client for the oracle at baseURL acting for team id.
func NewClient(baseURL, id string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		id:       id,
		http:     &http.Client{Timeout: DefaultTimeout},
		retries:  DefaultRetries,
		interval: DefaultRetryInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(c)
	}

	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// QueryCount returns the last query count the oracle reported.
func (c *Client) QueryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.queries
}

// Select starts problem. The room count comes from Problems, since the oracle
// only echoes the name back.
//
// Errors: ErrUnknownProblem, ErrRemote, transport errors.
func (c *Client) Select(ctx context.Context, problem string) (int, error) {
	p, err := Lookup(problem)
	if err != nil {
		return 0, err
	}

	var resp SelectResponse
	if err := c.post(ctx, "/select", SelectRequest{ID: c.id, ProblemName: problem}, &resp); err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.rooms, c.queries = p.Rooms, 0
	c.mu.Unlock()
	c.logger.Info("oracle: selected", "problem", problem, "rooms", p.Rooms)

	return p.Rooms, nil
}

// Explore sends every plan in one request.
//
// Errors: ErrNotSelected, ErrNoPlans, walk.ErrPlanTooLong,
// walk.ErrDoorOutOfRange, ErrShortResult, ErrRemote, transport errors.
func (c *Client) Explore(ctx context.Context, plans []walk.Plan) ([]walk.Trace, error) {
	// 1. Local checks; a rejected plan would still cost a query.
	n, err := c.selected()
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNoPlans
	}
	req := ExploreRequest{ID: c.id, Plans: make([]string, len(plans))}
	for i, p := range plans {
		if err := p.ValidateBudget(n); err != nil {
			return nil, fmt.Errorf("oracle: plan %d: %w", i, err)
		}
		req.Plans[i] = p.String()
	}

	// 2. Round trip.
	var resp ExploreResponse
	if err := c.post(ctx, "/explore", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) != len(plans) {
		return nil, fmt.Errorf("oracle: %d results for %d plans: %w",
			len(resp.Results), len(plans), ErrShortResult)
	}

	// 3. Pair results with plans.
	out := make([]walk.Trace, len(plans))
	for i, raw := range resp.Results {
		if out[i], err = walk.TraceFromInts(plans[i], raw); err != nil {
			return nil, fmt.Errorf("oracle: result %d: %w", i, err)
		}
	}
	c.mu.Lock()
	c.queries = resp.QueryCount
	c.mu.Unlock()
	c.logger.Debug("oracle: explored", "plans", len(plans), "queryCount", resp.QueryCount)

	return out, nil
}

// Guess submits g. The oracle forgets the problem afterwards, whatever the
// verdict, so a new Select is needed before the next call.
//
// Errors: ErrNotSelected, graph validation errors, ErrRemote, transport errors.
func (c *Client) Guess(ctx context.Context, g *graph.Graph) (bool, error) {
	n, err := c.selected()
	if err != nil {
		return false, err
	}
	if err := g.Validate(n); err != nil {
		return false, err
	}

	var resp GuessResponse
	if err := c.post(ctx, "/guess", GuessRequest{ID: c.id, Map: g}, &resp); err != nil {
		return false, err
	}
	c.mu.Lock()
	c.rooms = 0
	c.mu.Unlock()
	c.logger.Info("oracle: guessed", "correct", resp.Correct)

	return resp.Correct, nil
}

func (c *Client) selected() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rooms == 0 {
		return 0, ErrNotSelected
	}

	return c.rooms, nil
}

// post sends in as JSON to path and decodes the answer into out, retrying
// transport failures and 5xx statuses.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("oracle: marshal %s: %w", path, err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	notify := func(err error, next time.Duration) {
		c.logger.Warn("oracle: retrying", "path", path, "error", err, "in", next)
	}
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.roundTrip(ctx, path, body)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.retries), backoff.WithNotify(notify))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("oracle: decode %s: %w", path, err)
	}

	return nil
}

// roundTrip performs one attempt. Errors that must not be retried are
// wrapped with backoff.Permanent.
func (c *Client) roundTrip(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("oracle: create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}

		return nil, fmt.Errorf("oracle: %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oracle: read %s: %w", path, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("oracle: %s: status %d: %s: %w", path, resp.StatusCode, data, ErrRemote)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("oracle: %s: status %d: %s: %w",
			path, resp.StatusCode, remoteMessage(data), ErrRemote))
	}

	var e ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return nil, backoff.Permanent(fmt.Errorf("oracle: %s: %s: %w", path, e.Error, ErrRemote))
	}

	return data, nil
}

// remoteMessage extracts the error text from a failure body when it has one.
func remoteMessage(data []byte) string {
	var e ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}

	return string(data)
}
