package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/sitterload/internal/travel"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	DefaultTimeout = 30 * time.Second

	metersPerMile = 1609.344
)

var ErrNoRoute = errors.New("no route between addresses")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// backoff is swapped out in tests.
	backoff func(attempt int) time.Duration
}

var _ travel.Router = (*Client)(nil)

func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		backoff: backoff,
	}
}

// DriveTime asks the routing service for the driving time from origin to
// destination when leaving at departAt. Traffic-aware durations are
// preferred when the service returns them.
func (c *Client) DriveTime(ctx context.Context, origin, destination string, departAt time.Time) (travel.Route, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("mode", "driving")
	q.Set("units", "imperial")
	if !departAt.IsZero() && departAt.After(time.Now()) {
		q.Set("departure_time", strconv.FormatInt(departAt.Unix(), 10))
	}
	q.Set("key", c.apiKey)

	data, err := c.doRequest(ctx, q)
	if err != nil {
		return travel.Route{}, fmt.Errorf("getting drive time: %w", err)
	}

	var resp matrixResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return travel.Route{}, fmt.Errorf("parsing routing response: %w", err)
	}
	return resp.route()
}

func (r matrixResponse) route() (travel.Route, error) {
	if r.Status != "" && r.Status != "OK" {
		if r.ErrorMessage != "" {
			return travel.Route{}, fmt.Errorf("routing service status %s: %s", r.Status, r.ErrorMessage)
		}
		return travel.Route{}, fmt.Errorf("routing service status %s", r.Status)
	}
	if len(r.Rows) == 0 || len(r.Rows[0].Elements) == 0 {
		return travel.Route{}, fmt.Errorf("empty routing response: %w", ErrNoRoute)
	}

	el := r.Rows[0].Elements[0]
	if el.Status != "OK" {
		return travel.Route{}, fmt.Errorf("element status %s: %w", el.Status, ErrNoRoute)
	}

	dur := el.DurationInTraffic
	if dur == nil {
		dur = el.Duration
	}
	if dur == nil {
		return travel.Route{}, fmt.Errorf("routing response missing duration")
	}

	route := travel.Route{DurationMinutes: dur.Value / 60}
	if el.Distance != nil {
		route.DistanceMiles = el.Distance.Value / metersPerMile
	}
	return route, nil
}

func (c *Client) doRequest(ctx context.Context, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + "?" + q.Encode()

	c.logger.Debug("routing API request", "origin", q.Get("origins"), "destination", q.Get("destinations"))

	var resp *http.Response
	maxRetries := 3
	requestStart := time.Now()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries || ctx.Err() != nil {
				c.logger.Error("routing request transport error", "error", err, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("routing request transport error, retrying", "attempt", attempt+1, "error", err)
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				c.logger.Error("routing request failed after retries", "status", resp.StatusCode, "attempts", maxRetries+1, "elapsed", time.Since(requestStart))
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.logger.Debug("routing request retryable error", "status", resp.StatusCode, "attempt", attempt+1)
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("routing API response", "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("routing request failed", "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	return respBody, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
