package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Client asks the calendar gateway whether a user has free time ahead.
// Users who never connected a calendar get a 404 or connected=false.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// CheckAvailability reports whether userID is free for the next window.
// When busy, BusyUntil is the end of the last slot overlapping the window.
func (c *Client) CheckAvailability(ctx context.Context, userID string, window time.Duration) (entity.Availability, error) {
	if c.baseURL == "" {
		return entity.Availability{HasCalendar: false}, nil
	}

	from := c.now().UTC()
	to := from.Add(window)

	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/users/%s/availability?%s", c.baseURL, url.PathEscape(userID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.Availability{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Availability{}, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entity.Availability{HasCalendar: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return entity.Availability{}, fmt.Errorf("calendar api: %d - %s", resp.StatusCode, string(body))
	}

	var out AvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return entity.Availability{}, fmt.Errorf("decode calendar response: %w", err)
	}
	if !out.Connected {
		return entity.Availability{HasCalendar: false}, nil
	}

	availability := availabilityFrom(out.Busy, from, to)
	c.logger.Debug("calendar checked",
		zap.String("user_id", userID),
		zap.Bool("available", availability.Available))
	return availability, nil
}

func availabilityFrom(busy []BusySlot, from, to time.Time) entity.Availability {
	var until *time.Time
	for _, slot := range busy {
		if !slot.Start.Before(to) || !slot.End.After(from) {
			continue
		}
		end := slot.End
		if until == nil || end.After(*until) {
			until = &end
		}
	}
	return entity.Availability{
		HasCalendar: true,
		Available:   until == nil,
		BusyUntil:   until,
	}
}
