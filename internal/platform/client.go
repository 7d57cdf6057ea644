package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/fchimpan/kusa-learn/internal/calendar"
	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

const (
	pathTestsTree   = "/client/tests/tree/"
	pathUserTests   = "/client/user-tests/"
	pathMyStreak    = "/client/dailystreaks/me/"
	pathCheckIn     = "/client/dailystreaks/today/"
	pathStreakSaver = "/client/dailystreaks/use-streak-saver/"
)

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Log receives request/response dumps when set (verbose mode).
	Log io.Writer
	// Transport overrides the underlying round tripper; used by tests.
	Transport http.RoundTripper
}

// Client talks to the learning platform's client API.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, &AuthError{Message: "KUSA_LEARN_TOKEN environment variable or api.token config is not set"}
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", opts.BaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q (expected http(s)://host[/prefix])", opts.BaseURL)
	}

	hc, err := api.NewHTTPClient(api.ClientOptions{
		Host:               base.Hostname(),
		AuthToken:          opts.Token,
		Timeout:            opts.Timeout,
		Log:                opts.Log,
		LogVerboseHTTP:     opts.Log != nil,
		Transport:          opts.Transport,
		SkipDefaultHeaders: true,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	return &Client{base: base, token: opts.Token, http: hc}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: fmt.Sprintf("platform rejected the token (status %d)", resp.StatusCode), StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Path: path, cause: &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchTestsTree returns the flattened course/chapter/test associations.
func (c *Client) FetchTestsTree(ctx context.Context) ([]progress.Record, error) {
	var rows list[treeRow]
	if err := c.do(ctx, http.MethodGet, pathTestsTree, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]progress.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// FetchUserTests returns the current user's test attempts.
func (c *Client) FetchUserTests(ctx context.Context) ([]progress.Attempt, error) {
	var rows list[userTestRow]
	if err := c.do(ctx, http.MethodGet, pathUserTests, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]progress.Attempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.attempt())
	}
	return out, nil
}

// DailyStreak is the user's check-in history. SaversLeft is nil when the
// platform does not report it.
type DailyStreak struct {
	CheckIns   []streak.CheckIn
	SaversLeft *int
}

// FetchDailyStreak returns the current user's check-in days.
func (c *Client) FetchDailyStreak(ctx context.Context) (DailyStreak, error) {
	var resp dailyStreakResponse
	if err := c.do(ctx, http.MethodGet, pathMyStreak, nil, &resp); err != nil {
		return DailyStreak{}, err
	}
	out := DailyStreak{SaversLeft: resp.SaversLeft}
	for _, d := range resp.Days {
		out.CheckIns = append(out.CheckIns, streak.CheckIn{Date: d.Date, Saver: d.IsStreakSaver})
	}
	return out, nil
}

// UseStreakSaver asks the platform to restore day.
func (c *Client) UseStreakSaver(ctx context.Context, day time.Time) error {
	payload := map[string]string{"date": calendar.NormalizeISODate(day)}
	return c.do(ctx, http.MethodPost, pathStreakSaver, payload, nil)
}

// CheckInToday records today's check-in. A second check-in on the same day is not an error.
func (c *Client) CheckInToday(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, pathCheckIn, map[string]string{}, nil)
	if isDuplicateCheckIn(err) {
		return nil
	}
	return err
}
