package contestsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// HTTPClient talks to a running ranking service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Health checks the metrics endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// Refresh asks the service to rescore now.
func (c *HTTPClient) Refresh(ctx context.Context) (types.RefreshSummary, error) {
	var summary types.RefreshSummary
	err := c.do(ctx, http.MethodPost, "/refresh", &summary)
	return summary, err
}

// View fetches one leaderboard, truncated to limit when positive.
func (c *HTTPClient) View(ctx context.Context, name string, limit int) ([]ranking.Entry, error) {
	path := "/rankings/" + url.PathEscape(name)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var view types.ViewResult
	if err := c.do(ctx, http.MethodGet, path, &view); err != nil {
		return nil, err
	}
	return view.Entries, nil
}

// UserScore fetches one user's standing.
func (c *HTTPClient) UserScore(ctx context.Context, userID string) (types.UserStanding, error) {
	var standing types.UserStanding
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/score", &standing)
	return standing, err
}
