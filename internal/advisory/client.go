package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one consultation end to end.
const DefaultTimeout = 10 * time.Second

// Client talks to an HTTP guidance endpoint. The endpoint accepts a Query
// as JSON and returns an Insight as JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates the HTTP advisor.
// Returns nil if baseURL is empty (advisory disabled; agents use instinct).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Enabled returns true if the client is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Advise posts the query and decodes the insight. One attempt, no retry;
// a failed consultation is cheaper than a stalled world.
func (c *Client) Advise(ctx context.Context, q Query) (*Insight, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("advisory client not configured")
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/advise", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consult advisor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("advisor returned %d: %s", resp.StatusCode, b)
	}

	var ins Insight
	if err := json.NewDecoder(resp.Body).Decode(&ins); err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}
	if ins.PrimaryInsight == "" {
		return nil, fmt.Errorf("advisor returned empty insight")
	}
	if ins.Confidence < 0 || ins.Confidence > 100 {
		ins.Confidence = 50
	}
	return &ins, nil
}
