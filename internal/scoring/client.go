// Package scoring talks to the external impact-scoring service. The model
// is opaque: the pipeline posts a candidate development and receives a
// single score back, falling back to heuristics when the service is down.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"devscanner/internal/domain"
	"devscanner/internal/ports"
)

// Client implements ports.ImpactScorer over the scoring service's HTTP API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.ImpactScorer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// ScoreDevelopment posts the candidate development for scoring.
func (c *Client) ScoreDevelopment(ctx context.Context, article domain.ProcessedArticle) (float64, error) {
	payload := map[string]any{
		"title":       article.Title,
		"description": article.Description,
		"type":        string(article.Type),
		"published":   article.PublishDate.Format(time.RFC3339),
	}

	var resp struct {
		ImpactScore float64 `json:"impactScore"`
	}

	if err := c.post(ctx, "/score", payload, &resp); err != nil {
		return 0, err
	}

	return resp.ImpactScore, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
