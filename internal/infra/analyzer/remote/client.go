// Package remote calls an external analysis endpoint over HTTP. The endpoint
// is authoritative; this client validates shape, not correctness.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/analyzer"
)

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze POSTs the file metadata and parses the result record. Transport
// failures and non-2xx statuses map to ErrUnavailable, schema violations to
// ErrMalformedResponse. No retries.
func (c *Client) Analyze(ctx context.Context, req analyzer.Request) (*domain.Analysis, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: endpoint returned %d", analyzer.ErrUnavailable, resp.StatusCode)
	}

	var a domain.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}
	return &a, nil
}
