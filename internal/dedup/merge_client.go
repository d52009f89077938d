package dedup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/zakaut/zakaut/internal/model"
)

const mergeMaxRetries = 2

// MergeClient is the external similarity-merge collaborator. It is
// always optional: callers must treat any error as "merge locally".
type MergeClient interface {
	Merge(ctx context.Context, benefits []model.Benefit, maxBenefits int) ([]model.Benefit, string, error)
}

type mergeRequest struct {
	Benefits    []model.Benefit `json:"benefits"`
	MaxBenefits int             `json:"max_benefits"`
}

type mergeResponse struct {
	Benefits []model.Benefit `json:"benefits"`
	Method   string          `json:"method"`
}

// HTTPMergeClient talks JSON over HTTP to the merge service.
type HTTPMergeClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPMergeClient creates a client for the given endpoint.
func NewHTTPMergeClient(url, apiKey string, timeout time.Duration, rps float64) *HTTPMergeClient {
	if rps <= 0 {
		rps = 2
	}
	return &HTTPMergeClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Merge posts the benefit list and ceiling, returning the merged list
// and the method the service reports. Transient failures (5xx, 429,
// transport errors) are retried once with backoff.
func (c *HTTPMergeClient) Merge(ctx context.Context, benefits []model.Benefit, maxBenefits int) ([]model.Benefit, string, error) {
	body, err := json.Marshal(mergeRequest{Benefits: benefits, MaxBenefits: maxBenefits})
	if err != nil {
		return nil, "", fmt.Errorf("encode merge request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < mergeMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}

		merged, method, retryable, err := c.post(ctx, body)
		if err == nil {
			return merged, method, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, "", lastErr
}

func (c *HTTPMergeClient) post(ctx context.Context, body []byte) ([]model.Benefit, string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", true, fmt.Errorf("merge request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, "", retryable, fmt.Errorf("merge service returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", true, fmt.Errorf("read merge response: %w", err)
	}
	var mr mergeResponse
	if err := json.Unmarshal(data, &mr); err != nil {
		return nil, "", false, fmt.Errorf("decode merge response: %w", err)
	}
	return mr.Benefits, mr.Method, false, nil
}
