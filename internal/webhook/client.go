package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Upstream analysis regularly runs for tens of seconds on large repositories.
const defaultTimeout = 180 * time.Second

// Client calls the analysis workflow webhook.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient constructs a Client for the given webhook URL.
func NewClient(url string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ANALYSIS_WEBHOOK_URL is required")
	}
	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv("WEBHOOK_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Analyze posts the target to the analysis workflow and returns the provider
// envelope. The workflow expects a one-element array even for a single target.
// No automatic retries: the upstream run is expensive and not idempotent.
func (c *Client) Analyze(ctx context.Context, target RepoData) (AnalysisResponse, error) {
	if c == nil {
		return AnalysisResponse{}, &Error{Kind: KindEndpointNotFound, Message: "webhook client is not configured"}
	}

	payload, err := json.Marshal([]RepoData{target})
	if err != nil {
		return AnalysisResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return AnalysisResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AnalysisResponse{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AnalysisResponse{}, &Error{Kind: KindNetworkUnreachable, Message: err.Error()}
	}

	if kindErr := classifyStatus(resp.StatusCode); kindErr != nil {
		return AnalysisResponse{}, kindErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return AnalysisResponse{}, &Error{Kind: KindEmptyResponse, Message: "empty response body"}
	}
	var results []AnalysisResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return AnalysisResponse{}, &Error{Kind: KindEmptyResponse, Message: "response is not a JSON array: " + err.Error()}
	}
	if len(results) == 0 {
		return AnalysisResponse{}, &Error{Kind: KindEmptyResponse, Message: "expected a non-empty array"}
	}
	return results[0], nil
}

func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return &Error{Kind: KindTimeout, Message: "analysis did not finish in time; the repository might be too large"}
	}
	return &Error{Kind: KindNetworkUnreachable, Message: err.Error()}
}

func classifyStatus(status int) *Error {
	switch {
	case status == http.StatusNotFound:
		return &Error{Kind: KindEndpointNotFound, Status: status, Message: "webhook not found; check the workflow is active"}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Status: status, Message: "rate limit exceeded"}
	case status >= 500:
		return &Error{Kind: KindServerError, Status: status, Message: "analysis service error"}
	case status < 200 || status > 299:
		return &Error{Kind: KindBadStatus, Status: status, Message: "unexpected status from analysis service"}
	}
	return nil
}
