package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.ydc-index.io"

// ErrNotFound signals that the search returned no usable results for a term.
var ErrNotFound = errors.New("websearch: no results found")

// Client wraps the You.com Search API for term definition lookups. Calls are
// throttled proactively with a token bucket and retried with backoff on
// rate-limit and server errors.
type Client struct {
	apiKey     string
	baseURL    string
	perTerm    int
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(apiKey, baseURL string, perTerm int, ratePerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if perTerm <= 0 {
		perTerm = 3
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		perTerm:    perTerm,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		maxRetries: 3,
		baseDelay:  time.Second,
	}
}

type searchResponse struct {
	Hits []struct {
		Title    string   `json:"title"`
		URL      string   `json:"url"`
		Snippets []string `json:"snippets"`
	} `json:"hits"`
}

// LookupTerm fetches definitional context for a single term. The definition
// is the concatenation of the top result snippets; the source URL is the
// first hit's.
func (c *Client) LookupTerm(ctx context.Context, term string) (string, string, error) {
	query := fmt.Sprintf("definition of %s", term)

	resp, err := c.search(ctx, query)
	if err != nil {
		return "", "", err
	}
	if len(resp.Hits) == 0 {
		return "", "", ErrNotFound
	}

	var snippets []string
	for _, hit := range resp.Hits[:min(len(resp.Hits), c.perTerm)] {
		for _, s := range hit.Snippets {
			if strings.TrimSpace(s) != "" {
				snippets = append(snippets, strings.TrimSpace(s))
			}
		}
	}
	if len(snippets) == 0 {
		return "", "", ErrNotFound
	}

	return strings.Join(snippets, " "), resp.Hits[0].URL, nil
}

func (c *Client) search(ctx context.Context, query string) (*searchResponse, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&num_web_results=%d",
		c.baseURL, url.QueryEscape(query), c.perTerm)

	var lastErr error
	delay := c.baseDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var parsed searchResponse
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse search response: %w", err)
			}
			return &parsed, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("search returned status %d", resp.StatusCode)
			continue
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}

	return nil, lastErr
}
