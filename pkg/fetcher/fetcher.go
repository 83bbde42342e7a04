// pkg/fetcher/fetcher.go
package fetcher

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "TagExtractor/1.0"

// Document is a successfully fetched response body.
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  FetcherConfig
}

type FetcherConfig struct {
	RequestsPerSecond int
	Burst             int
	Timeout           time.Duration
	UserAgent         string
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
}

func New(config FetcherConfig) *Fetcher {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 5
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = 1 * time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		config:  config,
	}
}

func (f *Fetcher) calculateBackoff(attempt int) time.Duration {
	backoff := float64(f.config.InitialBackoff)
	max := float64(f.config.MaxBackoff)
	calculated := math.Min(backoff*math.Pow(2, float64(attempt)), max)

	// Add jitter (±20%)
	jitter := calculated * (0.8 + rand.Float64()*0.4)
	return time.Duration(jitter)
}

// Fetch downloads urlStr, retrying on rate limiting and server errors.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Document, error) {
	var lastErr error

	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.calculateBackoff(attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("User-Agent", f.config.UserAgent)
		req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.8")

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request error (attempt %d): %w", attempt+1, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("error reading response body: %w", err)
				continue
			}
			return &Document{
				URL:         urlStr,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        body,
			}, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code %d after %d attempts", resp.StatusCode, attempt+1)
			continue

		default:
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
		}
	}

	return nil, lastErr
}
