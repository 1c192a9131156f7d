package xclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"shredder/internal/metrics"
)

const defaultBaseURL = "https://api.twitter.com"

// Options tunes the transport. Zero values fall back to env overrides and
// then to built-in defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	RPS         float64
	Burst       int
	MaxAttempts int
}

// HTTPClient is the shared transport: pacing, retry policy and metrics.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

func NewHTTPClient(opts Options) *HTTPClient {
	c := &HTTPClient{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("X_API_MAX_ATTEMPTS", 3),
		baseBackoff: time.Duration(getEnvInt("X_API_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		c.httpClient.Timeout = opts.Timeout
	}
	if opts.RPS > 0 || opts.Burst > 0 {
		c.limiter = newLimiter(opts.RPS, opts.Burst)
	}
	if opts.MaxAttempts > 0 {
		c.maxAttempts = opts.MaxAttempts
	}
	return c
}

// withClient shares pacing and retry settings with c but sends through hc.
func (c *HTTPClient) withClient(hc *http.Client) *HTTPClient {
	cp := *c
	cp.httpClient = hc
	return &cp
}

// doWithRetry sends req, retrying GETs on transport errors and 5xx.
// Mutating requests get exactly one attempt and 429 is never retried:
// the caller treats it as an account-wide stop signal. Every attempt
// waits on the limiter first.
func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request, endpoint string) (*http.Response, error) {
	attempts := c.maxAttempts
	if req.Method != http.MethodGet || attempts < 1 {
		attempts = 1
	}
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			metrics.IncAPIRetry(endpoint)
			select {
			case <-time.After(withJitter(backoff)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 && resp.StatusCode <= 599 && attempt < attempts {
			if ra := retryAfter(resp); ra > backoff {
				backoff = ra
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("x api status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

func retryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// jitter +/-20%
func withJitter(wait time.Duration) time.Duration {
	jitter := time.Duration(float64(wait) * 0.2)
	if jitter > 0 {
		wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
	}
	return wait
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
