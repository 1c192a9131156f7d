package xclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// helper to create client with injected http client
func newTestClient(ts *httptest.Server) *HTTPClient {
	c := NewHTTPClient(Options{BaseURL: ts.URL, RPS: 1000, Burst: 100})
	c.maxAttempts = 3
	c.baseBackoff = 10 * time.Millisecond
	c.httpClient = ts.Client()
	return c
}

func TestDoWithRetryDoesNotRetry429(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/test", nil)
	resp, err := c.doWithRetry(context.Background(), req, "test")
	if err != nil {
		t.Fatalf("expected response, got error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if attempts != 1 {
		t.Fatalf("429 must not be retried, got %d attempts", attempts)
	}
}

func TestDoWithRetryRetriesServerErrorsOnGet(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/test", nil)
	resp, err := c.doWithRetry(context.Background(), req, "test")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoWithRetrySingleAttemptForPost(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/destroy", nil)
	resp, err := c.doWithRetry(context.Background(), req, "destroy")
	if err != nil {
		t.Fatalf("expected response, got error: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 1 {
		t.Fatalf("mutating request retried: %d attempts", attempts)
	}
}

func TestDoWithRetryPacesEveryAttempt(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	// One token, then nothing for an hour: a second attempt cannot be paced
	// within the deadline.
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/test", nil)
	if _, err := c.doWithRetry(ctx, req, "test"); err == nil {
		t.Fatal("expected the limiter to refuse the retry")
	}
	if attempts != 1 {
		t.Fatalf("retry bypassed the limiter: %d attempts", attempts)
	}
}
