package xclient

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// newDefaultLimiter creates a rate limiter using env overrides if present.
func newDefaultLimiter() *rate.Limiter {
	rps := 1.0
	burst := 5
	if v := os.Getenv("X_API_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	if v := os.Getenv("X_API_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		}
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// newLimiter builds a limiter from explicit settings, filling gaps from the defaults.
func newLimiter(rps float64, burst int) *rate.Limiter {
	l := newDefaultLimiter()
	if rps > 0 {
		l.SetLimit(rate.Limit(rps))
	}
	if burst > 0 {
		l.SetBurst(burst)
	}
	return l
}
