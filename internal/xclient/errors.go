package xclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"shredder/internal/model"
)

// APIError is a non-2xx answer from the platform.
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       int // platform error code, 0 if the body had none
	Message    string
	ResetAt    time.Time // rate-limit window reset, zero if unknown
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("x api %s: status %d (code %d): %s", e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("x api %s: status %d", e.Endpoint, e.StatusCode)
}

// StatusCode returns the platform status carried by err, or 0.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool    { return StatusCode(err) == http.StatusNotFound }
func IsRateLimited(err error) bool { return StatusCode(err) == http.StatusTooManyRequests }

func parseAPIError(resp *http.Response, endpoint string) *APIError {
	e := &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	if v := resp.Header.Get("x-rate-limit-reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.ResetAt = time.Unix(secs, 0)
		}
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var raw struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(b, &raw) == nil && len(raw.Errors) > 0 {
		e.Code = raw.Errors[0].Code
		e.Message = raw.Errors[0].Message
	}
	return e
}

// ClassifyFailure maps a failed fetch or deletion onto an outcome.
func ClassifyFailure(err error) model.Outcome {
	switch {
	case IsNotFound(err):
		return model.FailedNotFound
	case IsRateLimited(err):
		return model.FailedRateLimited
	}
	return model.FailedOther
}
