package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
)

// HTTPClientConfig bundles HTTP client and circuit breaker settings.
type HTTPClientConfig struct {
	Client *http.Client
	// BaseURL overrides the provider's default endpoint root.
	BaseURL string
}

const msgFetchFailed = "Failed to fetch weather data. Please try again."

// errorMessages are the user-facing messages a provider reports per failure class.
type errorMessages struct {
	auth     string
	notFound string
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errMissingKey   = errors.New("api key is not configured")
)

// statusError carries a non-2xx upstream status.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("upstream returned %d", e.code)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.code, e.body)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// Client errors say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500 && se.code != http.StatusTooManyRequests
			}
			return err == nil
		},
	})
}

// getJSON performs a single GET through the circuit breaker and decodes the
// 2xx body into out. There are no retries: a failed call fails the report.
func getJSON(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, rawURL string, out any) error {
	if cfg.Client == nil {
		return errNoHTTPClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
		}
		return body, nil
	})
	if err != nil {
		return err
	}

	body, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.ParseFailed(msgFetchFailed, err)
	}
	return nil
}

// classify maps a transport failure onto the error taxonomy.
func classify(err error, msgs errorMessages) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.AuthFailed(msgs.auth, err)
		case http.StatusNotFound:
			return apperrors.LocationNotFound(msgs.notFound, err)
		case http.StatusTooManyRequests:
			return apperrors.RateLimited(msgFetchFailed, err)
		}
	}
	return apperrors.Upstream(msgFetchFailed, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
