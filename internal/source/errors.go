package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yegors/flightboard/internal/metrics"
	"github.com/yegors/flightboard/pkg/logger"
)

var (
	// ErrUnexpectedStatus is wrapped with the status code of a non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrMissingData is returned when a provider response lacks its data field
	ErrMissingData = errors.New("response has no data field")

	// ErrMissingCredentials is returned when a disabled client is called anyway
	ErrMissingCredentials = errors.New("provider credentials not configured")
)

// maxErrorBody bounds how much of an error response is kept for logs
const maxErrorBody = 512

// StatusError is a non-2xx provider response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrUnexpectedStatus, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// statusError builds a StatusError carrying a snippet of the body
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Body: string(snippet)}
}

// hasStatus reports whether err is a StatusError with the given code
func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// doJSON executes req, checks the status and decodes the body into out
func doJSON(httpClient *http.Client, req *http.Request, provider string, m *metrics.Metrics, log *logger.Logger, out any) (err error) {
	start := time.Now()
	defer func() {
		m.ObserveProviderRequest(provider, time.Since(start), err)
	}()

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	log.Debug("Provider request completed",
		logger.String("provider", provider),
		logger.String("path", req.URL.Path),
		logger.Duration("took", time.Since(start)))

	return nil
}

// newRequest builds a GET request with JSON accept headers
func newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
