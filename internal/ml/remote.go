// README: HTTP client for an external model server, with retry.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// RemoteRegressor calls a model server that owns the trained artifact.
//
// Request:  POST {endpoint} {"features": [[f0, f1, ...]]}
// Response: {"predictions": [y]}
type RemoteRegressor struct {
	endpoint   string
	session    *http.Client
	maxAttempt int
	backoff    time.Duration
}

type remoteRequest struct {
	Features [][]float64 `json:"features"`
}

type remoteResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("model server status %d: %s", e.Code, e.Body)
}

func NewRemoteRegressor(endpoint string, timeout time.Duration) *RemoteRegressor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteRegressor{
		endpoint:   strings.TrimRight(endpoint, "/"),
		session:    &http.Client{Timeout: timeout},
		maxAttempt: 3,
		backoff:    200 * time.Millisecond,
	}
}

func (r *RemoteRegressor) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(remoteRequest{Features: [][]float64{features}})
	if err != nil {
		return 0, fmt.Errorf("remote model: marshal request: %w", err)
	}

	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return 0, fmt.Errorf("remote model: %w", err)
	}
	defer resp.Body.Close()

	var decoded remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("remote model: decode response: %w", err)
	}
	if decoded.Error != "" {
		return 0, fmt.Errorf("remote model: %s", decoded.Error)
	}
	if len(decoded.Predictions) != 1 {
		return 0, fmt.Errorf("remote model: expected 1 prediction, got %d", len(decoded.Predictions))
	}
	return decoded.Predictions[0], nil
}

func (r *RemoteRegressor) do(req *http.Request) (*http.Response, error) {
	resp, err := r.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries network errors and 429/5xx responses with exponential
// backoff, giving up early when ctx is done.
func (r *RemoteRegressor) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := r.backoff
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempt; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := r.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == r.maxAttempt {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
