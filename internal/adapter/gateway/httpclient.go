package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ClientConfig tunes the outbound HTTP client shared by the identity and
// profile adapters. Every call carries an explicit timeout and at most
// MaxRetries additional attempts on network or 5xx failures.
type ClientConfig struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryWait   time.Duration
	BreakerName string
}

// DefaultClientConfig returns the defaults: 5s timeout, a single bounded
// retry, 200ms between attempts.
func DefaultClientConfig(name string) ClientConfig {
	return ClientConfig{
		Timeout:     5 * time.Second,
		MaxRetries:  1,
		RetryWait:   200 * time.Millisecond,
		BreakerName: name,
	}
}

// resilientClient wraps http.Client with a bounded retry and a circuit
// breaker. 5xx responses count as breaker failures; 4xx responses are
// returned to the caller untouched.
type resilientClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        ClientConfig
	logger     *slog.Logger
}

func newResilientClient(cfg ClientConfig, logger *slog.Logger) *resilientClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	settings := gobreaker.Settings{
		Name:    cfg.BreakerName,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &resilientClient{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		cfg:     cfg,
		logger:  logger,
	}
}

// Do executes the request through the breaker with a bounded retry. The
// request must have GetBody set when it carries a body so attempts can be
// replayed.
func (c *resilientClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	return c.breaker.Execute(func() (*http.Response, error) {
		var lastErr error

		for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-time.After(c.cfg.RetryWait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}

			attemptReq := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("replay request body: %w", err)
				}
				attemptReq.Body = body
			}

			resp, err := c.httpClient.Do(attemptReq)
			if err != nil {
				lastErr = err
				if isRetryable(err) && attempt < c.cfg.MaxRetries {
					continue
				}
				return nil, lastErr
			}

			if resp.StatusCode >= 500 && attempt < c.cfg.MaxRetries {
				drain(resp)
				lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
				continue
			}

			if resp.StatusCode >= 500 {
				drain(resp)
				return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
			}

			return resp, nil
		}

		return nil, lastErr
	})
}

// isRetryable reports whether the transport error is worth one more attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	return true
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
