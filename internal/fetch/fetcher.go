// Package fetch provides the shared HTTP GET primitive used by all source
// extractors: one rate-limit watermark per instance and a bounded retry
// loop with linear backoff. It has no knowledge of page structure.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 4 << 20

// FetchError is returned once the retry budget is exhausted. Callers must
// not retry further; the budget is owned entirely by the Fetcher.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config carries the per-source fetch budget.
type Config struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimit     time.Duration
}

// Fetcher issues single-flight GETs for one source. Not safe for concurrent
// use: the rate-limit watermark is unsynchronized because the pipeline runs
// strictly sequentially.
type Fetcher struct {
	baseURL       string
	userAgent     string
	client        *http.Client
	retryAttempts int
	retryDelay    time.Duration
	rateLimit     time.Duration
	lastRequest   time.Time
	logger        *slog.Logger
}

// New builds a Fetcher; zero-valued budget fields get conservative defaults.
func New(cfg Config, logger *slog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "devscanner/1.0"
	}

	return &Fetcher{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:     ua,
		client:        &http.Client{Timeout: timeout},
		retryAttempts: attempts,
		retryDelay:    cfg.RetryDelay,
		rateLimit:     cfg.RateLimit,
		logger:        logger,
	}
}

// Fetch GETs path (absolute URLs pass through, relative paths are resolved
// against the base URL) and returns the response body. Each attempt waits
// for the rate-limit slot first; transport and non-2xx failures are retried
// with linear backoff until the budget runs out.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	target := f.resolve(path)

	var lastErr error
	for attempt := 1; attempt <= f.retryAttempts; attempt++ {
		if err := f.waitForSlot(ctx); err != nil {
			return nil, &FetchError{URL: target, Attempts: attempt, Err: err}
		}

		body, err := f.get(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		f.debug("fetch attempt failed", "url", target, "attempt", attempt, "error", err)

		if attempt < f.retryAttempts {
			backoff := f.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, &FetchError{URL: target, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}
	}

	return nil, &FetchError{URL: target, Attempts: f.retryAttempts, Err: lastErr}
}

// waitForSlot blocks until the minimum inter-request interval has elapsed
// and advances the watermark. Exactly one watermark update happens per
// attempt, successful or not.
func (f *Fetcher) waitForSlot(ctx context.Context) error {
	if f.rateLimit > 0 && !f.lastRequest.IsZero() {
		if wait := f.rateLimit - time.Since(f.lastRequest); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	f.lastRequest = time.Now()
	return nil
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

func (f *Fetcher) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return f.baseURL + path
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
