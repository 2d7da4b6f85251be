package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/storeshot/pkg/buildinfo"
	serrors "github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/observability"
)

// DefaultMaxBytes caps a downloaded screenshot at 32 MiB.
const DefaultMaxBytes = 32 << 20

// Client downloads remote inputs.
type Client struct {
	HTTP     *http.Client
	MaxBytes int64
	Attempts int
	Delay    time.Duration

	// MaxRetryAfter caps a 429 response's Retry-After wait.
	MaxRetryAfter time.Duration
}

// NewClient returns a client with the given per-request timeout, 3 attempts
// and a 1s initial retry delay.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: timeout},
		MaxBytes:      DefaultMaxBytes,
		Attempts:      3,
		Delay:         time.Second,
		MaxRetryAfter: MaxRetryAfter,
	}
}

// Get downloads rawURL and returns the body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := serrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "parse %q", rawURL)
	}

	var body []byte
	err = retry(ctx, c.Attempts, c.Delay, c.MaxRetryAfter, func() error {
		var err error
		body, err = c.once(ctx, u)
		return err
	})
	if err != nil {
		var re *RetryableError
		if errors.As(err, &re) {
			err = re.Err
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) once(ctx context.Context, u *url.URL) ([]byte, error) {
	hooks := observability.HTTP()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "request %s", u)
	}
	req.Header.Set("User-Agent", "storeshot/"+buildinfo.Version)

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, serrors.Wrap(serrors.ErrCodeTimeout, ctx.Err(), "fetch %s", u)
		}
		return nil, Retryable(serrors.Wrap(serrors.ErrCodeNetwork, err, "fetch %s", u))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		rl := &serrors.RateLimitedError{RetryAfter: retryAfter}
		return nil, Retryable(serrors.Wrap(serrors.ErrCodeRateLimited, rl, "fetch %s", u))
	case resp.StatusCode >= 500:
		return nil, Retryable(serrors.New(serrors.ErrCodeNetwork, "fetch %s: %s", u, resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return nil, serrors.New(serrors.ErrCodeNotFound, "fetch %s: %s", u, resp.Status)
	case resp.StatusCode >= 400:
		return nil, serrors.New(serrors.ErrCodeNetwork, "fetch %s: %s", u, resp.Status)
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, Retryable(serrors.Wrap(serrors.ErrCodeNetwork, err, "read %s", u))
	}
	if int64(len(data)) > limit {
		return nil, serrors.New(serrors.ErrCodeInvalidImage, "fetch %s: larger than %s", u, formatBytes(limit))
	}
	return data, nil
}

func formatBytes(n int64) string {
	return fmt.Sprintf("%d MiB", n>>20)
}
