// Package httputil fetches remote screenshots.
//
// Screenshot references in a config may be http(s) URLs. [Client] downloads
// them with a size limit and retries transient failures (network errors,
// 5xx responses and 429 rate limits) through [Retry]:
//
//	c := httputil.NewClient(30 * time.Second)
//	data, err := c.Get(ctx, "https://cdn.example.com/shot-1.png")
//
// Errors carry pkg/errors codes: NETWORK_ERROR, TIMEOUT, RATE_LIMITED or
// NOT_FOUND, so the CLI can print a short message per entry.
package httputil
