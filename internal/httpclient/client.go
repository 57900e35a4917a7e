// Package httpclient builds the outbound HTTP clients used to reach
// embedding upstreams: sane timeouts, request logging, body size
// limits and circuit breaking.
package httpclient

import (
	"net/http"
	"time"

	"github.com/nimyab/word-aligner/internal/logging"
)

// New returns an http.Client configured for outbound requests. A
// non-positive timeout falls back to 30 seconds.
func New(timeout time.Duration, logger logging.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport(logger),
	}
}

// Transport returns a clone of the default transport that logs each
// request at debug level.
func Transport(logger logging.Logger) http.RoundTripper {
	var base http.RoundTripper = http.DefaultTransport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		base = t.Clone()
	}
	return &loggingRoundTripper{base: base, logger: logging.OrNop(logger)}
}

type loggingRoundTripper struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("%s %s failed after %v: %v", req.Method, req.URL, time.Since(start), err)
		return nil, err
	}
	t.logger.Debug("%s %s -> %d (%v)", req.Method, req.URL, resp.StatusCode, time.Since(start))
	return resp, nil
}
