// Package errors defines the error taxonomy of the alignment service:
// validation failures caused by the caller, upstream failures from the
// embedding provider, and configuration failures that prevent startup.
// It also carries the retry and circuit breaker helpers built on that
// classification.
package errors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ValidationError reports invalid caller input: an empty sentence, an
// unknown matching method, an oversized request. Validation failures
// are per-request and never touch shared state.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a failure of the similarity upstream: the
// embedding endpoint is unreachable, answered with an error status,
// or produced a malformed matrix.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstream wraps err as an UpstreamError for the named operation.
func NewUpstream(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// ConfigError reports an invalid configuration value. The process
// refuses to start on one.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Msg)
}

// NewConfig creates a ConfigError for the given field.
func NewConfig(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// StatusError carries a non-success HTTP status from an upstream
// response, with a snippet of the body for diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// ErrCircuitOpen is returned when the circuit breaker rejects a
// request without attempting it. Not transient: the breaker has
// already absorbed the retries.
var ErrCircuitOpen = errors.New("circuit breaker open")

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsTransient reports whether err is worth retrying: network-level
// failures and retryable HTTP statuses. Validation and configuration
// errors are never transient, and neither is a rejected request from
// an open circuit breaker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsValidation(err) || IsConfig(err) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return isTransientHTTPStatus(se.Status)
	}

	return isNetworkError(err) || isSyscallError(err)
}

func isNetworkError(err error) bool {
	// Dial, read and write failures are all worth one more try.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	// Wrapped transport errors do not always expose a typed cause.
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"timeout",
		"deadline exceeded",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func isSyscallError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE,
			syscall.ETIMEDOUT, syscall.ENETUNREACH, syscall.EHOSTUNREACH:
			return true
		}
	}
	return false
}

func isTransientHTTPStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
