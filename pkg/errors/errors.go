package errors

import (
	"errors"
	"fmt"
	"time"
)

// Category classifies a failure so callers (and the UI behind them) can pick
// the right recovery guidance. Categories are stable strings, safe to expose.
type Category string

const (
	CategoryValidation    Category = "invalid_request"
	CategoryConfiguration Category = "server_config"
	CategoryUpstream      Category = "upstream_rejected"
	CategoryNetwork       Category = "network"
	CategoryTimeout       Category = "timeout"
	CategoryInternal      Category = "internal"
)

// ErrValidation is returned when request data is missing or malformed.
// Never retried.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrConfiguration is returned when server-side configuration (typically the
// ERP credential pair) is missing. Fatal to the request, not to the process.
type ErrConfiguration struct {
	Message string
}

func (e *ErrConfiguration) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "server configuration error"
}

// ErrUpstreamRejection is returned when the ERP answered with a non-2xx status
// and a business reason. The detail is already sanitized and stringified.
// Never retried.
type ErrUpstreamRejection struct {
	Status int
	Detail string
}

func (e *ErrUpstreamRejection) Error() string {
	return fmt.Sprintf("erp rejected request: status %d: %s", e.Status, e.Detail)
}

// ErrNetwork is returned on transport-level failures (connection reset, DNS).
// Retryable with backoff.
type ErrNetwork struct {
	Op  string
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrTimeout is returned when a single attempt exceeded its deadline.
// Retryable; terminal once attempts are exhausted.
type ErrTimeout struct {
	Op      string
	Timeout time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("timeout after %s during %s", e.Timeout, e.Op)
}

// CategoryOf maps an error to its failure category. Unknown errors are
// reported as internal rather than guessed at.
func CategoryOf(err error) Category {
	var (
		validation *ErrValidation
		config     *ErrConfiguration
		upstream   *ErrUpstreamRejection
		network    *ErrNetwork
		timeout    *ErrTimeout
	)
	switch {
	case errors.As(err, &validation):
		return CategoryValidation
	case errors.As(err, &config):
		return CategoryConfiguration
	case errors.As(err, &upstream):
		return CategoryUpstream
	case errors.As(err, &timeout):
		return CategoryTimeout
	case errors.As(err, &network):
		return CategoryNetwork
	default:
		return CategoryInternal
	}
}

// Retryable reports whether the error is a transient connectivity failure.
// Business-level rejections and validation errors are never retryable.
func Retryable(err error) bool {
	c := CategoryOf(err)
	return c == CategoryNetwork || c == CategoryTimeout
}
