package ai

import (
	"fmt"
	"time"
)

// The gateway error taxonomy. Every failure surfaced by a provider is one of
// these types, matchable with errors.As, so callers can distinguish "my
// request was malformed" from "the vendor is down" from "the vendor changed
// its schema". None of them is retried by this package.

// InvalidRequestError reports caller-supplied data that fails validation
// before any network call is made (e.g. an empty message list).
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// UnsupportedOptionError reports a requested generation option that has no
// meaning for the selected provider. It is raised instead of silently
// dropping the option, because callers relying on token-level control (stop
// sequences, logit bias) must not get unconstrained output.
type UnsupportedOptionError struct {
	Provider string
	Option   string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("provider %s does not support option %q", e.Provider, e.Option)
}

// TransportError reports a network-level failure: the request never produced
// an HTTP response. The caller may retry; this package never does.
type TransportError struct {
	Provider string
	Duration time.Duration
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s after %s: %v", e.Provider, e.Duration, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError reports a non-2xx HTTP status from the vendor. It carries the
// status code and the raw response body for diagnosis.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// DecodeError reports a response body that does not match the expected
// provider schema. It is a hard failure: silently returning partial data
// would corrupt downstream token accounting.
type DecodeError struct {
	Provider string
	Preview  string // Truncated response body for diagnosis
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v (body preview: %s)", e.Provider, e.Err, e.Preview)
}

func (e *DecodeError) Unwrap() error { return e.Err }
