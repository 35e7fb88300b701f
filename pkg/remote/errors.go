package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call to an upstream service.
type ErrorKind string

const (
	KindTransientNetwork  ErrorKind = "transient_network"
	KindRateLimited       ErrorKind = "rate_limited"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindNoCandidates      ErrorKind = "no_candidates"
	KindRejected          ErrorKind = "rejected"
)

// Error is returned by every remote client in this module.
type Error struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err. Errors that did not come from a remote
// client are treated as transient network failures.
func KindOf(err error) ErrorKind {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}
	return KindTransientNetwork
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransientNetwork
}

// FromStatus maps a non-2xx HTTP status to an Error.
func FromStatus(provider string, status int, body []byte) *Error {
	kind := KindRejected
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindUnauthorized
	case status == http.StatusRequestTimeout || status >= 500:
		kind = KindTransientNetwork
	}

	return &Error{
		Provider:   provider,
		Kind:       kind,
		StatusCode: status,
		Err:        fmt.Errorf("response body: %s", truncate(string(body), 256)),
	}
}

func Transport(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindTransientNetwork, Err: err}
}

func Malformed(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindMalformedResponse, Err: err}
}

func NoCandidates(provider string) *Error {
	return &Error{Provider: provider, Kind: KindNoCandidates, Err: errors.New("no usable candidate in response")}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
