package spark

import "fmt"

// StatusError is a remote API call that came back with a status code other
// than 200, classified into one of the service's documented failure modes.
// Detail is surfaced verbatim to callers.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string { return e.Detail }

// TransportError is a network-level failure: the request never produced a
// status code (connection refused, DNS failure, timeout, truncated body).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
