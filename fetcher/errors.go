package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch so callers can decide what a failure means
// without string matching.
type Kind int

const (
	// KindTransport covers DNS, connection and protocol level failures.
	KindTransport Kind = iota
	// KindTimeout covers deadline and network timeout failures.
	KindTimeout
	// KindHTTPStatus covers responses outside the 2xx range.
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http-status"
	}
	return "transport"
}

// Error is the error type returned by Fetch. Status is only meaningful when
// Kind is KindHTTPStatus.
type Error struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("failed to fetch %s: unexpected status %d", e.URL, e.Status)
	case KindTimeout:
		return fmt.Sprintf("failed to fetch %s: timed out", e.URL)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a fetch timeout.
func IsTimeout(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTimeout
}

// IsTransport reports whether err is a transport level fetch failure.
func IsTransport(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTransport
}

// HTTPStatus returns the status code when err is a non-2xx fetch failure.
func HTTPStatus(err error) (int, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == KindHTTPStatus {
		return fe.Status, true
	}
	return 0, false
}
