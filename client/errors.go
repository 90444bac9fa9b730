package client

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	ErrorMessage   = "Error calling API"
	unknownDetails = "Unknown error"
)

// HTTPStatusError is a response outside the 2xx range.
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// NetworkError is a failure to reach the endpoint or to read its reply.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newNetworkError drops the "Get <url>:" prefix net/http adds so the details
// line carries only the underlying reason.
func newNetworkError(err error) *NetworkError {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	return &NetworkError{Err: err}
}

// Describe is the details line shown under a failed call.
func Describe(err error) string {
	if err == nil {
		return unknownDetails
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownDetails
}
