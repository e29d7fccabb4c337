package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream marks any failure to get a usable HTTP response.
	ErrUpstream = errors.New("upstream request failed")
	// ErrMalformed means a response held items but none of them could be
	// decoded.
	ErrMalformed = errors.New("malformed response")
)

// FetchError describes one failed request. It matches ErrUpstream with
// errors.Is.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	default:
		return e.Endpoint + ": " + ErrUpstream.Error()
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrUpstream }
