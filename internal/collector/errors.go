package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrHTTPStatus marks a response with a non-success status code.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrSelectorNotFound marks a page whose expected element is missing.
	ErrSelectorNotFound = errors.New("selector not found")
	// ErrDecode marks a body that could not be decoded.
	ErrDecode = errors.New("decode body")
	// ErrNoData marks a well-formed response that carries nothing usable.
	ErrNoData = errors.New("no data")
	// ErrUnknownSource is returned by the registry for an unregistered id.
	ErrUnknownSource = errors.New("unknown source")
)

// FetchError is the single failure type surfaced by fetchers.
type FetchError struct {
	Source string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s %s: status %d: %v", e.Source, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether retrying the request could succeed.
func (e *FetchError) Transient() bool {
	switch {
	case errors.Is(e.Err, context.Canceled):
		return false
	case errors.Is(e.Err, ErrSelectorNotFound), errors.Is(e.Err, ErrDecode), errors.Is(e.Err, ErrNoData):
		return false
	case e.Status == 0:
		return true
	case e.Status == http.StatusTooManyRequests, e.Status >= 500:
		return true
	default:
		return false
	}
}

// IsTransient reports whether err wraps a transient FetchError.
func IsTransient(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient()
	}
	return false
}
