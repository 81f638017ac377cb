// Package outcome defines the classified result of attempting to fetch one track.
//
// Outcome is a closed set: the unexported marker method keeps other packages
// from adding variants, so a type switch over the five types below is exhaustive.
package outcome

import (
	"fmt"
	"strconv"
	"strings"
)

// Tags used when an outcome is flattened to text.
const (
	TagSuccess         = "Success"
	TagMediaFetchError = "MediaFetchError"
	TagIOError         = "IoError"
	TagMetadataError   = "MetadataError"
	TagPending         = "Pending"
)

// Outcome is one of Success, MediaFetchError, IOError, MetadataError or Pending.
type Outcome interface {
	Tag() string
	Detail() string
	outcome()
}

// Success means the fetcher exited cleanly.
type Success struct{}

// MediaFetchError means the fetcher ran but reported failure.
type MediaFetchError struct {
	ExitCode int
	Message  string
}

// IOError means the local environment failed: filesystem or process spawn.
type IOError struct {
	Message string
}

// MetadataError means the playlist listing could not be retrieved or parsed.
type MetadataError struct {
	Message string
}

// Pending is an unresolved outcome. It must never be persisted.
type Pending struct{}

func (Success) Tag() string         { return TagSuccess }
func (MediaFetchError) Tag() string { return TagMediaFetchError }
func (IOError) Tag() string         { return TagIOError }
func (MetadataError) Tag() string   { return TagMetadataError }
func (Pending) Tag() string         { return TagPending }

func (Success) Detail() string           { return "" }
func (e MediaFetchError) Detail() string { return e.Message }
func (e IOError) Detail() string         { return e.Message }
func (e MetadataError) Detail() string   { return e.Message }
func (Pending) Detail() string           { return "" }

func (Success) outcome()         {}
func (MediaFetchError) outcome() {}
func (IOError) outcome()         {}
func (MetadataError) outcome()   {}
func (Pending) outcome()         {}

// NewMediaFetchError builds a MediaFetchError for a non-zero exit of the fetcher.
// Codes below zero (no exit code, e.g. killed by a signal) are normalized to -1.
func NewMediaFetchError(url string, code int) MediaFetchError {
	if code < 0 {
		code = -1
	}
	return MediaFetchError{
		ExitCode: code,
		Message:  fmt.Sprintf("error downloading %s, status code: %s", url, strconv.Itoa(code)),
	}
}

// IsSuccess reports whether o is Success.
func IsSuccess(o Outcome) bool {
	_, ok := o.(Success)
	return ok
}

// IsTerminal reports whether o is a settled outcome that may be persisted.
func IsTerminal(o Outcome) bool {
	switch o.(type) {
	case nil, Pending:
		return false
	default:
		return true
	}
}

// Format flattens an outcome to "Tag" or "Tag: detail".
func Format(o Outcome) string {
	if o == nil {
		return TagPending
	}
	if d := o.Detail(); d != "" {
		return o.Tag() + ": " + d
	}
	return o.Tag()
}

// Parse reverses Format. The exit code of a MediaFetchError is recovered from
// the trailing "status code: N" when present.
func Parse(s string) (Outcome, error) {
	tag, detail, _ := strings.Cut(s, ": ")
	switch tag {
	case TagSuccess:
		return Success{}, nil
	case TagPending:
		return Pending{}, nil
	case TagIOError:
		return IOError{Message: detail}, nil
	case TagMetadataError:
		return MetadataError{Message: detail}, nil
	case TagMediaFetchError:
		e := MediaFetchError{ExitCode: -1, Message: detail}
		if i := strings.LastIndex(detail, "status code: "); i >= 0 {
			if code, err := strconv.Atoi(detail[i+len("status code: "):]); err == nil {
				e.ExitCode = code
			}
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown outcome tag %q", tag)
	}
}
