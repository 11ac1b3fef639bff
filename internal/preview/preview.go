// Package preview defines the result of a track-preview lookup against an
// external song-search service.
package preview

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Reason classifies why a lookup produced no usable preview.
type Reason int

const (
	// ReasonNone means the lookup succeeded.
	ReasonNone Reason = iota
	// ReasonNotFound means the service answered but had no preview for the query.
	ReasonNotFound
	// ReasonTimeout means the request exceeded its time budget.
	ReasonTimeout
	// ReasonTransport means the request failed before a response arrived.
	ReasonTransport
	// ReasonStatus means the service answered with a non-success status.
	ReasonStatus
	// ReasonMalformed means the response body could not be decoded.
	ReasonMalformed
	// ReasonCanceled means the caller's context ended before the request.
	ReasonCanceled
)

var reasonNames = map[Reason]string{
	ReasonNone:      "none",
	ReasonNotFound:  "not_found",
	ReasonTimeout:   "timeout",
	ReasonTransport: "transport",
	ReasonStatus:    "status",
	ReasonMalformed: "malformed",
	ReasonCanceled:  "canceled",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Query describes the track being looked up.
type Query struct {
	Track   string
	Artists string
	Country string // ISO2 market; empty means the finder's default
}

// Term is the free-text search term: track name followed by artists.
func (q Query) Term() string {
	return strings.TrimSpace(q.Track + " " + q.Artists)
}

// Preview is a playable sample and a deep link for a track.
type Preview struct {
	URL  string
	Link string
}

// Result is either a Preview or a failure Reason.
type Result struct {
	Preview Preview
	Failure Reason
	Err     error // underlying cause, nil on success and on ReasonNotFound
}

// Found builds a successful Result.
func Found(p Preview) Result {
	return Result{Preview: p}
}

// Failed builds a failed Result.
func Failed(reason Reason, err error) Result {
	return Result{Failure: reason, Err: err}
}

// OK reports whether the lookup yielded a non-empty preview URL.
func (r Result) OK() bool {
	return r.Failure == ReasonNone && r.Preview.URL != ""
}

// Finder looks up a preview for a track. Implementations never return an
// error; every failure is folded into the Result.
type Finder interface {
	Lookup(ctx context.Context, q Query) Result
}

// Classify maps a request error to a failure Reason.
func Classify(err error) Reason {
	var netErr net.Error
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	default:
		return ReasonTransport
	}
}
