package exchange

import (
	"fmt"
	"net/http"
)

// ClientError is a 4xx provider response. Client errors are never retried;
// the full diagnostic payload is surfaced to the caller immediately.
type ClientError struct {
	Body   string
	Status int
	Header http.Header
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: provider returned status %d", e.Status)
}

// RetriesExhausted reports that every attempt ended in a transient failure.
// Body, Status and Header describe the last response received; Err holds the
// last transport-level error if the final attempt never produced a response.
type RetriesExhausted struct {
	Body     string
	Status   int
	Header   http.Header
	Attempts int
	Err      error
}

func (e *RetriesExhausted) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("retries exhausted after %d attempts: last status %d", e.Attempts, e.Status)
}

func (e *RetriesExhausted) Unwrap() error { return e.Err }

// transientFailure marks a single attempt as retryable. It never leaves the
// package: the executor converts the final one into a RetriesExhausted.
type transientFailure struct {
	body   string
	status int
	header http.Header
	err    error
}

func (e *transientFailure) Error() string {
	if e.err != nil {
		return fmt.Sprintf("transient failure: %v", e.err)
	}
	return fmt.Sprintf("transient failure: status %d", e.status)
}

func (e *transientFailure) Unwrap() error { return e.err }
