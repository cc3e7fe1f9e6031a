package oauth1

import (
	"net/http"
	"time"
)

// Option configures a Flow.
type Option func(*Flow)

// WithTryCount sets the attempt budget shared by both token exchanges.
func WithTryCount(n int) Option {
	return func(f *Flow) {
		f.retry.MaxAttempts = n
	}
}

// WithRetryBaseDelay sets the base unit for exponential backoff between
// retried attempts.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(f *Flow) {
		f.retry.BaseDelay = d
	}
}

// WithTimeout bounds each individual attempt; the try count bounds total
// elapsed exposure. Ignored if WithHTTPClient is also supplied afterwards.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) {
		f.client.Timeout = d
	}
}

// WithHTTPClient replaces the transport collaborator.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Flow) {
		f.client = client
	}
}

// WithBaseURL overrides the provider API base URL, e.g. to point the flow at
// a mock endpoint in tests.
func WithBaseURL(u string) Option {
	return func(f *Flow) {
		f.baseURL = u
	}
}

// WithAuthorizeURL overrides the user-facing authorization endpoint.
func WithAuthorizeURL(u string) Option {
	return func(f *Flow) {
		f.authorizeURL = u
	}
}
