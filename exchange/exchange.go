// Package exchange executes HTTP token exchanges with bounded retries.
//
// The executor classifies every attempt into one of three outcomes: success
// (2xx, body decoded), client error (4xx, surfaced immediately and never
// retried) or transient (transport failures and any other status). Transient
// outcomes are retried with full exponential backoff plus jitter until the
// attempt budget runs out.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Defaults applied by Config.withDefaults and shared by both protocol flows.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultTimeout     = 10 * time.Second
)

// Config bounds the retry behavior of Do. The per-attempt timeout lives on
// the http.Client supplied by the caller, so MaxAttempts also bounds total
// elapsed exposure.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

// Do sends the request produced by build and decodes a 2xx body via decode.
//
// build is re-invoked on every attempt and must be safe to call repeatedly;
// this keeps per-request material such as OAuth nonces and timestamps fresh
// across retries. Cancelling ctx abandons the in-flight attempt and any
// pending backoff sleep.
func Do[T any](ctx context.Context, client *http.Client, cfg Config, build func(ctx context.Context) (*http.Request, error), decode func(body []byte) (T, error)) (T, error) {
	var zero T
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	cfg = cfg.withDefaults()

	attempts := 0
	operation := func() (T, error) {
		attempts++
		req, err := build(ctx)
		if err != nil {
			return zero, backoff.Permanent(fmt.Errorf("building request: %w", err))
		}

		resp, err := client.Do(req)
		if err != nil {
			return zero, &transientFailure{err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return zero, &transientFailure{status: resp.StatusCode, header: resp.Header.Clone(), err: err}
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			out, err := decode(body)
			if err != nil {
				// A malformed success body will not improve on retry.
				return zero, backoff.Permanent(err)
			}
			return out, nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return zero, backoff.Permanent(&ClientError{
				Body:   string(body),
				Status: resp.StatusCode,
				Header: resp.Header.Clone(),
			})
		default:
			return zero, &transientFailure{
				body:   string(body),
				status: resp.StatusCode,
				header: resp.Header.Clone(),
			}
		}
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(newJitterPolicy(cfg.BaseDelay)),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	)
	if err != nil {
		var transient *transientFailure
		if errors.As(err, &transient) {
			return zero, &RetriesExhausted{
				Body:     transient.body,
				Status:   transient.status,
				Header:   transient.header,
				Attempts: attempts,
				Err:      transient.err,
			}
		}
		return zero, err
	}
	return out, nil
}
