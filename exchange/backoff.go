package exchange

import (
	"math/rand"
	"time"
)

// maxShift caps the exponential growth so the shift below cannot overflow.
const maxShift = 32

// jitterPolicy implements backoff.BackOff with full exponential backoff and
// additive jitter: the wait before retrying attempt i+1 is
// 2^i * base + uniform(0, base).
type jitterPolicy struct {
	base    time.Duration
	attempt int
}

func newJitterPolicy(base time.Duration) *jitterPolicy {
	return &jitterPolicy{base: base}
}

// NextBackOff returns the wait for the current attempt and advances the
// attempt counter.
func (p *jitterPolicy) NextBackOff() time.Duration {
	shift := p.attempt
	if shift > maxShift {
		shift = maxShift
	}
	d := p.base << shift
	p.attempt++
	if p.base > 0 {
		d += time.Duration(rand.Int63n(int64(p.base)))
	}
	return d
}

// Reset rewinds the policy to the first attempt.
func (p *jitterPolicy) Reset() {
	p.attempt = 0
}
