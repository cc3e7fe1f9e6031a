package oauth1

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials indicates a Flow was constructed without a consumer
// key, consumer secret or callback URL. Constructors fail fast before any
// network call.
var ErrMissingCredentials = errors.New("consumer key, consumer secret and callback URL are required")

// MalformedResponse reports a success response whose body lacks required
// fields. Retrying cannot repair it, so it is surfaced immediately. Body
// carries the raw response text for diagnostics and is intentionally kept
// out of the error message.
type MalformedResponse struct {
	Missing []string
	Body    string
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed token response: missing %s", strings.Join(e.Missing, ", "))
}
