// Package clients provides the instrumented HTTP client shared by the MAL and
// Slack adapters.
package clients

import "errors"

// Client errors are infrastructure failures. The adapters translate them into
// domain errors.
var (
	// ErrCircuitOpen is returned without sending the request while the
	// downstream's circuit breaker is open or probing in half-open state.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
