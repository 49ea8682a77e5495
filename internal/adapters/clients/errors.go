// Package clients provides the instrumented HTTP client used to reach the
// remote quote API.
package clients

import "errors"

// ErrCircuitOpen is returned when the circuit breaker is open.
// These are infrastructure failures; the anti-corruption layer translates
// them to domain errors.
var ErrCircuitOpen = errors.New("circuit breaker open")
