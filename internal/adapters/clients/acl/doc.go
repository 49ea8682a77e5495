// Package acl is the anti-corruption layer between the remote quote API and
// the domain.
//
// External DTOs stay unexported in this package. Every response is decoded,
// validated and translated into a [domain.Quote] before it leaves, and every
// failure leaves as a domain error:
//
//   - transport errors, an open circuit and non-2xx statuses → [domain.ErrUnavailable]
//   - 404 Not Found → [domain.ErrNotFound]
//   - a field of the wrong type or out of bounds → [domain.ErrValidation]
//
// The distinction matters to the caller: a validation error rejects one
// candidate quote and another may be fetched, while anything else ends the
// attempt loop and the curated fallback list is used instead.
package acl
