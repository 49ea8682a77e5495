package domain

import (
	"strings"
	"unicode/utf8"
)

// Limits applied to quotes accepted from a remote source.
const (
	// MaxQuoteLength is the longest quote text accepted, in characters.
	MaxQuoteLength = 1000

	// MaxAuthorLength is the longest author name accepted, in characters.
	MaxAuthorLength = 100

	// UnknownAuthor is used when a source does not name the author.
	UnknownAuthor = "Unknown"
)

// Quote represents a quotation with its author.
// Values produced by the quote pipeline are never modified afterwards.
type Quote struct {
	// Text is the quotation itself.
	Text string `json:"text"`

	// Author is who said or wrote the quote.
	Author string `json:"author"`
}

// QuoteSource records where a selected quote came from.
type QuoteSource string

const (
	// SourceRemote marks a quote fetched from the quote API.
	SourceRemote QuoteSource = "remote"

	// SourceFallback marks a quote drawn from the curated offline list.
	SourceFallback QuoteSource = "fallback"
)

// Validate checks the limits a quote must satisfy before it is shown.
// Lengths are counted in characters, not bytes.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("quote", "must not be empty")
	}
	if n := utf8.RuneCountInString(q.Text); n > MaxQuoteLength {
		return NewValidationErrorWithValue("quote", "exceeds 1000 characters", n)
	}
	if n := utf8.RuneCountInString(q.Author); n > MaxAuthorLength {
		return NewValidationErrorWithValue("author", "exceeds 100 characters", n)
	}

	return nil
}

// WithDefaults returns q with an empty author replaced by UnknownAuthor.
func (q Quote) WithDefaults() Quote {
	if strings.TrimSpace(q.Author) == "" {
		q.Author = UnknownAuthor
	}

	return q
}
