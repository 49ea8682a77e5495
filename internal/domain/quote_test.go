package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		quote   Quote
		wantErr bool
	}{
		{name: "valid", quote: Quote{Text: "Keep going.", Author: "Anon"}},
		{name: "empty author allowed", quote: Quote{Text: "Keep going."}},
		{name: "text at limit", quote: Quote{Text: strings.Repeat("a", MaxQuoteLength)}},
		{name: "multibyte counts characters", quote: Quote{Text: strings.Repeat("é", MaxQuoteLength)}},
		{name: "empty text", quote: Quote{Text: "  ", Author: "Anon"}, wantErr: true},
		{name: "text too long", quote: Quote{Text: strings.Repeat("a", MaxQuoteLength+1)}, wantErr: true},
		{name: "author too long", quote: Quote{Text: "ok", Author: strings.Repeat("b", MaxAuthorLength+1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.Validate()
			if tt.wantErr {
				assert.True(t, IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuote_WithDefaults(t *testing.T) {
	assert.Equal(t, UnknownAuthor, Quote{Text: "x"}.WithDefaults().Author)
	assert.Equal(t, "Seneca", Quote{Text: "x", Author: "Seneca"}.WithDefaults().Author)
}
