// Package display renders quotes for the terminal and starts the display
// process.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const searchBaseURL = "https://www.google.com/search?q="

// View is everything the display shows for one quote.
type View struct {
	app.Selection

	Settings  domain.Settings `json:"settings"`
	SearchURL string          `json:"searchUrl,omitempty"`
}

// NewView builds the view for a selection. The search link is included
// when withSearch is set.
func NewView(sel app.Selection, settings domain.Settings, withSearch bool) View {
	v := View{Selection: sel, Settings: settings}
	if withSearch {
		v.SearchURL = SearchURL(sel.Quote.Text)
	}

	return v
}

// SearchURL returns a web search link for the exact quote text.
func SearchURL(text string) string {
	return searchBaseURL + url.QueryEscape(`"`+text+`"`)
}

// Printer writes views to a writer.
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter creates a printer. Unknown formats print text.
func NewPrinter(w io.Writer, format string) *Printer {
	return &Printer{w: w, format: format}
}

// Print writes v in the printer's format.
func (p *Printer) Print(v View) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\"%s\"\n", v.Quote.Text)
	fmt.Fprintf(&b, "  - %s\n", v.Quote.Author)
	fmt.Fprintf(&b, "\n[%s | %s | %s | %s | %ds]\n",
		v.Category, v.Settings.Theme, v.Settings.Position, v.Settings.FontSize, v.Settings.TimerDuration)
	if v.SearchURL != "" {
		fmt.Fprintf(&b, "search: %s\n", v.SearchURL)
	}

	_, err := io.WriteString(p.w, b.String())

	return err
}
