package dto

import (
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// QuoteQuery is the query string of GET /api/v1/quote.
// An empty category means the saved setting.
type QuoteQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=motivation learning creativity productivity all"`
}

// QuoteResponse is a selected quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Attempts int    `json:"attempts"`
}

// NewQuoteResponse converts a selection to its response.
func NewQuoteResponse(sel app.Selection) QuoteResponse {
	return QuoteResponse{
		Text:     sel.Quote.Text,
		Author:   sel.Quote.Author,
		Category: string(sel.Category),
		Source:   string(sel.Source),
		Attempts: sel.Attempts,
	}
}

// ScheduleCheckResponse reports one schedule evaluation.
type ScheduleCheckResponse struct {
	Show     bool   `json:"show"`
	Window   string `json:"window,omitempty"`
	Date     string `json:"date"`
	Launched bool   `json:"launched"`
}

// NewScheduleCheckResponse converts a decision to its response.
func NewScheduleCheckResponse(d domain.ScheduleDecision, launched bool) ScheduleCheckResponse {
	return ScheduleCheckResponse{
		Show:     d.Show,
		Window:   d.Window,
		Date:     d.Date,
		Launched: launched,
	}
}
