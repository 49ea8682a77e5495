package app

import "github.com/jsamuelsen/quotebox/internal/domain"

// curatedQuotes are served when the quote API is unreachable or yields no
// quote for the requested category.
var curatedQuotes = []domain.Quote{
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	{Text: "Everything you've ever wanted is on the other side of fear.", Author: "George Addair"},
	{
		Text:   "Believe in yourself. You are braver than you think, more talented than you know, and capable of more than you imagine.",
		Author: "Roy T. Bennett",
	},
	{Text: "I learned that courage was not the absence of fear, but the triumph over it.", Author: "Nelson Mandela"},
	{Text: "Start where you are. Use what you have. Do what you can.", Author: "Arthur Ashe"},
	{Text: "Don't be pushed around by the fears in your mind. Be led by the dreams in your heart.", Author: "Roy T. Bennett"},
	{Text: "Hardships often prepare ordinary people for an extraordinary destiny.", Author: "C.S. Lewis"},
	{Text: "The only impossible journey is the one you never begin.", Author: "Tony Robbins"},
	{Text: "Your limitation—it's only your imagination.", Author: domain.UnknownAuthor},
	{Text: "Great things never come from comfort zones.", Author: domain.UnknownAuthor},
}

// CuratedQuotes returns a copy of the built-in fallback list.
func CuratedQuotes() []domain.Quote {
	out := make([]domain.Quote, len(curatedQuotes))
	copy(out, curatedQuotes)

	return out
}
