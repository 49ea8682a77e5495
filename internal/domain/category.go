package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is a thematic tag used to filter quotes by keyword presence.
type Category string

// Known categories.
const (
	CategoryMotivation   Category = "motivation"
	CategoryLearning     Category = "learning"
	CategoryCreativity   Category = "creativity"
	CategoryProductivity Category = "productivity"
	CategoryAll          Category = "all"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMotivation,
	CategoryLearning,
	CategoryCreativity,
	CategoryProductivity,
	CategoryAll,
}

// categoryKeywords maps each filtering category to its lowercase keywords.
// CategoryAll has no entry: it matches everything.
var categoryKeywords = map[Category][]string{
	CategoryMotivation: {
		"believe", "achieve", "success", "dream", "goal",
		"start", "begin", "action", "courage", "brave", "try",
		"possible", "impossible", "persist", "persevere",
		"overcome", "conquer", "triumph", "victory", "fight",
		"inspire", "motivate", "passion", "purpose", "destiny", "future",
	},
	CategoryLearning: {
		"learn", "grow", "improve", "better", "change",
		"adapt", "develop", "evolve", "transform",
		"progress", "advance", "knowledge",
	},
	CategoryCreativity: {
		"create", "build", "make", "innovation", "innovative",
		"creativity", "creative", "imagine", "invention", "design", "art",
	},
	CategoryProductivity: {
		"productivity", "productive", "focus", "discipline",
		"work", "effort", "dedication", "commitment", "perseverance", "do",
	},
}

// ParseCategory converts a string to a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c.Valid() {
		return c, nil
	}

	return "", NewValidationErrorWithValue("category", "must be one of motivation, learning, creativity, productivity, all", s)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Matches reports whether text belongs to category.
// CategoryAll and categories without keywords match everything. Otherwise at
// least one keyword must occur as a whole word, case-insensitively.
func Matches(text string, category Category) bool {
	if category == CategoryAll {
		return true
	}

	keywords := categoryKeywords[category]
	if len(keywords) == 0 {
		return true
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if containsWord(lowered, kw) {
			return true
		}
	}

	return false
}

// containsWord reports whether word occurs in s bounded by non-word runes.
func containsWord(s, word string) bool {
	for offset := 0; offset <= len(s)-len(word); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}

		start := offset + idx
		end := start + len(word)

		if !wordRuneBefore(s, start) && !wordRuneAfter(s, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}

	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(s[:i])

	return isWordRune(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(s[i:])

	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
