package domain

import (
	"strings"
	"unicode"
)

// allCapsMinLetters is the letter count from which an all-uppercase word is
// treated as shouting and lowered as a whole.
const allCapsMinLetters = 2

// Normalize fixes erratic capitalization in a raw quote.
//
// Whitespace runs collapse to one space. The text is split into sentences, every
// word is lowercased (including letters after straight or curly apostrophes, so
// "It'S" becomes "it's"), and the first letter of each sentence is capitalized.
// Punctuation, digits and apostrophe style are kept as they are.
// Normalize is idempotent.
func Normalize(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return ""
	}

	sentences := splitSentences(text)
	for i, sentence := range sentences {
		words := strings.Fields(sentence)
		for j, word := range words {
			word = lowerWord(word)
			if j == 0 {
				word = capitalizeFirstLetter(word)
			}
			words[j] = word
		}
		sentences[i] = strings.Join(words, " ")
	}

	return strings.Join(sentences, " ")
}

// splitSentences splits single-spaced text after '.', '!', '?' or '…' when the
// following token starts with a word character, optionally behind an opening
// quote or bracket. Text without a boundary is returned as one sentence.
func splitSentences(text string) []string {
	runes := []rune(text)

	var (
		sentences []string
		start     int
	)

	for i := 1; i < len(runes)-1; i++ {
		if runes[i] != ' ' || !isSentenceEnd(runes[i-1]) || !startsWord(runes[i+1:]) {
			continue
		}

		sentences = append(sentences, string(runes[start:i]))
		start = i + 1
	}

	return append(sentences, string(runes[start:]))
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}

	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '“', '”', '‘', '’', '(', '[':
		return true
	}

	return false
}

// startsWord reports whether rs begins with a word rune, allowing one opener first.
func startsWord(rs []rune) bool {
	if len(rs) == 0 {
		return false
	}

	if isWordRune(rs[0]) {
		return true
	}

	return isOpener(rs[0]) && len(rs) > 1 && isWordRune(rs[1])
}

// lowerWord applies the shouting rule, then lowers the first character if it is
// a letter and every interior uppercase letter, including those after an apostrophe.
func lowerWord(word string) string {
	if isShouting(word) {
		word = strings.ToLower(word)
	}

	runes := []rune(word)
	for i, r := range runes {
		if unicode.IsLetter(r) && (i == 0 || unicode.IsUpper(r)) {
			runes[i] = unicode.ToLower(r)
		}
	}

	return string(runes)
}

// isShouting reports whether word has at least allCapsMinLetters letters, all uppercase.
func isShouting(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}

	return letters >= allCapsMinLetters
}

// capitalizeFirstLetter uppercases the first letter of word and nothing else.
func capitalizeFirstLetter(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}

	return string(runes)
}
