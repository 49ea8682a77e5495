package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category Category
		want     bool
	}{
		{name: "all matches anything", text: "zzz", category: CategoryAll, want: true},
		{name: "all matches empty", text: "", category: CategoryAll, want: true},
		{name: "whole word", text: "doing work", category: CategoryProductivity, want: true},
		{name: "prefix is not a word", text: "doing things", category: CategoryProductivity, want: false},
		{name: "keyword do alone", text: "Just do it", category: CategoryProductivity, want: true},
		{name: "keyword inside word", text: "undone", category: CategoryProductivity, want: false},
		{name: "no motivation keyword", text: "undone", category: CategoryMotivation, want: false},
		{name: "case insensitive", text: "BELIEVE in yourself", category: CategoryMotivation, want: true},
		{name: "punctuation boundary", text: "Dream.", category: CategoryMotivation, want: true},
		{name: "apostrophe boundary", text: "art's sake", category: CategoryCreativity, want: true},
		{name: "plural does not match", text: "dreams come true", category: CategoryMotivation, want: false},
		{name: "underscore joins words", text: "work_hard", category: CategoryProductivity, want: false},
		{name: "accented neighbor joins", text: "artéfact", category: CategoryCreativity, want: false},
		{name: "learning", text: "Never stop learning, always learn", category: CategoryLearning, want: true},
		{name: "unknown category is permissive", text: "anything", category: Category("sports"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text, tt.category))
		})
	}
}

func TestMatches_RepeatedPrefixBeforeWord(t *testing.T) {
	// first occurrence is inside "dodo", the second is a whole word
	assert.True(t, Matches("dodo do", CategoryProductivity))
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("sports")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
