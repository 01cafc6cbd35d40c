package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdenticalStrings(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"exact", "Office Depot", "Office Depot"},
		{"case insensitive", "OFFICE DEPOT", "office depot"},
		{"surrounding whitespace", "  Office Depot  ", "Office Depot"},
		{"both empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1.0, Similarity(tt.a, tt.b))
			assert.Equal(t, 1.0, Similarity(tt.b, tt.a))
		})
	}
}

func TestSimilaritySubstringContainment(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"prefix", "amazon", "amazon marketplace"},
		{"suffix", "marketplace", "amazon marketplace"},
		{"middle", "zon mark", "amazon marketplace"},
		{"case insensitive containment", "AMAZON", "amazon marketplace"},
		{"empty against non-empty", "", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.8, Similarity(tt.a, tt.b))
			assert.Equal(t, 0.8, Similarity(tt.b, tt.a))
		})
	}
}

func TestSimilarityLevenshteinFallback(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		// distance 3 over max length 7
		{"kitten sitting", "kitten", "sitting", 1.0 - 3.0/7.0},
		// distance 2 (two insertions) over max length 18
		{"abbreviated vendor", "AMZN Marketplace", "Amazon Marketplace", 1.0 - 2.0/18.0},
		// nothing in common
		{"disjoint", "abc", "xyz", 0.0},
		// single substitution
		{"one edit", "cat", "car", 1.0 - 1.0/3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Office Depot", "Office Depot"},
		{"amazon", "amazon marketplace"},
		{"kitten", "sitting"},
		{"AMZN Marketplace", "Amazon Marketplace"},
		{"", "payment"},
	}

	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]),
			"similarity should be symmetric for %q vs %q", p[0], p[1])
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"completely different", "zzzzzzzz"},
		{"short", "a very very long description that shares nothing"},
		{"Gutschrift Überweisung", "Lastschrift Einzug"},
	}

	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestLevenshteinMatrix(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abcd", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein([]rune(tt.a), []rune(tt.b)),
			"levenshtein(%q, %q)", tt.a, tt.b)
	}
}
