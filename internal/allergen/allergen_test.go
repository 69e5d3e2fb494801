package allergen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ayam", Normalize("  AYAM \n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma", "Ayam, tahu ,TELUR", []string{"ayam", "tahu", "telur"}},
		{"newline", "ayam\ntahu\r\ntelur", []string{"ayam", "tahu", "telur"}},
		{"empties dropped", ",, ayam,\n\n ,", []string{"ayam"}},
		{"blank", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTokens(tt.in))
		})
	}
}

func TestSynonymMatch(t *testing.T) {
	synonyms := "chicken,Ayam Kampung,ayam broiler"

	assert.True(t, SynonymMatch(synonyms, "chicken"))
	assert.True(t, SynonymMatch(synonyms, "kampung"), "partial alias matches")
	assert.True(t, SynonymMatch(synonyms, "chicken,ayam"), "query may span the comma")
	assert.False(t, SynonymMatch(synonyms, "beef"))
	assert.False(t, SynonymMatch(synonyms, ""))
	assert.False(t, SynonymMatch("", "chicken"))
	// the query is looked up inside the synonym string, never the other way round
	assert.False(t, SynonymMatch("egg", "egg noodles"))
}

func TestMentions(t *testing.T) {
	text := "nasi goreng dengan telur dan kecap manis"

	assert.True(t, Mentions(text, "telur", "egg"))
	assert.True(t, Mentions(text, "soy sauce", "kecap manis,kecap asin"))
	assert.False(t, Mentions(text, "ayam", "chicken,ayam kampung"))
	assert.False(t, Mentions("", "telur", ""))
}

func TestMerge(t *testing.T) {
	merged := Merge([]string{"soy", "wheat"}, []string{"egg", "soy"}, nil, []string{""})
	assert.Equal(t, []string{"egg", "soy", "wheat"}, merged)
	assert.Empty(t, Merge())
	assert.NotNil(t, Merge())
}

func TestProfile(t *testing.T) {
	got := Profile([]string{"Peanut", "dairy", ""}, " Strawberry, ,peanut,kiwi ")
	assert.Equal(t, []string{"peanut", "dairy", "strawberry", "kiwi"}, got)
	assert.Empty(t, Profile(nil, ""))
}

func TestMatchesAllergy(t *testing.T) {
	tests := []struct {
		name     string
		detected []string
		user     []string
		want     []string
	}{
		{"user term inside detected", []string{"peanut"}, []string{"nut"}, []string{"nut"}},
		{"detected inside user term", []string{"nut"}, []string{"peanut"}, []string{"peanut"}},
		{"no overlap", []string{"fish"}, []string{"dairy"}, []string{}},
		{"case insensitive", []string{"Soy"}, []string{"SOY", "egg"}, []string{"soy"}},
		{"reports user terms only", []string{"tree nut", "peanut"}, []string{"nut"}, []string{"nut"}},
		{"single character is kept loose", []string{"shellfish"}, []string{"h"}, []string{"h"}},
		{"empty terms ignored", []string{"", "egg"}, []string{"", " "}, []string{}},
		{"nothing detected", nil, []string{"egg"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesAllergy(tt.detected, tt.user)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSafe(t *testing.T) {
	assert.True(t, IsSafe(MatchesAllergy([]string{"fish"}, []string{"dairy"})))
	assert.False(t, IsSafe(MatchesAllergy([]string{"peanut"}, []string{"nut"})))
}
