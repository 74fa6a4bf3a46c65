package phoneme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsDevanagari(t *testing.T) {
	assert.True(t, ContainsDevanagari("गच्छति"))
	assert.True(t, ContainsDevanagari("mixed गम् text"))
	assert.False(t, ContainsDevanagari("gacchati"))
	assert.False(t, ContainsDevanagari(""))
}

func TestToIAST(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"conjunct with virama", "गच्छति", "gacchati"},
		{"long vowel matra", "भू", "bhū"},
		{"final virama", "गम्", "gam"},
		{"visarga", "रामः", "rāmaḥ"},
		{"anusvara", "संस्कृत", "saṃskṛta"},
		{"independent vowel", "अहम्", "aham"},
		{"inherent a chain", "नमः", "namaḥ"},
		{"retroflex", "टीका", "ṭīkā"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToIAST(tt.in))
		})
	}
}

func TestToIASTPassesRomanThrough(t *testing.T) {
	assert.Equal(t, "gacchati", ToIAST("gacchati"))
	assert.Equal(t, "ṭīkā iti", ToIAST("ṭīkā iti"))
}

func TestToIASTDandaBecomesSpace(t *testing.T) {
	assert.Equal(t, "rāmaḥ", ToIAST("रामः।"))
}
