// Package phoneme implements IAST-level pronunciation diagnosis:
// normalization, character diffing, confusion classification and
// Devanagari transliteration.
package phoneme

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LongVowels are the IAST vowels that must be held twice as long as
// their short counterparts.
var LongVowels = []string{"ā", "ī", "ū", "ṝ"}

var punctReplacer = strings.NewReplacer(
	".", "", ",", "", ";", "", ":", "", "!", "", "?", "",
	"-", "", "–", "", "—", "",
)

// Normalize prepares IAST text for comparison: collapses whitespace,
// applies Unicode NFC and strips punctuation ASR tends to introduce.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	text = norm.NFC.String(text)
	return punctReplacer.Replace(text)
}

// HasLongVowel reports whether the word contains any long vowel.
func HasLongVowel(word string) bool {
	for _, v := range LongVowels {
		if strings.Contains(word, v) {
			return true
		}
	}
	return false
}

var iastVowels = map[rune]bool{
	'a': true, 'ā': true, 'i': true, 'ī': true, 'u': true, 'ū': true,
	'ṛ': true, 'ṝ': true, 'ḷ': true, 'e': true, 'o': true,
}

// SyllableAt returns the syllable containing the rune at idx, used for
// position-specific vowel-length feedback ("the ā in kā..."). Returns ""
// when idx is out of range. Syllable boundaries are drawn after each
// vowel run, which is close enough for feedback purposes.
func SyllableAt(word string, idx int) string {
	runes := []rune(Normalize(word))
	if idx < 0 || idx >= len(runes) {
		return ""
	}

	start := 0
	for i := 0; i < len(runes); i++ {
		if !iastVowels[runes[i]] {
			continue
		}
		end := i
		for end+1 < len(runes) && iastVowels[runes[end+1]] {
			end++
		}
		if idx >= start && idx <= end {
			return string(runes[start : end+1])
		}
		start = end + 1
		i = end
	}
	if idx >= start {
		return string(runes[start:])
	}
	return ""
}
