package phoneme

import (
	"strings"
	"unicode"
)

// The Sanskrit Whisper checkpoint returns Devanagari; the confusion
// table and the drill bank are keyed on IAST, so transcripts are
// transliterated before diffing.

var devaIndependentVowels = map[rune]string{
	'अ': "a", 'आ': "ā", 'इ': "i", 'ई': "ī", 'उ': "u", 'ऊ': "ū",
	'ऋ': "ṛ", 'ॠ': "ṝ", 'ऌ': "ḷ", 'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au",
}

var devaMatras = map[rune]string{
	'ा': "ā", 'ि': "i", 'ी': "ī", 'ु': "u", 'ू': "ū",
	'ृ': "ṛ", 'ॄ': "ṝ", 'ॢ': "ḷ", 'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au",
}

var devaConsonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "ṅ",
	'च': "c", 'छ': "ch", 'ज': "j", 'झ': "jh", 'ञ': "ñ",
	'ट': "ṭ", 'ठ': "ṭh", 'ड': "ḍ", 'ढ': "ḍh", 'ण': "ṇ",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ल': "l", 'व': "v",
	'श': "ś", 'ष': "ṣ", 'स': "s", 'ह': "h", 'ळ': "ḷ",
}

var devaSigns = map[rune]string{
	'ं': "ṃ", 'ः': "ḥ", 'ँ': "ṃ", 'ऽ': "'",
	'।': " ", '॥': " ",
	'०': "0", '१': "1", '२': "2", '३': "3", '४': "4",
	'५': "5", '६': "6", '७': "7", '८': "8", '९': "9",
}

const devaVirama = '्'

// ContainsDevanagari reports whether s has any character in the
// Devanagari block.
func ContainsDevanagari(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Devanagari) {
			return true
		}
	}
	return false
}

// ToIAST transliterates Devanagari to IAST. Text without Devanagari
// passes through unchanged, so already-roman input is safe.
func ToIAST(text string) string {
	if !ContainsDevanagari(text) {
		return text
	}

	var b strings.Builder
	pendingA := false // consonant seen, inherent 'a' not yet resolved

	flush := func() {
		if pendingA {
			b.WriteString("a")
			pendingA = false
		}
	}

	for _, r := range text {
		switch {
		case devaConsonants[r] != "":
			flush()
			b.WriteString(devaConsonants[r])
			pendingA = true
		case devaMatras[r] != "":
			b.WriteString(devaMatras[r])
			pendingA = false
		case r == devaVirama:
			pendingA = false
		case devaIndependentVowels[r] != "":
			flush()
			b.WriteString(devaIndependentVowels[r])
		case devaSigns[r] != "":
			flush()
			b.WriteString(devaSigns[r])
		default:
			flush()
			b.WriteRune(r)
		}
	}
	flush()
	return strings.TrimSpace(b.String())
}
