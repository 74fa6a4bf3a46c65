package phoneme

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffEntry is one expected/heard mismatch. Position is the rune index
// into the normalized target, or -1 when the heard side has extra
// characters with no counterpart in the target.
type DiffEntry struct {
	Expected string `json:"expected"`
	Heard    string `json:"heard"`
	Position int    `json:"position"`
}

// Diff aligns target and heard text character-by-character and returns
// the mismatched pairs. Only changed regions where both sides have text
// produce paired entries; within such a region pairing is strictly
// positional, so a two-character insertion mid-span can mis-pair the
// characters after it. The longer side of a changed region emits
// entries with an empty counterpart.
func Diff(target, heard string) []DiffEntry {
	targetNorm := Normalize(target)
	heardNorm := Normalize(heard)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes([]rune(targetNorm), []rune(heardNorm), false)

	var entries []DiffEntry
	pos := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			exp := []rune(d.Text)
			var got []rune
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				got = []rune(diffs[i+1].Text)
				i++
			}
			for j, e := range exp {
				g := ""
				if j < len(got) {
					g = string(got[j])
				}
				entries = append(entries, DiffEntry{Expected: string(e), Heard: g, Position: pos + j})
			}
			for j := len(exp); j < len(got); j++ {
				entries = append(entries, DiffEntry{Expected: "", Heard: string(got[j]), Position: -1})
			}
			pos += len(exp)
		case diffmatchpatch.DiffInsert:
			// extra heard characters with no deleted counterpart:
			// transcription noise rather than a confusion, not paired
		}
	}
	return entries
}

// Similarity returns a 0–1 ratio: matched characters x2 over the total
// characters of both normalized strings. Two empty strings are
// identical (1.0); a non-empty target against empty heard is 0.0.
func Similarity(target, heard string) float64 {
	targetNorm := Normalize(target)
	heardNorm := Normalize(heard)
	if targetNorm == "" && heardNorm == "" {
		return 1.0
	}
	if targetNorm == "" || heardNorm == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes([]rune(targetNorm), []rune(heardNorm), false)

	matched := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += len([]rune(d.Text))
		}
	}
	total := len([]rune(targetNorm)) + len([]rune(heardNorm))
	return float64(2*matched) / float64(total)
}
