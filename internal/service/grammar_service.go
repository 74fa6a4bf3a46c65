package service

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/util"
)

// GrammarService validates grammar production deterministically
// against the dhātu reference table. Wrong form = wrong; no LLM in
// this path.
type GrammarService struct {
	dhatus    []model.Dhatu
	rootForms map[string]map[string]bool
}

// NewGrammarService loads the root table. A missing or unreadable file
// is not fatal at startup; production checks return
// ErrDhatuDataUnavailable until the data is provided.
func NewGrammarService(path string) *GrammarService {
	s := &GrammarService{rootForms: make(map[string]map[string]bool)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var dhatus []model.Dhatu
	if err := json.Unmarshal(raw, &dhatus); err != nil {
		var wrapped struct {
			Data []model.Dhatu `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return s
		}
		dhatus = wrapped.Data
	}

	s.dhatus = dhatus
	s.buildRootForms()
	return s
}

func (s *GrammarService) Available() bool {
	return len(s.dhatus) > 0
}

func (s *GrammarService) Dhatus() []model.Dhatu {
	return s.dhatus
}

func (s *GrammarService) FindByID(id string) (*model.Dhatu, bool) {
	for i := range s.dhatus {
		if s.dhatus[i].ID == id {
			return &s.dhatus[i], true
		}
	}
	return nil, false
}

// commonRootIDs are picked first for new games: high-frequency roots a
// learner meets earliest.
var commonRootIDs = map[string]bool{
	"dhatu-bhu":   true,
	"dhatu-kri":   true,
	"dhatu-gam":   true,
	"dhatu-vach":  true,
	"dhatu-drish": true,
}

// PickRoot chooses a root for a new game, preferring common ones.
func (s *GrammarService) PickRoot() (*model.Dhatu, error) {
	if !s.Available() {
		return nil, util.ErrDhatuDataUnavailable
	}
	var candidates []*model.Dhatu
	for i := range s.dhatus {
		if commonRootIDs[s.dhatus[i].ID] {
			candidates = append(candidates, &s.dhatus[i])
		}
	}
	if len(candidates) == 0 {
		n := len(s.dhatus)
		if n > 15 {
			n = 15
		}
		for i := 0; i < n; i++ {
			candidates = append(candidates, &s.dhatus[i])
		}
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// ValidForms returns every attested IAST form for a root: the root
// itself, its derived forms and its derivesTo names.
func ValidForms(d *model.Dhatu) []string {
	forms := []string{d.IAST}
	seen := map[string]bool{NormalizeIAST(d.IAST): true}
	for _, df := range d.DerivedForms {
		n := NormalizeIAST(df.Form)
		if n != "" && !seen[n] {
			seen[n] = true
			forms = append(forms, df.Form)
		}
	}
	for _, name := range d.DerivesTo {
		n := NormalizeIAST(name)
		if n != "" && !seen[n] {
			seen[n] = true
			forms = append(forms, name)
		}
	}
	return forms
}

// NormalizeIAST prepares a form for comparison: trim and lowercase,
// diacritics preserved.
func NormalizeIAST(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// simplifyIAST strips the diacritics learners most often omit when
// typing, so "bhu" still finds √bhū.
var iastSimplifier = strings.NewReplacer(
	"ū", "u", "ṛ", "r", "ṃ", "m", "ā", "a", "ī", "i", "ṭ", "t",
)

func (s *GrammarService) buildRootForms() {
	for _, d := range s.dhatus {
		iast := NormalizeIAST(d.IAST)
		if iast == "" {
			continue
		}
		forms := make(map[string]bool)
		for _, f := range ValidForms(&d) {
			forms[NormalizeIAST(f)] = true
		}
		s.rootForms[iast] = forms

		simple := iastSimplifier.Replace(iast)
		if simple != iast {
			s.rootForms[simple] = forms
		}
		// learner shorthand aliases
		switch iast {
		case "kṛ":
			s.rootForms["kri"] = forms
		case "bhū":
			s.rootForms["bhu"] = forms
		case "gam":
			s.rootForms["ga"] = forms
		}
	}
}

// FormsForRoot returns the valid-form set for a root given in any of
// its lookup spellings.
func (s *GrammarService) FormsForRoot(root string) (map[string]bool, bool) {
	forms, ok := s.rootForms[NormalizeIAST(root)]
	return forms, ok
}

// AssessProduction checks a learner answer against production
// criteria. Returns (passed, feedback).
func (s *GrammarService) AssessProduction(answer string, criteria []string) (bool, string, error) {
	if len(criteria) == 0 {
		return true, "", nil
	}

	norm := NormalizeIAST(answer)
	if norm == "" {
		return false, "No answer provided.", nil
	}

	has := func(c string) bool {
		for _, x := range criteria {
			if x == c {
				return true
			}
		}
		return false
	}

	if has("correct_root_for_gacchati") {
		if norm == "gam" || norm == "ga" || norm == "gama" {
			return true, "Correct. गच्छति derives from √गम् (gam).", nil
		}
		return false, fmt.Sprintf("गच्छति (gacchati) comes from the root √गम् (gam), not %s.", answer), nil
	}

	if has("gacchati") {
		if norm == "gacchati" {
			return true, "Correct.", nil
		}
		return false, fmt.Sprintf("The present 3rd person singular of √गम् is गच्छति (gacchati). You wrote: %s.", answer), nil
	}

	if has("produces_3_valid_forms") || has("produces_5_valid_forms") {
		if !s.Available() {
			return false, "", util.ErrDhatuDataUnavailable
		}
		minForms := 3
		if has("produces_5_valid_forms") {
			minForms = 5
		}
		rootHint := "bhu"
		if has("root_kri") {
			rootHint = "kri"
		} else if has("root_bhu") {
			rootHint = "bhu"
		}
		valid, ok := s.FormsForRoot(rootHint)
		if !ok || len(valid) == 0 {
			return false, "", util.ErrDhatuDataUnavailable
		}

		fields := strings.FieldsFunc(norm, func(r rune) bool {
			return r == ',' || r == '\n' || r == ' ' || r == '\t'
		})
		found := 0
		counted := make(map[string]bool)
		for _, p := range fields {
			n := NormalizeIAST(p)
			if valid[n] && !counted[n] {
				counted[n] = true
				found++
			}
		}
		if found >= minForms {
			return true, fmt.Sprintf("Correct. You produced %d valid form(s).", found), nil
		}
		sample := make([]string, 0, len(valid))
		for f := range valid {
			sample = append(sample, f)
		}
		sort.Strings(sample)
		if len(sample) > 8 {
			sample = sample[:8]
		}
		return false, fmt.Sprintf("You produced %d valid form(s). Need at least %d. Valid forms for √%s include: %s...",
			found, minForms, rootHint, strings.Join(sample, ", ")), nil
	}

	return false, "Assessment criteria not implemented for this production check.", nil
}
