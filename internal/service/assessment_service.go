package service

import (
	"fmt"
	"math"
	"strings"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/phoneme"
)

const (
	// StrictPerfectCap caps a flawless attempt below 1.0: character-level
	// similarity through an ASR cannot certify a truly perfect
	// pronunciation, and an unreachable 100% keeps learners honest.
	StrictPerfectCap = 0.99

	// DurationMissScore is awarded when every phoneme matched but the
	// utterance was too fast for its long vowels.
	DurationMissScore = 0.85

	// PassThreshold separates pass from fail wherever a binary outcome
	// is needed.
	PassThreshold = 0.85

	// Duration heuristic: roughly how long a careful Sanskrit utterance
	// takes per character, and the floor below which the estimate is
	// meaningless.
	refSecondsPerChar = 0.12
	minRefSeconds     = 0.5
)

// AssessmentService turns a diff result into a graded attempt: score,
// error categories, and position-specific feedback.
type AssessmentService struct{}

func NewAssessmentService() *AssessmentService {
	return &AssessmentService{}
}

// checkVowelDuration is the fast heuristic for vowel-length failure:
// when the target has long vowels and the learner's audio is under half
// the estimated reference duration, the long vowels were clipped.
// durationSeconds == 0 means duration is unknown; the check is skipped.
func checkVowelDuration(target string, durationSeconds float64) (bool, float64) {
	if !phoneme.HasLongVowel(target) {
		return false, 0
	}
	if durationSeconds <= 0 {
		return false, 0
	}
	ref := math.Max(minRefSeconds, refSecondsPerChar*float64(len([]rune(target))))
	return durationSeconds < ref*0.5, ref
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Score grades one pronunciation attempt. target and heard are IAST;
// durationSeconds is the learner audio duration, 0 when unknown.
func (s *AssessmentService) Score(target, heard string, durationSeconds float64) *model.AssessmentResult {
	errors := phoneme.Diff(target, heard)
	base := phoneme.Similarity(target, heard)
	durationFail, refDur := checkVowelDuration(target, durationSeconds)

	var score float64
	switch {
	case len(errors) == 0 && !durationFail:
		score = math.Min(StrictPerfectCap, round2(base))
	case len(errors) == 0 && durationFail:
		score = DurationMissScore
	default:
		score = round2(base)
	}

	correct := len(errors) == 0 && !durationFail
	if correct && score < PassThreshold {
		// Insertions alone never fail an attempt, but a pass must not
		// score below the pass threshold.
		score = PassThreshold
	}

	var errorTypes []phoneme.ErrorCategory
	for _, e := range errors {
		if cat, ok := phoneme.Classify(e.Expected, e.Heard); ok {
			errorTypes = append(errorTypes, cat)
		}
	}
	if durationFail {
		errorTypes = append(errorTypes, phoneme.VowelLength)
	}

	errorDetails := buildErrorDetails(target, errors, durationFail)

	result := &model.AssessmentResult{
		Target:       target,
		HeardIAST:    heard,
		Score:        score,
		Correct:      correct,
		Errors:       errors,
		ErrorTypes:   errorTypes,
		ErrorDetails: errorDetails,
	}
	s.attachFeedback(result, durationSeconds, refDur)
	return result
}

func buildErrorDetails(target string, errors []phoneme.DiffEntry, durationFail bool) []model.ErrorDetail {
	var details []model.ErrorDetail
	for _, e := range errors {
		cat, ok := phoneme.Classify(e.Expected, e.Heard)
		if !ok || cat != phoneme.VowelLength || e.Position < 0 {
			continue
		}
		syllable := phoneme.SyllableAt(target, e.Position)
		if syllable == "" {
			continue
		}
		longVowel := e.Expected
		if !isLongVowel(longVowel) {
			longVowel = e.Heard
		}
		if !isLongVowel(longVowel) {
			continue
		}
		details = append(details, model.ErrorDetail{
			Type:     phoneme.VowelLength,
			Word:     target,
			Syllable: syllable,
			Vowel:    longVowel,
			Message:  fmt.Sprintf("In %s, the %s in %s should be held twice as long.", target, longVowel, syllable),
		})
	}

	// duration-only miss: phonemes matched but speech too fast
	if durationFail && len(details) == 0 {
		var present []string
		for _, v := range phoneme.LongVowels {
			if strings.Contains(target, v) {
				present = append(present, v)
			}
		}
		if len(present) > 0 {
			details = append(details, model.ErrorDetail{
				Type:    phoneme.VowelLength,
				Word:    target,
				Vowel:   present[0],
				Message: fmt.Sprintf("In %s, hold the long vowel(s) (%s) twice as long.", target, strings.Join(present, ", ")),
			})
		}
	}
	return details
}

func isLongVowel(s string) bool {
	for _, v := range phoneme.LongVowels {
		if s == v {
			return true
		}
	}
	return false
}

// attachFeedback picks the teacher utterance (Sanskrit for TTS) and
// the English display line for the result.
func (s *AssessmentService) attachFeedback(r *model.AssessmentResult, durationSeconds, refDur float64) {
	if r.Correct {
		r.FeedbackAudioKey = model.FeedbackAudioKey{Text: phoneme.DialogueCorrect, Style: StylePraise}
		r.FeedbackEnglish = phoneme.FeedbackCorrect
		return
	}

	primary, ok := mostFrequentCategory(r.ErrorTypes)
	if ok {
		if exp, found := phoneme.Explain(primary); found {
			r.FeedbackAudioKey = model.FeedbackAudioKey{Text: exp.Sanskrit, Style: exp.Tone}
			r.FeedbackEnglish = exp.English
			if len(r.ErrorDetails) > 0 {
				r.FeedbackEnglish = r.ErrorDetails[0].Message
			}
			return
		}
	}

	r.FeedbackAudioKey = model.FeedbackAudioKey{Text: phoneme.DialogueTryAgain, Style: StyleCommand}
	r.FeedbackEnglish = genericAdvice(r.Target, r.Errors, durationSeconds, refDur)
	if len(r.ErrorDetails) > 0 {
		r.FeedbackEnglish = r.ErrorDetails[0].Message
	}
}

// mostFrequentCategory returns the category occurring most often,
// first-encountered winning ties.
func mostFrequentCategory(cats []phoneme.ErrorCategory) (phoneme.ErrorCategory, bool) {
	if len(cats) == 0 {
		return "", false
	}
	counts := make(map[phoneme.ErrorCategory]int)
	firstIdx := make(map[phoneme.ErrorCategory]int)
	for i, c := range cats {
		if _, seen := counts[c]; !seen {
			firstIdx[c] = i
		}
		counts[c]++
	}
	best := cats[0]
	for c, n := range counts {
		if n > counts[best] || (n == counts[best] && firstIdx[c] < firstIdx[best]) {
			best = c
		}
	}
	return best, true
}

// genericAdvice gives actionable hints when no known confusion
// matched: timing advice from the duration ratio when available, else
// a detail from the raw diff, else structured articulation tips. Never
// a bland "try again".
func genericAdvice(target string, errors []phoneme.DiffEntry, durationSeconds, refDur float64) string {
	if refDur > 0.15 && durationSeconds > 0 {
		ratio := durationSeconds / refDur
		switch {
		case ratio < 0.5:
			return "Speak more slowly. Hold each syllable clearly — Sanskrit vowels need full length."
		case ratio < 0.75:
			return "Slightly too fast. Try lengthening the long vowels (ā, ī, ū) — they should be twice as long as short ones."
		case ratio > 2.0:
			return "A bit slow — that's okay for practice. Focus on clarity of each sound."
		}
	}

	if len(errors) > 0 {
		heard := errors[0].Heard
		if heard == "" {
			heard = "(gap)"
		}
		return fmt.Sprintf(
			"The model didn't recognize some sounds. Model heard %s instead of %s. "+
				"Try: (1) speak a bit slower, (2) emphasise each syllable clearly, "+
				"(3) hold long vowels (ā, ī, ū) twice as long as short ones.",
			heard, errors[0].Expected)
	}

	return "Speak more slowly and clearly. Emphasise each syllable — " +
		"Sanskrit sounds (retroflex ṭ/ḍ, aspirated dh/bh, long vowels) need careful articulation."
}
