package service

import (
	"context"
	"fmt"
	"strings"

	"sabdakrida_backend/pkg/logger"
	"sabdakrida_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ConceptualPassThreshold is the fraction of rubric criteria an answer
// must meet.
const ConceptualPassThreshold = 0.7

// ConceptualMeta reports how a conceptual assessment was decided.
type ConceptualMeta struct {
	CriteriaMet   int     `json:"criteriaMet"`
	CriteriaTotal int     `json:"criteriaTotal"`
	Ratio         float64 `json:"ratio"`
	Heuristic     bool    `json:"heuristic,omitempty"`
}

// ConceptualAssessor grades free-text explanations against a rubric.
// The LLM checks each criterion; when the LLM is unconfigured or
// errors, a keyword heuristic keeps the session moving.
type ConceptualAssessor struct {
	ai      *AIService
	checker RubricChecker
}

func NewConceptualAssessor(ai *AIService) *ConceptualAssessor {
	return &ConceptualAssessor{ai: ai, checker: ai}
}

func (a *ConceptualAssessor) Assess(ctx context.Context, answer string, criteria []string) (bool, string, ConceptualMeta) {
	if len(criteria) == 0 {
		return true, "", ConceptualMeta{}
	}

	if a.ai == nil || !a.ai.Available() {
		return heuristicCheck(answer, criteria)
	}

	hits, total, err := a.checker.CheckRubric(ctx, answer, criteria)
	if err != nil {
		logger.Log.Warn("rubric check unavailable, using keyword heuristic", zap.Error(err))
		monitoring.ProviderFallbacks.WithLabelValues("llm").Inc()
		return heuristicCheck(answer, criteria)
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	meta := ConceptualMeta{CriteriaMet: hits, CriteriaTotal: total, Ratio: ratio}
	if ratio >= ConceptualPassThreshold {
		return true, "Your explanation demonstrates understanding.", meta
	}
	return false, fmt.Sprintf("Review the concept. You met %d/%d criteria.", hits, total), meta
}

// heuristicCheck is the offline fallback: a criterion counts as met
// when any of its significant words (longer than 3 characters) appears
// in the answer.
func heuristicCheck(answer string, criteria []string) (bool, string, ConceptualMeta) {
	lower := strings.ToLower(answer)
	hits := 0
	for _, c := range criteria {
		for _, w := range strings.Fields(strings.ToLower(c)) {
			if len([]rune(w)) > 3 && strings.Contains(lower, w) {
				hits++
				break
			}
		}
	}
	total := len(criteria)
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	meta := ConceptualMeta{CriteriaMet: hits, CriteriaTotal: total, Ratio: ratio, Heuristic: true}
	if ratio >= ConceptualPassThreshold {
		return true, "Your explanation touches on the key points.", meta
	}
	return false, fmt.Sprintf("Heuristic: met %d/%d criteria. Use voice/LLM for proper assessment.", hits, total), meta
}
