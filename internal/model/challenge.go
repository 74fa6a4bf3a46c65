package model

import (
	"encoding/json"
	"fmt"
)

// ChallengeKind tags the game a challenge belongs to. Session state is
// carried as an explicit per-kind payload rather than a free-form map,
// so a round-tripped challenge always reconstructs with its full type.
type ChallengeKind string

const (
	KindDhatuDash ChallengeKind = "dhatu_dash"
	KindDrillWord ChallengeKind = "drill_word"
)

// DhatuDashState is one Dhātu Dash session: a root and the tree of
// forms already produced from it.
type DhatuDashState struct {
	RootID         string   `json:"rootId"`
	RootIAST       string   `json:"rootIast"`
	RootMeaning    string   `json:"rootMeaning"`
	ValidForms     []string `json:"validForms"`
	Tree           []string `json:"tree"`
	ChallengeCount int      `json:"challengeCount"`
}

// DrillWordState is one pronunciation drill item targeting an error
// category.
type DrillWordState struct {
	ErrorType string `json:"errorType"`
	Word      string `json:"word"`
}

// Challenge is a tagged variant: exactly one payload is set, matching
// Kind.
type Challenge struct {
	ID         string        `json:"id"`
	Kind       ChallengeKind `json:"kind"`
	Prompt     string        `json:"prompt"`
	Topic      string        `json:"topic"`
	Difficulty float64       `json:"difficulty"`

	DhatuDash *DhatuDashState `json:"dhatuDash,omitempty"`
	DrillWord *DrillWordState `json:"drillWord,omitempty"`
}

// Validate checks the kind/payload pairing after deserialization.
func (c *Challenge) Validate() error {
	switch c.Kind {
	case KindDhatuDash:
		if c.DhatuDash == nil {
			return fmt.Errorf("challenge %s: kind %s without payload", c.ID, c.Kind)
		}
	case KindDrillWord:
		if c.DrillWord == nil {
			return fmt.Errorf("challenge %s: kind %s without payload", c.ID, c.Kind)
		}
	default:
		return fmt.Errorf("challenge %s: unknown kind %q", c.ID, c.Kind)
	}
	return nil
}

// DecodeChallenge parses and validates a serialized challenge.
func DecodeChallenge(raw []byte) (*Challenge, error) {
	var c Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// EvalResult is the outcome of evaluating player input.
type EvalResult struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
	Feedback    string `json:"feedback"`
	ChunkID     string `json:"chunkId,omitempty"`
	Exhausted   bool   `json:"exhausted,omitempty"`
}
