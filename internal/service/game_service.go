package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/phoneme"
	"sabdakrida_backend/internal/util"
	"sabdakrida_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameService runs Dhātu Dash and weakness-targeted drill retrieval.
// Challenges are stateless on the server: the full tagged challenge
// round-trips through the client and is validated on return.
type GameService struct {
	grammar  *GrammarService
	profiles *ProfileService
	vector   ChunkSearcher
}

func NewGameService(grammar *GrammarService, profiles *ProfileService, vector ChunkSearcher) *GameService {
	return &GameService{grammar: grammar, profiles: profiles, vector: vector}
}

// NewDhatuDash starts a game on a fresh root, or continues the session
// carried by a previous challenge.
func (s *GameService) NewDhatuDash(userID uint, prev *model.DhatuDashState) (*model.Challenge, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}

	state := prev
	if state == nil {
		root, err := s.grammar.PickRoot()
		if err != nil {
			return nil, err
		}
		state = &model.DhatuDashState{
			RootID:      root.ID,
			RootIAST:    root.IAST,
			RootMeaning: root.Meaning,
			ValidForms:  ValidForms(root),
			Tree:        []string{root.IAST},
		}
	}

	unused := unusedForms(state)
	prompt := fmt.Sprintf("√%s (%s). Tree so far: %s. Produce a valid derived form not yet in the tree.",
		state.RootIAST, state.RootMeaning, treeString(state))
	if len(unused) == 0 {
		prompt = fmt.Sprintf("√%s exhausted! Tree: %s", state.RootIAST, treeString(state))
	}

	return &model.Challenge{
		ID:         "dhatu_" + uuid.NewString(),
		Kind:       model.KindDhatuDash,
		Prompt:     prompt,
		Topic:      "dhatu",
		Difficulty: profile.TargetDifficulty(),
		DhatuDash:  state,
	}, nil
}

// EvaluateDhatuDash checks the player's form, updates the profile, and
// hands back the grown challenge for the next turn.
func (s *GameService) EvaluateDhatuDash(ctx context.Context, userID uint, challenge *model.Challenge, input string) (*model.EvalResult, *model.Challenge, error) {
	if err := challenge.Validate(); err != nil {
		return nil, nil, util.ErrChallengeNotFound
	}
	if challenge.Kind != model.KindDhatuDash {
		return nil, nil, util.ErrChallengeNotFound
	}
	state := challenge.DhatuDash

	if len(unusedForms(state)) == 0 {
		return &model.EvalResult{
			Correct:     false,
			Explanation: "This root is exhausted. Start a new game!",
			Feedback:    "Start a new root.",
			Exhausted:   true,
		}, challenge, nil
	}

	chunkID := "dhatu_" + state.RootID
	normalized := NormalizeIAST(input)

	inTree := false
	for _, f := range state.Tree {
		if NormalizeIAST(f) == normalized {
			inTree = true
			break
		}
	}
	if inTree {
		return &model.EvalResult{
			Correct:     false,
			Explanation: fmt.Sprintf("You already used %s. Produce a different form.", input),
			Feedback:    "That form is already in the tree.",
			ChunkID:     chunkID,
		}, challenge, nil
	}

	for _, vf := range state.ValidForms {
		if NormalizeIAST(vf) != normalized {
			continue
		}
		state.Tree = append(state.Tree, normalized)
		state.ChallengeCount++

		explanation := fmt.Sprintf("Correct. %s", input)
		if d, ok := s.grammar.FindByID(state.RootID); ok {
			for _, df := range d.DerivedForms {
				if NormalizeIAST(df.Form) == normalized && df.Gloss != "" {
					explanation = fmt.Sprintf("Correct. %s = %s", input, df.Gloss)
					break
				}
			}
		}

		s.recordOutcome(ctx, userID, chunkID, true, input)
		next, err := s.NewDhatuDash(userID, state)
		if err != nil {
			return nil, nil, err
		}
		return &model.EvalResult{
			Correct:     true,
			Explanation: explanation,
			Feedback:    phoneme.DialoguePerfectRun,
			ChunkID:     chunkID,
		}, next, nil
	}

	s.recordOutcome(ctx, userID, chunkID, false, input)
	unused := unusedForms(state)
	hint := unused
	if len(hint) > 5 {
		hint = hint[:5]
	}
	return &model.EvalResult{
		Correct:     false,
		Explanation: fmt.Sprintf("'%s' is not a valid derived form of √%s. Valid unused: %s...", input, state.RootIAST, strings.Join(hint, ", ")),
		Feedback:    phoneme.DialogueTryAgain,
		ChunkID:     chunkID,
	}, challenge, nil
}

// recordOutcome feeds the learner profile. The chunk embedding comes
// from the vector store; when it is unreachable the centroid update is
// skipped and the rest of the profile still moves.
func (s *GameService) recordOutcome(ctx context.Context, userID uint, chunkID string, correct bool, answer string) {
	var embedding []float64
	if s.vector != nil {
		emb, err := s.vector.GetEmbedding(ctx, chunkID)
		if err != nil {
			logger.Log.Debug("chunk embedding unavailable", zap.String("chunk_id", chunkID), zap.Error(err))
		} else {
			embedding = emb
		}
	}
	if _, err := s.profiles.RecordResult(userID, chunkID, embedding, correct, "dhatu", answer); err != nil {
		logger.Log.Error("profile update failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// WeaknessDrills retrieves the chunks nearest the learner's weakness
// centroid, excluding already-seen drills, and marks the served ones
// seen.
func (s *GameService) WeaknessDrills(ctx context.Context, userID uint, n int) ([]Chunk, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}
	if s.vector == nil {
		return nil, nil
	}

	// over-fetch so exclusions still leave n results
	chunks, err := s.vector.Query(ctx, profile.WeaknessCentroid, n*3, profile.WeakTopics(0.5))
	if err != nil {
		logger.Log.Warn("weakness query unavailable", zap.Error(err))
		return nil, nil
	}

	var out []Chunk
	var served []string
	for _, c := range chunks {
		if profile.SeenDrillIDs[c.ID] {
			continue
		}
		out = append(out, c)
		served = append(served, c.ID)
		if len(out) == n {
			break
		}
	}
	if len(served) > 0 {
		if err := s.profiles.MarkDrillsSeen(userID, served); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unusedForms(state *model.DhatuDashState) []string {
	tree := make(map[string]bool, len(state.Tree))
	for _, f := range state.Tree {
		tree[NormalizeIAST(f)] = true
	}
	var unused []string
	for _, f := range state.ValidForms {
		if !tree[NormalizeIAST(f)] {
			unused = append(unused, f)
		}
	}
	return unused
}

func treeString(state *model.DhatuDashState) string {
	sorted := append([]string{}, state.Tree...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
