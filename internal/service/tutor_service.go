package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/util"

	"github.com/google/uuid"
)

// Assessment types a session spec can declare.
const (
	AssessConceptual = "conceptual"
	AssessProduction = "production"
)

// ZoneMeta describes one curriculum zone.
type ZoneMeta struct {
	Order         int      `json:"order"`
	Label         string   `json:"label"`
	LevelCount    int      `json:"levelCount"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

// Zones is the curriculum map. A zone unlocks when each prerequisite
// has at least its intro level passed.
var Zones = map[string]ZoneMeta{
	"compression": {Order: 1, Label: "Pratyāhāra Compression", LevelCount: 5},
	"phonetics":   {Order: 2, Label: "Places of Articulation", LevelCount: 5},
	"roots":       {Order: 3, Label: "Verbal Roots", LevelCount: 5, Prerequisites: []string{"phonetics"}},
	"sandhi":      {Order: 4, Label: "Sandhi", LevelCount: 5, Prerequisites: []string{"phonetics"}},
	"karakas":     {Order: 5, Label: "Kāraka Roles", LevelCount: 5, Prerequisites: []string{"roots"}},
	"compounds":   {Order: 6, Label: "Compounds", LevelCount: 5, Prerequisites: []string{"sandhi", "roots"}},
}

// RemedialSpec routes a learner who exhausted the retry budget.
type RemedialSpec struct {
	PrerequisiteZones []string `json:"prerequisiteZones"`
	RetryVariant      string   `json:"retryVariant,omitempty"`
}

// SessionSpec is the static definition of one (zone, level) session.
type SessionSpec struct {
	Zone               string       `json:"zone"`
	Level              int          `json:"level"`
	Objectives         []string     `json:"objectives"`
	AssessmentType     string       `json:"assessmentType"`
	MaxDurationMinutes int          `json:"maxDurationMinutes"`
	Conceptual         []string     `json:"conceptual,omitempty"`
	Production         []string     `json:"production,omitempty"`
	Pronunciation      bool         `json:"pronunciation,omitempty"`
	TargetText         string       `json:"targetText,omitempty"`
	Remedial           RemedialSpec `json:"remedial"`
}

var sessionSpecs = []SessionSpec{
	{
		Zone: "compression", Level: 1,
		Objectives:         []string{"Explain what a pratyāhāra is", "Give one example such as ac or hal"},
		AssessmentType:     AssessConceptual,
		MaxDurationMinutes: 15,
		Conceptual: []string{
			"mentions pratyāhāra abbreviates groups of sounds from the Śivasūtras",
			"gives a concrete example like ac (all vowels) or hal (all consonants)",
		},
		Remedial: RemedialSpec{PrerequisiteZones: nil, RetryVariant: "guided_example"},
	},
	{
		Zone: "phonetics", Level: 1,
		Objectives:         []string{"Name the five places of articulation", "Give an example consonant from each"},
		AssessmentType:     AssessConceptual,
		MaxDurationMinutes: 15,
		Conceptual: []string{
			"names guttural (kaṇṭhya) sounds like k",
			"names palatal (tālavya) sounds like c",
			"names retroflex (mūrdhanya) sounds like ṭ",
			"names dental (dantya) sounds like t",
			"names labial (oṣṭhya) sounds like p",
		},
		Remedial: RemedialSpec{RetryVariant: "mouth_diagram"},
	},
	{
		Zone: "roots", Level: 1,
		Objectives:         []string{"Explain what a dhātu is", "Give one root and one derived form"},
		AssessmentType:     AssessConceptual,
		MaxDurationMinutes: 15,
		Conceptual: []string{
			"explains a dhātu is a verbal root that words derive from",
			"gives an example root and a form built from it",
		},
		Remedial: RemedialSpec{PrerequisiteZones: []string{"phonetics"}},
	},
	{
		Zone: "roots", Level: 2,
		Objectives:         []string{"Identify the root of gacchati"},
		AssessmentType:     AssessProduction,
		MaxDurationMinutes: 10,
		Production:         []string{"correct_root_for_gacchati"},
		Remedial:           RemedialSpec{PrerequisiteZones: []string{"roots"}, RetryVariant: "root_table_review"},
	},
	{
		Zone: "roots", Level: 3,
		Objectives:         []string{"Produce 3 valid forms from √bhū"},
		AssessmentType:     AssessProduction,
		MaxDurationMinutes: 15,
		Production:         []string{"produces_3_valid_forms", "root_bhu"},
		Remedial:           RemedialSpec{PrerequisiteZones: []string{"roots"}},
	},
	{
		Zone: "roots", Level: 4,
		Objectives:         []string{"Give the present 3rd singular of √gam"},
		AssessmentType:     AssessProduction,
		MaxDurationMinutes: 10,
		Production:         []string{"gacchati"},
		Pronunciation:      true,
		TargetText:         "gacchati",
		Remedial:           RemedialSpec{PrerequisiteZones: []string{"roots"}, RetryVariant: "conjugation_drill"},
	},
	{
		Zone: "roots", Level: 5,
		Objectives:         []string{"Produce 5 forms from √kṛ across tenses or moods"},
		AssessmentType:     AssessProduction,
		MaxDurationMinutes: 15,
		Production:         []string{"produces_5_valid_forms", "root_kri"},
		Remedial:           RemedialSpec{PrerequisiteZones: []string{"roots"}},
	},
	{
		Zone: "sandhi", Level: 1,
		Objectives:         []string{"Explain what sandhi is", "Give one vowel sandhi example"},
		AssessmentType:     AssessConceptual,
		MaxDurationMinutes: 15,
		Conceptual: []string{
			"explains sandhi as sound changes at word or morpheme boundaries",
			"gives an example such as a + i becoming e",
		},
		Remedial: RemedialSpec{PrerequisiteZones: []string{"phonetics"}},
	},
}

// SessionStart is the response to starting (or being blocked from) a
// session.
type SessionStart struct {
	SessionID          string   `json:"sessionId,omitempty"`
	Zone               string   `json:"zone"`
	Level              int      `json:"level"`
	Objectives         []string `json:"objectives,omitempty"`
	AssessmentType     string   `json:"assessmentType,omitempty"`
	MaxDurationMinutes int      `json:"maxDurationMinutes,omitempty"`
	Prompt             string   `json:"prompt,omitempty"`
	StartedAt          string   `json:"startedAt,omitempty"`

	Remedial          bool     `json:"remedial,omitempty"`
	Message           string   `json:"message,omitempty"`
	PrerequisiteZones []string `json:"prerequisiteZones,omitempty"`
	RetryVariant      string   `json:"retryVariant,omitempty"`
}

// SessionResult is the outcome of a submitted session turn.
type SessionResult struct {
	Passed           bool            `json:"passed"`
	Feedback         string          `json:"feedback"`
	ZoneLevel        int             `json:"zoneLevel,omitempty"`
	RetriesRemaining int             `json:"retriesRemaining,omitempty"`
	Remedial         *RemedialSpec   `json:"remedial,omitempty"`
	Conceptual       *ConceptualMeta `json:"conceptual,omitempty"`
	Unverified       bool            `json:"unverified,omitempty"`
}

// TutorService runs the objective-driven session state machine and the
// weekly arc planner.
type TutorService struct {
	repo          *repository.TutorRepository
	conceptual    *ConceptualAssessor
	grammar       *GrammarService
	pronunciation *PronunciationService
}

func NewTutorService(
	repo *repository.TutorRepository,
	conceptual *ConceptualAssessor,
	grammar *GrammarService,
	pronunciation *PronunciationService,
) *TutorService {
	return &TutorService{
		repo:          repo,
		conceptual:    conceptual,
		grammar:       grammar,
		pronunciation: pronunciation,
	}
}

// Spec returns the static spec for a (zone, level).
func (s *TutorService) Spec(zone string, level int) (*SessionSpec, error) {
	for i := range sessionSpecs {
		if sessionSpecs[i].Zone == zone && sessionSpecs[i].Level == level {
			return &sessionSpecs[i], nil
		}
	}
	return nil, util.ErrSessionSpecNotFound
}

// firstPrompt picks the opening prompt for a session. Static bank; an
// LLM could generate these later but a fixed prompt keeps assessment
// aligned with the rubric.
func firstPrompt(spec *SessionSpec) string {
	switch {
	case spec.Zone == "compression" && spec.Level == 1:
		return "What is a pratyāhāra? Give one example, e.g. ac or hal."
	case spec.Zone == "phonetics" && spec.Level == 1:
		return "Name the five places of articulation in Sanskrit. Give one example consonant from each place."
	case spec.Zone == "roots" && spec.Level == 1:
		return "In your own words, what is a dhātu (verbal root)? Give one example of a root and a form derived from it."
	case spec.Zone == "roots" && spec.Level == 2:
		return "What is the root (dhātu) of गच्छति (gacchati)? Give just the root in IAST."
	case spec.Zone == "roots" && spec.Level == 3:
		return "Produce 3 valid forms derived from the root √भू (bhū). You can use verbs, participles, nouns — any attested form. List them separated by commas."
	case spec.Zone == "roots" && spec.Level == 4:
		return "What is the present tense, 3rd person singular of the root √गम् (gam)? Give the form in IAST."
	case spec.Zone == "roots" && spec.Level == 5:
		return "Produce 5 different forms from the root √कृ (kṛ) across different tenses or moods. List them separated by commas."
	}
	return "Complete the following: " + strings.Join(spec.Objectives, "; ")
}

// StartSession opens a session, or routes to remedial material when
// the retry budget for this level is spent.
func (s *TutorService) StartSession(userID uint, zone string, level int) (*SessionStart, error) {
	profile, err := s.repo.LoadOrCreate(userID)
	if err != nil {
		return nil, err
	}
	spec, err := s.Spec(zone, level)
	if err != nil {
		return nil, err
	}

	if profile.RetriesFor(zone, level) >= model.MaxLevelAttempts {
		return &SessionStart{
			Zone:              zone,
			Level:             level,
			Remedial:          true,
			Message:           "You've had 3 attempts. Let's review prerequisite material first.",
			PrerequisiteZones: spec.Remedial.PrerequisiteZones,
			RetryVariant:      spec.Remedial.RetryVariant,
		}, nil
	}

	return &SessionStart{
		SessionID:          fmt.Sprintf("%d_%s_%d_%s", userID, zone, level, uuid.NewString()),
		Zone:               zone,
		Level:              level,
		Objectives:         spec.Objectives,
		AssessmentType:     spec.AssessmentType,
		MaxDurationMinutes: spec.MaxDurationMinutes,
		Prompt:             firstPrompt(spec),
		StartedAt:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SubmitSession assesses a learner response. A pass raises the zone
// level (monotonic) and clears the retry counter; a fail increments it
// and, at the limit, attaches the remedial route.
func (s *TutorService) SubmitSession(ctx context.Context, userID uint, zone string, level int, input, audioPath string) (*SessionResult, error) {
	profile, err := s.repo.LoadOrCreate(userID)
	if err != nil {
		return nil, err
	}
	spec, err := s.Spec(zone, level)
	if err != nil {
		return nil, err
	}

	var (
		passed   bool
		feedback string
		meta     *ConceptualMeta
	)
	unverified := false

	switch spec.AssessmentType {
	case AssessProduction:
		if spec.Pronunciation {
			passed, feedback, unverified, err = s.assessSpokenProduction(ctx, userID, profile, spec, input, audioPath)
			if err != nil {
				return nil, err
			}
		} else {
			passed, feedback, err = s.grammar.AssessProduction(input, spec.Production)
			if err != nil {
				return nil, err
			}
		}
	default:
		var m ConceptualMeta
		passed, feedback, m = s.conceptual.Assess(ctx, input, spec.Conceptual)
		meta = &m
	}

	if passed {
		profile.PassLevel(zone, level)
		if err := s.repo.Save(profile); err != nil {
			return nil, err
		}
		return &SessionResult{
			Passed:     true,
			Feedback:   feedback,
			ZoneLevel:  profile.ZoneLevels[zone],
			Conceptual: meta,
			Unverified: unverified,
		}, nil
	}

	retries := profile.IncrementRetry(zone, level)
	if err := s.repo.Save(profile); err != nil {
		return nil, err
	}

	result := &SessionResult{
		Passed:           false,
		Feedback:         feedback,
		RetriesRemaining: model.MaxLevelAttempts - retries,
		Conceptual:       meta,
		Unverified:       unverified,
	}
	if retries >= model.MaxLevelAttempts {
		result.RetriesRemaining = 0
		remedial := spec.Remedial
		result.Remedial = &remedial
	}
	return result, nil
}

// assessSpokenProduction handles production levels gated on
// pronunciation. Text-only input cannot be verified: the level is
// flagged unverified on the profile and the attempt fails with an
// explanation rather than a wrong-answer verdict.
func (s *TutorService) assessSpokenProduction(ctx context.Context, userID uint, profile *model.TutorProfile, spec *SessionSpec, input, audioPath string) (bool, string, bool, error) {
	if audioPath == "" {
		profile.UnverifiedPronunciation[profile.LevelKey(spec.Zone, spec.Level)] = true
		return false,
			"Pronunciation cannot be verified from text. Use voice input for production checks, or this will be marked as unverified.",
			true, nil
	}

	result, err := s.pronunciation.Assess(ctx, userID, audioPath, spec.TargetText)
	if err != nil {
		return false, "", false, err
	}
	if result.Unverified {
		profile.UnverifiedPronunciation[profile.LevelKey(spec.Zone, spec.Level)] = true
		return false, result.FeedbackEnglish, true, nil
	}
	passed := result.Correct || result.Score >= PassThreshold
	return passed, result.FeedbackEnglish, false, nil
}
