package service

import (
	"context"
	"errors"
	"testing"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTutorService(t *testing.T) (*TutorService, *repository.TutorRepository) {
	t.Helper()
	db := testDB(t)
	repo := repository.NewTutorRepository(db)
	drills := NewDrillService(repository.NewPhonemeErrorRepository(db))
	scores := repository.NewScoreRepository(db)
	pron := NewPronunciationService(nil, NewAssessmentService(), drills, scores, nil)
	svc := NewTutorService(repo, NewConceptualAssessor(nil), testGrammarService(t), pron)
	return svc, repo
}

func TestSpecLookup(t *testing.T) {
	svc, _ := newTutorService(t)

	spec, err := svc.Spec("roots", 2)
	require.NoError(t, err)
	assert.Equal(t, AssessProduction, spec.AssessmentType)
	assert.Equal(t, []string{"correct_root_for_gacchati"}, spec.Production)

	_, err = svc.Spec("roots", 99)
	assert.True(t, errors.Is(err, util.ErrSessionSpecNotFound))
	_, err = svc.Spec("nonsense", 1)
	assert.True(t, errors.Is(err, util.ErrSessionSpecNotFound))
}

func TestStartSession(t *testing.T) {
	svc, _ := newTutorService(t)

	start, err := svc.StartSession(1, "compression", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, start.SessionID)
	assert.Equal(t, "compression", start.Zone)
	assert.Equal(t, 1, start.Level)
	assert.Contains(t, start.Prompt, "pratyāhāra")
	assert.NotEmpty(t, start.Objectives)
	assert.False(t, start.Remedial)
}

func TestSubmitSessionConceptualPass(t *testing.T) {
	svc, repo := newTutorService(t)
	ctx := context.Background()

	result, err := svc.SubmitSession(ctx, 1, "compression", 1,
		"A pratyāhāra abbreviates groups of sounds from the Śivasūtras; for example ac covers all vowels.", "")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.ZoneLevel)
	require.NotNil(t, result.Conceptual)
	assert.True(t, result.Conceptual.Heuristic)

	profile, err := repo.LoadOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ZoneLevels["compression"])
	assert.Zero(t, profile.RetriesFor("compression", 1))
}

func TestSubmitSessionThreeFailuresGoRemedial(t *testing.T) {
	svc, _ := newTutorService(t)
	ctx := context.Background()

	for i := 1; i <= model.MaxLevelAttempts; i++ {
		result, err := svc.SubmitSession(ctx, 1, "compression", 1, "no idea", "")
		require.NoError(t, err)
		assert.False(t, result.Passed)
		if i < model.MaxLevelAttempts {
			assert.Equal(t, model.MaxLevelAttempts-i, result.RetriesRemaining)
			assert.Nil(t, result.Remedial)
		} else {
			assert.Zero(t, result.RetriesRemaining)
			require.NotNil(t, result.Remedial)
			assert.Equal(t, "guided_example", result.Remedial.RetryVariant)
		}
	}

	// further starts route to remedial material instead of a session
	start, err := svc.StartSession(1, "compression", 1)
	require.NoError(t, err)
	assert.True(t, start.Remedial)
	assert.Empty(t, start.SessionID)
	assert.Equal(t, "guided_example", start.RetryVariant)
}

func TestSubmitSessionProduction(t *testing.T) {
	svc, _ := newTutorService(t)
	ctx := context.Background()

	result, err := svc.SubmitSession(ctx, 1, "roots", 2, "gam", "")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.ZoneLevel)

	result, err = svc.SubmitSession(ctx, 2, "roots", 2, "bhū", "")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Feedback, "gam")
	assert.Equal(t, model.MaxLevelAttempts-1, result.RetriesRemaining)
}

func TestSubmitSessionProductionMultipleForms(t *testing.T) {
	svc, _ := newTutorService(t)
	ctx := context.Background()

	result, err := svc.SubmitSession(ctx, 1, "roots", 3, "bhavati, bhūta, bhāva", "")
	require.NoError(t, err)
	assert.True(t, result.Passed)

	result, err = svc.SubmitSession(ctx, 2, "roots", 3, "bhavati", "")
	require.NoError(t, err)
	assert.False(t, result.Passed)
}

func TestPassedLevelNeverDrops(t *testing.T) {
	svc, repo := newTutorService(t)
	ctx := context.Background()

	profile := model.NewTutorProfile(1)
	profile.ZoneLevels["roots"] = 3
	require.NoError(t, repo.Save(profile))

	// re-passing a lower level must not lower the zone level
	result, err := svc.SubmitSession(ctx, 1, "roots", 2, "gam", "")
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.ZoneLevel)
}

func TestSpokenProductionWithoutAudioIsUnverified(t *testing.T) {
	svc, repo := newTutorService(t)
	ctx := context.Background()

	result, err := svc.SubmitSession(ctx, 1, "roots", 4, "gacchati", "")
	require.NoError(t, err)
	assert.False(t, result.Passed, "text cannot verify pronunciation")
	assert.True(t, result.Unverified)
	assert.Contains(t, result.Feedback, "verified")

	profile, err := repo.LoadOrCreate(1)
	require.NoError(t, err)
	assert.True(t, profile.UnverifiedPronunciation["roots_4"])
}

func TestSubmitSessionUnknownSpec(t *testing.T) {
	svc, _ := newTutorService(t)
	_, err := svc.SubmitSession(context.Background(), 1, "karakas", 1, "x", "")
	assert.True(t, errors.Is(err, util.ErrSessionSpecNotFound))
}

func TestFirstPromptFallsBackToObjectives(t *testing.T) {
	spec := &SessionSpec{Zone: "sandhi", Level: 9, Objectives: []string{"explain x", "show y"}}
	p := firstPrompt(spec)
	assert.Contains(t, p, "explain x")
	assert.Contains(t, p, "show y")
}

func TestZoneMapShape(t *testing.T) {
	for id, meta := range Zones {
		assert.Positive(t, meta.Order, "zone %s", id)
		assert.Positive(t, meta.LevelCount, "zone %s", id)
		for _, p := range meta.Prerequisites {
			_, ok := Zones[p]
			assert.True(t, ok, "zone %s has unknown prerequisite %s", id, p)
		}
	}
}

func TestSessionSpecsReferenceKnownZones(t *testing.T) {
	for _, spec := range sessionSpecs {
		meta, ok := Zones[spec.Zone]
		require.True(t, ok, "spec for unknown zone %s", spec.Zone)
		assert.LessOrEqual(t, spec.Level, meta.LevelCount)
		switch spec.AssessmentType {
		case AssessConceptual:
			assert.NotEmpty(t, spec.Conceptual, "%s L%d", spec.Zone, spec.Level)
		case AssessProduction:
			assert.NotEmpty(t, spec.Production, "%s L%d", spec.Zone, spec.Level)
		default:
			t.Fatalf("spec %s L%d has unknown assessment type %q", spec.Zone, spec.Level, spec.AssessmentType)
		}
	}
}

func TestTutorProfileRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := repository.NewTutorRepository(db)

	p := model.NewTutorProfile(9)
	p.ZoneLevels["roots"] = 2
	p.LevelRetryCounts["roots_3"] = 1
	p.UnverifiedPronunciation["roots_4"] = true
	require.NoError(t, repo.Save(p))

	got, err := repo.LoadOrCreate(9)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ZoneLevels["roots"])
	assert.Equal(t, 1, got.RetriesFor("roots", 3))
	assert.True(t, got.UnverifiedPronunciation["roots_4"])

	fresh, err := repo.LoadOrCreate(1234)
	require.NoError(t, err)
	assert.Empty(t, fresh.ZoneLevels)
}
