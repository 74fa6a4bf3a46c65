package service

import (
	"testing"
	"time"

	"sabdakrida_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeeklyArcFreshLearner(t *testing.T) {
	svc, repo := newTutorService(t)

	profile := model.NewTutorProfile(1)
	arc, err := svc.GenerateWeeklyArc(profile)
	require.NoError(t, err)

	// only zones with no unmet prerequisites qualify
	require.Len(t, arc.Goals, 2)
	assert.Equal(t, "compression", arc.Goals[0].Zone)
	assert.Equal(t, "phonetics", arc.Goals[1].Zone)
	for _, g := range arc.Goals {
		assert.Equal(t, 0, g.FromLevel)
		assert.Equal(t, ArcAdvanceStep, g.ToLevel)
		assert.NotEmpty(t, g.Focus)
	}

	require.Len(t, arc.DailySlots, 7)
	for i, slot := range arc.DailySlots {
		assert.Equal(t, i, slot.Day)
		assert.Equal(t, model.SlotLevel, slot.SessionType)
		assert.Equal(t, arc.Goals[i%2].Zone, slot.Zone, "round-robin over goals")
		assert.Equal(t, 1, slot.Level, "next level after the current one")
		assert.Contains(t, slot.DrillRecommendations, "pronunciation")
	}

	// the arc is persisted with the profile
	stored, err := repo.LoadOrCreate(1)
	require.NoError(t, err)
	require.NotNil(t, stored.WeeklyArc)
	assert.Len(t, stored.WeeklyArc.Goals, 2)
	require.NotNil(t, stored.LastArcGenerated)
}

func TestGenerateWeeklyArcUnlocksZones(t *testing.T) {
	svc, _ := newTutorService(t)

	profile := model.NewTutorProfile(1)
	profile.ZoneLevels["phonetics"] = 1

	arc, err := svc.GenerateWeeklyArc(profile)
	require.NoError(t, err)

	zones := make([]string, 0, len(arc.Goals))
	for _, g := range arc.Goals {
		zones = append(zones, g.Zone)
	}
	assert.Equal(t, []string{"compression", "phonetics", "roots", "sandhi"}, zones)
}

func TestGenerateWeeklyArcCapsAtZoneCeiling(t *testing.T) {
	svc, _ := newTutorService(t)

	profile := model.NewTutorProfile(1)
	profile.ZoneLevels["compression"] = 4

	arc, err := svc.GenerateWeeklyArc(profile)
	require.NoError(t, err)
	require.NotEmpty(t, arc.Goals)
	assert.Equal(t, "compression", arc.Goals[0].Zone)
	assert.Equal(t, 4, arc.Goals[0].FromLevel)
	assert.Equal(t, 5, arc.Goals[0].ToLevel, "capped at the zone's level count")
}

func TestGenerateWeeklyArcFinishedZonesExcluded(t *testing.T) {
	svc, _ := newTutorService(t)

	profile := model.NewTutorProfile(1)
	for zone, meta := range Zones {
		profile.ZoneLevels[zone] = meta.LevelCount
	}

	arc, err := svc.GenerateWeeklyArc(profile)
	require.NoError(t, err)
	assert.Empty(t, arc.Goals)
	require.Len(t, arc.DailySlots, 7)
	for _, slot := range arc.DailySlots {
		assert.Equal(t, model.SlotMaintenance, slot.SessionType)
		assert.Equal(t, []string{"dhatu_dash", "pronunciation"}, slot.DrillRecommendations)
	}
}

func TestWeeklyArcReusedWithinAWeek(t *testing.T) {
	svc, _ := newTutorService(t)

	first, err := svc.WeeklyArc(1)
	require.NoError(t, err)
	second, err := svc.WeeklyArc(1)
	require.NoError(t, err)
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))
}

func TestWeeklyArcRegeneratedWhenStale(t *testing.T) {
	svc, repo := newTutorService(t)

	first, err := svc.WeeklyArc(1)
	require.NoError(t, err)

	profile, err := repo.LoadOrCreate(1)
	require.NoError(t, err)
	old := time.Now().UTC().Add(-8 * 24 * time.Hour)
	profile.LastArcGenerated = &old
	require.NoError(t, repo.Save(profile))

	fresh, err := svc.WeeklyArc(1)
	require.NoError(t, err)
	assert.True(t, fresh.GeneratedAt.After(first.GeneratedAt.Add(-time.Second)))

	reloaded, err := repo.LoadOrCreate(1)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastArcGenerated)
	assert.True(t, reloaded.LastArcGenerated.After(old))
}

func TestDailyBrief(t *testing.T) {
	svc, _ := newTutorService(t)

	brief, err := svc.DailyBrief(1)
	require.NoError(t, err)

	wantDay := (int(time.Now().UTC().Weekday()) + 6) % 7
	assert.Equal(t, wantDay, brief.TodaySlot.Day)
	assert.NotEmpty(t, brief.Goals)
	assert.NotEmpty(t, brief.Message)
}

func TestBriefMessage(t *testing.T) {
	msg := briefMessage(model.DailySlot{
		Day:                  0,
		SessionType:          model.SlotLevel,
		Zone:                 "roots",
		Level:                2,
		DrillRecommendations: []string{"dhatu_dash", "pronunciation"},
	})
	assert.Contains(t, msg, "Verbal Roots")
	assert.Contains(t, msg, "Level 2")
	assert.Contains(t, msg, "dhatu_dash")

	msg = briefMessage(model.DailySlot{
		SessionType:          model.SlotMaintenance,
		DrillRecommendations: []string{"pronunciation"},
	})
	assert.Contains(t, msg, "Maintenance")
}

func TestPrerequisitesMet(t *testing.T) {
	profile := model.NewTutorProfile(1)
	assert.True(t, prerequisitesMet(profile, "compression"))
	assert.False(t, prerequisitesMet(profile, "roots"))
	assert.False(t, prerequisitesMet(profile, "compounds"))

	profile.ZoneLevels["phonetics"] = 1
	assert.True(t, prerequisitesMet(profile, "roots"))
	assert.False(t, prerequisitesMet(profile, "compounds"), "compounds needs sandhi and roots")

	profile.ZoneLevels["sandhi"] = 1
	profile.ZoneLevels["roots"] = 1
	assert.True(t, prerequisitesMet(profile, "compounds"))
}

func TestDrillsForZone(t *testing.T) {
	assert.Equal(t, []string{"dhatu_dash", "pronunciation"}, drillsForZone("roots"))
	assert.Equal(t, []string{"pronunciation"}, drillsForZone("phonetics"))
	assert.Equal(t, []string{"pronunciation"}, drillsForZone("compression"))
	assert.Contains(t, drillsForZone("sandhi"), "sandhi_forge")
	assert.Contains(t, drillsForZone("sandhi"), "pronunciation")
}
