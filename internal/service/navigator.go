package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sabdakrida_backend/internal/model"
)

// ArcAdvanceStep caps how many levels per zone a weekly arc aims for.
const ArcAdvanceStep = 2

// prerequisitesMet requires at least the intro level of every
// prerequisite zone.
func prerequisitesMet(profile *model.TutorProfile, zone string) bool {
	for _, p := range Zones[zone].Prerequisites {
		if profile.ZoneLevels[p] < 1 {
			return false
		}
	}
	return true
}

// drillsForZone maps a zone to its game drills. Pronunciation
// maintenance is always recommended.
func drillsForZone(zone string) []string {
	mapping := map[string][]string{
		"roots":     {"dhatu_dash"},
		"phonetics": {"pronunciation"},
		"sandhi":    {"sandhi_forge"},
		"karakas":   {"karaka_web"},
		"compounds": {"pratyaya_reactor"},
	}
	base := mapping[zone]
	for _, d := range base {
		if d == "pronunciation" {
			return base
		}
	}
	return append(append([]string{}, base...), "pronunciation")
}

// GenerateWeeklyArc builds and stores a seven-day plan: one goal per
// eligible unfinished zone (advance up to two levels), slots assigned
// round-robin. With no eligible goals every day is maintenance.
func (s *TutorService) GenerateWeeklyArc(profile *model.TutorProfile) (*model.WeeklyArc, error) {
	type orderedZone struct {
		id   string
		meta ZoneMeta
	}
	ordered := make([]orderedZone, 0, len(Zones))
	for id, meta := range Zones {
		ordered = append(ordered, orderedZone{id, meta})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].meta.Order < ordered[j].meta.Order })

	var goals []model.ArcGoal
	for _, z := range ordered {
		if !prerequisitesMet(profile, z.id) {
			continue
		}
		current := profile.ZoneLevels[z.id]
		if current >= z.meta.LevelCount {
			continue
		}
		to := current + ArcAdvanceStep
		if to > z.meta.LevelCount {
			to = z.meta.LevelCount
		}
		goals = append(goals, model.ArcGoal{
			Zone:      z.id,
			FromLevel: current,
			ToLevel:   to,
			Focus:     z.meta.Label,
		})
	}

	slots := make([]model.DailySlot, 0, 7)
	for day := 0; day < 7; day++ {
		if len(goals) > 0 {
			g := goals[day%len(goals)]
			slots = append(slots, model.DailySlot{
				Day:                  day,
				SessionType:          model.SlotLevel,
				Zone:                 g.Zone,
				Level:                g.FromLevel + 1,
				DrillRecommendations: drillsForZone(g.Zone),
			})
		} else {
			slots = append(slots, model.DailySlot{
				Day:                  day,
				SessionType:          model.SlotMaintenance,
				DrillRecommendations: []string{"dhatu_dash", "pronunciation"},
			})
		}
	}

	now := time.Now().UTC()
	arc := &model.WeeklyArc{
		Goals:       goals,
		DailySlots:  slots,
		GeneratedAt: now,
	}
	profile.WeeklyArc = arc
	profile.LastArcGenerated = &now
	if err := s.repo.Save(profile); err != nil {
		return nil, err
	}
	return arc, nil
}

// WeeklyArc returns the stored arc, generating one when absent or
// older than a week.
func (s *TutorService) WeeklyArc(userID uint) (*model.WeeklyArc, error) {
	profile, err := s.repo.LoadOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if arc := currentArc(profile); arc != nil {
		return arc, nil
	}
	return s.GenerateWeeklyArc(profile)
}

func currentArc(profile *model.TutorProfile) *model.WeeklyArc {
	if profile.WeeklyArc == nil {
		return nil
	}
	if profile.LastArcGenerated == nil {
		return nil
	}
	if time.Since(*profile.LastArcGenerated) >= 7*24*time.Hour {
		return nil
	}
	return profile.WeeklyArc
}

// DailyBrief resolves today's slot from the arc. Monday is day 0.
func (s *TutorService) DailyBrief(userID uint) (*model.DailyBrief, error) {
	profile, err := s.repo.LoadOrCreate(userID)
	if err != nil {
		return nil, err
	}
	arc := currentArc(profile)
	if arc == nil {
		arc, err = s.GenerateWeeklyArc(profile)
		if err != nil {
			return nil, err
		}
	}

	dayIndex := (int(time.Now().UTC().Weekday()) + 6) % 7
	var today model.DailySlot
	if len(arc.DailySlots) > 0 {
		today = arc.DailySlots[dayIndex%len(arc.DailySlots)]
	}

	return &model.DailyBrief{
		TodaySlot: today,
		Goals:     arc.Goals,
		Message:   briefMessage(today),
	}, nil
}

func briefMessage(slot model.DailySlot) string {
	drills := strings.Join(slot.DrillRecommendations, ", ")
	if slot.SessionType == model.SlotLevel && slot.Zone != "" && slot.Level > 0 {
		label := Zones[slot.Zone].Label
		if label == "" {
			label = slot.Zone
		}
		return fmt.Sprintf("Today: %s Level %d. Recommended drills: %s.", label, slot.Level, drills)
	}
	return fmt.Sprintf("Today: Maintenance. Recommended: %s.", drills)
}
