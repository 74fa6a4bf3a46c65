package model

import "time"

// ArcGoal proposes advancing one zone by up to two levels this week.
type ArcGoal struct {
	Zone      string `json:"zone"`
	FromLevel int    `json:"fromLevel"`
	ToLevel   int    `json:"toLevel"`
	Focus     string `json:"focus"`
}

const (
	SlotLevel       = "level"
	SlotMaintenance = "maintenance"
)

// DailySlot is one day of the weekly arc: either a level session in a
// zone or a maintenance slot of fixed drills.
type DailySlot struct {
	Day                  int      `json:"day"`
	SessionType          string   `json:"sessionType"`
	Zone                 string   `json:"zone,omitempty"`
	Level                int      `json:"level,omitempty"`
	DrillRecommendations []string `json:"drillRecommendations"`
}

// WeeklyArc is the generated seven-day plan.
type WeeklyArc struct {
	Goals       []ArcGoal   `json:"goals"`
	DailySlots  []DailySlot `json:"dailySlots"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// DailyBrief is today's slot plus the week's goals.
type DailyBrief struct {
	TodaySlot DailySlot `json:"todaySlot"`
	Goals     []ArcGoal `json:"goals"`
	Message   string    `json:"message"`
}
