package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxLevelAttempts is the number of failed attempts after which a
// (zone, level) goes remedial instead of being retried.
const MaxLevelAttempts = 3

// TutorProfile tracks per-zone curriculum state: the highest level
// passed per zone, retry counts per (zone, level), and the weekly arc.
// Decoded form of TutorProgressRecord.
type TutorProfile struct {
	UserID                  uint            `json:"userId"`
	ZoneLevels              map[string]int  `json:"zoneLevels"`
	LevelRetryCounts        map[string]int  `json:"levelRetryCounts"`
	WeeklyArc               *WeeklyArc      `json:"weeklyArc,omitempty"`
	LastArcGenerated        *time.Time      `json:"lastArcGenerated,omitempty"`
	UnverifiedPronunciation map[string]bool `json:"unverifiedPronunciation"`
}

func NewTutorProfile(userID uint) *TutorProfile {
	return &TutorProfile{
		UserID:                  userID,
		ZoneLevels:              make(map[string]int),
		LevelRetryCounts:        make(map[string]int),
		UnverifiedPronunciation: make(map[string]bool),
	}
}

func (p *TutorProfile) LevelKey(zone string, level int) string {
	return fmt.Sprintf("%s_%d", zone, level)
}

func (p *TutorProfile) RetriesFor(zone string, level int) int {
	return p.LevelRetryCounts[p.LevelKey(zone, level)]
}

func (p *TutorProfile) IncrementRetry(zone string, level int) int {
	key := p.LevelKey(zone, level)
	p.LevelRetryCounts[key]++
	return p.LevelRetryCounts[key]
}

func (p *TutorProfile) ClearRetry(zone string, level int) {
	delete(p.LevelRetryCounts, p.LevelKey(zone, level))
}

// PassLevel records a pass: the zone level only ever rises, and the
// retry count for that level is cleared.
func (p *TutorProfile) PassLevel(zone string, level int) {
	if level > p.ZoneLevels[zone] {
		p.ZoneLevels[zone] = level
	}
	p.ClearRetry(zone, level)
}

// TutorProgressRecord is the persisted row, one per user, maps and the
// arc blob serialized as JSON text columns.
type TutorProgressRecord struct {
	UserID                  uint       `gorm:"primaryKey" json:"userId"`
	ZoneLevels              string     `gorm:"type:text" json:"-"`
	LevelRetryCounts        string     `gorm:"type:text" json:"-"`
	WeeklyArc               string     `gorm:"type:text" json:"-"`
	LastArcGenerated        *time.Time `json:"lastArcGenerated"`
	UnverifiedPronunciation string     `gorm:"type:text" json:"-"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

func (TutorProgressRecord) TableName() string {
	return "tutor_progress"
}

func (r *TutorProgressRecord) Decode() *TutorProfile {
	p := NewTutorProfile(r.UserID)

	var zones map[string]int
	if json.Unmarshal([]byte(r.ZoneLevels), &zones) == nil && zones != nil {
		p.ZoneLevels = zones
	}
	var retries map[string]int
	if json.Unmarshal([]byte(r.LevelRetryCounts), &retries) == nil && retries != nil {
		p.LevelRetryCounts = retries
	}
	if r.WeeklyArc != "" {
		var arc WeeklyArc
		if json.Unmarshal([]byte(r.WeeklyArc), &arc) == nil {
			p.WeeklyArc = &arc
		}
	}
	p.LastArcGenerated = r.LastArcGenerated
	var unverified []string
	if json.Unmarshal([]byte(r.UnverifiedPronunciation), &unverified) == nil {
		for _, k := range unverified {
			p.UnverifiedPronunciation[k] = true
		}
	}
	return p
}

func (p *TutorProfile) Encode() *TutorProgressRecord {
	zones, _ := json.Marshal(p.ZoneLevels)
	retries, _ := json.Marshal(p.LevelRetryCounts)
	arc := ""
	if p.WeeklyArc != nil {
		raw, _ := json.Marshal(p.WeeklyArc)
		arc = string(raw)
	}
	unverified := make([]string, 0, len(p.UnverifiedPronunciation))
	for k := range p.UnverifiedPronunciation {
		unverified = append(unverified, k)
	}
	unverifiedJSON, _ := json.Marshal(unverified)

	return &TutorProgressRecord{
		UserID:                  p.UserID,
		ZoneLevels:              string(zones),
		LevelRetryCounts:        string(retries),
		WeeklyArc:               arc,
		LastArcGenerated:        p.LastArcGenerated,
		UnverifiedPronunciation: string(unverifiedJSON),
	}
}
