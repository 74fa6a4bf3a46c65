package model

import (
	"encoding/json"
	"time"
)

// Topics tracked by topic_mastery.
var DefaultTopics = []string{"sandhi", "dhatu", "karaka", "suffix", "conjugation", "phonology"}

// Curriculum chapter gates, in order. The first chapter starts active,
// everything after it locked.
var ChapterOrder = []string{"ch2", "ch3", "ch4", "ch5", "ch6", "ch7", "ch8", "ch9"}

const (
	ChapterLocked   = "locked"
	ChapterActive   = "active"
	ChapterComplete = "complete"

	RecentErrorsCap = 50
	RecentScoresCap = 20
)

// RecentError is one logged drill interaction, kept for pattern detection.
type RecentError struct {
	ChunkID       string    `json:"chunk_id"`
	LearnerAnswer string    `json:"learner_answer"`
	Correct       bool      `json:"correct"`
	Timestamp     time.Time `json:"timestamp"`
}

// LearnerProfile is the embedding-space user model. Each learner has two
// centroids in embedding space: weakness (EMA of chunks answered wrong,
// points at what to drill next) and strength (EMA of chunks answered
// right). Decoded form of LearnerProfileRecord.
type LearnerProfile struct {
	UserID           uint               `json:"userId"`
	WeaknessCentroid []float64          `json:"weaknessCentroid"`
	StrengthCentroid []float64          `json:"strengthCentroid"`
	TopicMastery     map[string]float64 `json:"topicMastery"`
	ChapterProgress  map[string]string  `json:"chapterProgress"`
	RecentErrors     []RecentError      `json:"recentErrors"`
	RecentScores     []float64          `json:"recentScores"`
	SeenDrillIDs     map[string]bool    `json:"seenDrillIds"`
	AvgRecentScore   float64            `json:"avgRecentScore"`
}

// NewLearnerProfile returns a fresh profile with zero centroids of the
// configured dimension, default topic mastery and the first chapter active.
func NewLearnerProfile(userID uint, dims int) *LearnerProfile {
	p := &LearnerProfile{
		UserID:           userID,
		WeaknessCentroid: make([]float64, dims),
		StrengthCentroid: make([]float64, dims),
		TopicMastery:     make(map[string]float64, len(DefaultTopics)),
		ChapterProgress:  make(map[string]string, len(ChapterOrder)),
		SeenDrillIDs:     make(map[string]bool),
		AvgRecentScore:   0.5,
	}
	for _, t := range DefaultTopics {
		p.TopicMastery[t] = 0
	}
	for _, c := range ChapterOrder {
		p.ChapterProgress[c] = ChapterLocked
	}
	p.ChapterProgress[ChapterOrder[0]] = ChapterActive
	return p
}

// WeakTopics returns topics with mastery below threshold.
func (p *LearnerProfile) WeakTopics(threshold float64) []string {
	var out []string
	for _, t := range DefaultTopics {
		if p.TopicMastery[t] < threshold {
			out = append(out, t)
		}
	}
	return out
}

// StrongTopics returns topics with mastery at or above threshold.
func (p *LearnerProfile) StrongTopics(threshold float64) []string {
	var out []string
	for _, t := range DefaultTopics {
		if p.TopicMastery[t] >= threshold {
			out = append(out, t)
		}
	}
	return out
}

// CurrentChapter returns the first active chapter in curriculum order.
func (p *LearnerProfile) CurrentChapter() string {
	for _, c := range ChapterOrder {
		if p.ChapterProgress[c] == ChapterActive {
			return c
		}
	}
	return ChapterOrder[len(ChapterOrder)-1]
}

// TargetDifficulty is the adaptive difficulty: stay just above the
// learner's comfort zone. By construction it lies in [0.2, 1.0].
func (p *LearnerProfile) TargetDifficulty() float64 {
	return p.AvgRecentScore*0.8 + 0.2
}

// LearnerProfileRecord is the persisted row: vectors and maps serialized
// as JSON text columns, one row per user.
type LearnerProfileRecord struct {
	UserID           uint      `gorm:"primaryKey" json:"userId"`
	WeaknessCentroid string    `gorm:"type:longtext" json:"-"`
	StrengthCentroid string    `gorm:"type:longtext" json:"-"`
	TopicMastery     string    `gorm:"type:text" json:"-"`
	ChapterProgress  string    `gorm:"type:text" json:"-"`
	RecentErrors     string    `gorm:"type:text" json:"-"`
	RecentScores     string    `gorm:"type:text" json:"-"`
	SeenDrillIDs     string    `gorm:"type:text" json:"-"`
	AvgRecentScore   float64   `json:"avgRecentScore"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (LearnerProfileRecord) TableName() string {
	return "learner_profiles"
}

// Decode turns the row into its in-memory form. Corrupt JSON in any
// column falls back to that field's default; a data-integrity mismatch
// is "use default and continue", never fatal.
func (r *LearnerProfileRecord) Decode(dims int) *LearnerProfile {
	p := NewLearnerProfile(r.UserID, dims)

	var weakness, strength []float64
	if json.Unmarshal([]byte(r.WeaknessCentroid), &weakness) == nil && len(weakness) == dims {
		p.WeaknessCentroid = weakness
	}
	if json.Unmarshal([]byte(r.StrengthCentroid), &strength) == nil && len(strength) == dims {
		p.StrengthCentroid = strength
	}

	var mastery map[string]float64
	if json.Unmarshal([]byte(r.TopicMastery), &mastery) == nil && mastery != nil {
		p.TopicMastery = mastery
	}
	var chapters map[string]string
	if json.Unmarshal([]byte(r.ChapterProgress), &chapters) == nil && chapters != nil {
		p.ChapterProgress = chapters
	}
	var recentErrors []RecentError
	if json.Unmarshal([]byte(r.RecentErrors), &recentErrors) == nil && recentErrors != nil {
		if len(recentErrors) > RecentErrorsCap {
			recentErrors = recentErrors[len(recentErrors)-RecentErrorsCap:]
		}
		p.RecentErrors = recentErrors
	}
	var scores []float64
	if json.Unmarshal([]byte(r.RecentScores), &scores) == nil && scores != nil {
		if len(scores) > RecentScoresCap {
			scores = scores[len(scores)-RecentScoresCap:]
		}
		p.RecentScores = scores
	}
	var seen []string
	if json.Unmarshal([]byte(r.SeenDrillIDs), &seen) == nil {
		for _, id := range seen {
			p.SeenDrillIDs[id] = true
		}
	}
	// The average is derived state: recompute it from the retained window
	// so a stored 0.0 (all-wrong window) survives the round trip. Only an
	// empty window keeps the 0.5 prior.
	if len(p.RecentScores) > 0 {
		var sum float64
		for _, s := range p.RecentScores {
			sum += s
		}
		p.AvgRecentScore = sum / float64(len(p.RecentScores))
	}
	return p
}

// Encode serializes the profile back into row form for upsert.
func (p *LearnerProfile) Encode() *LearnerProfileRecord {
	weakness, _ := json.Marshal(p.WeaknessCentroid)
	strength, _ := json.Marshal(p.StrengthCentroid)
	mastery, _ := json.Marshal(p.TopicMastery)
	chapters, _ := json.Marshal(p.ChapterProgress)
	recentErrors, _ := json.Marshal(p.RecentErrors)
	scores, _ := json.Marshal(p.RecentScores)
	seen := make([]string, 0, len(p.SeenDrillIDs))
	for id := range p.SeenDrillIDs {
		seen = append(seen, id)
	}
	seenJSON, _ := json.Marshal(seen)

	return &LearnerProfileRecord{
		UserID:           p.UserID,
		WeaknessCentroid: string(weakness),
		StrengthCentroid: string(strength),
		TopicMastery:     string(mastery),
		ChapterProgress:  string(chapters),
		RecentErrors:     string(recentErrors),
		RecentScores:     string(scores),
		SeenDrillIDs:     string(seenJSON),
		AvgRecentScore:   p.AvgRecentScore,
	}
}
