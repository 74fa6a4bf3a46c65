package service

import (
	"sync"
	"time"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/repository"
)

// DefaultAlpha is the EMA smoothing factor for centroid updates. At
// 0.1 a single drill shifts the centroid gently; ~20 errors in one
// area move it decisively.
const DefaultAlpha = 0.1

// ProfileService owns the embedding-space learner model. Every
// read-modify-write on a profile runs under that user's mutex, so
// concurrent drill submissions serialize instead of losing updates.
type ProfileService struct {
	repo *repository.ProfileRepository
	dims int

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewProfileService(repo *repository.ProfileRepository, dims int) *ProfileService {
	return &ProfileService{
		repo:  repo,
		dims:  dims,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (s *ProfileService) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *ProfileService) Get(userID uint) (*model.LearnerProfile, error) {
	return s.repo.LoadOrCreate(userID, s.dims)
}

// RecordResult applies one drill outcome to the profile and persists
// it. embedding may be nil (provider outage); the centroid update is
// skipped, everything else still applies.
func (s *ProfileService) RecordResult(userID uint, chunkID string, embedding []float64, correct bool, topic, answer string) (*model.LearnerProfile, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.repo.LoadOrCreate(userID, s.dims)
	if err != nil {
		return nil, err
	}
	ApplyResult(profile, chunkID, embedding, correct, topic, answer, DefaultAlpha)
	if err := s.repo.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// MarkDrillsSeen records served drill chunk ids so repeats are
// excluded from future weakness queries.
func (s *ProfileService) MarkDrillsSeen(userID uint, chunkIDs []string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.repo.LoadOrCreate(userID, s.dims)
	if err != nil {
		return err
	}
	for _, id := range chunkIDs {
		profile.SeenDrillIDs[id] = true
	}
	return s.repo.Save(profile)
}

// ApplyResult mutates the profile for one answered drill:
// wrong answers pull the weakness centroid toward the chunk, right
// answers pull the strength centroid; topic mastery decays toward the
// outcome; the recent windows slide.
func ApplyResult(p *model.LearnerProfile, chunkID string, embedding []float64, correct bool, topic, answer string, alpha float64) {
	if len(embedding) == len(p.WeaknessCentroid) && len(embedding) > 0 {
		if correct {
			ema(p.StrengthCentroid, embedding, alpha)
		} else {
			ema(p.WeaknessCentroid, embedding, alpha)
		}
	}

	if _, tracked := p.TopicMastery[topic]; tracked {
		bonus := 0.0
		if correct {
			bonus = 0.1
		}
		p.TopicMastery[topic] = p.TopicMastery[topic]*0.9 + bonus
	}

	p.RecentErrors = append(p.RecentErrors, model.RecentError{
		ChunkID:       chunkID,
		LearnerAnswer: answer,
		Correct:       correct,
		Timestamp:     time.Now().UTC(),
	})
	if len(p.RecentErrors) > model.RecentErrorsCap {
		p.RecentErrors = p.RecentErrors[len(p.RecentErrors)-model.RecentErrorsCap:]
	}

	score := 0.0
	if correct {
		score = 1.0
	}
	p.RecentScores = append(p.RecentScores, score)
	if len(p.RecentScores) > model.RecentScoresCap {
		p.RecentScores = p.RecentScores[len(p.RecentScores)-model.RecentScoresCap:]
	}
	sum := 0.0
	for _, v := range p.RecentScores {
		sum += v
	}
	p.AvgRecentScore = sum / float64(len(p.RecentScores))
}

// ema updates current in place: current*(1-alpha) + next*alpha.
func ema(current, next []float64, alpha float64) {
	for i := range current {
		current[i] = current[i]*(1-alpha) + next[i]*alpha
	}
}
