package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/phoneme"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/util"
	"sabdakrida_backend/pkg/logger"
	"sabdakrida_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PronunciationService runs the end-to-end shadowing flow: transcode,
// transcribe, diff, score, persist, feed the drill tracker.
type PronunciationService struct {
	asr        Transcriber
	assessment *AssessmentService
	drills     *DrillService
	scores     *repository.ScoreRepository
	storage    StorageService
}

func NewPronunciationService(
	asr Transcriber,
	assessment *AssessmentService,
	drills *DrillService,
	scores *repository.ScoreRepository,
	storage StorageService,
) *PronunciationService {
	return &PronunciationService{
		asr:        asr,
		assessment: assessment,
		drills:     drills,
		scores:     scores,
		storage:    storage,
	}
}

// Assess grades one uploaded recording against the target IAST text.
// An ASR outage never fails the learner: the result comes back flagged
// unverified with neutral feedback, and nothing is recorded against
// the profile.
func (s *PronunciationService) Assess(ctx context.Context, userID uint, audioPath, target string) (*model.AssessmentResult, error) {
	wavPath := filepath.Join(os.TempDir(), fmt.Sprintf("sbk_%s.wav", uuid.NewString()))
	defer os.Remove(wavPath)

	if err := util.ConvertToWav16k(audioPath, wavPath); err != nil {
		return nil, fmt.Errorf("audio conversion: %w", err)
	}

	heard, err := s.asr.Transcribe(ctx, wavPath)
	if err != nil {
		logger.Log.Warn("asr unavailable, returning unverified result",
			zap.Uint("user_id", userID), zap.Error(err))
		monitoring.ProviderFallbacks.WithLabelValues("asr").Inc()
		monitoring.AssessmentCounter.WithLabelValues("unverified").Inc()
		return &model.AssessmentResult{
			Target:     target,
			Unverified: true,
			FeedbackAudioKey: model.FeedbackAudioKey{
				Text:  phoneme.DialogueKeepGoing,
				Style: StyleNarration,
			},
			FeedbackEnglish: "The listening service is temporarily unavailable, so this attempt could not be verified. Keep practicing.",
		}, nil
	}

	duration := util.ProbeDuration(wavPath)

	result, err := s.AssessTranscript(ctx, userID, heard, target, duration)
	if err != nil {
		return nil, err
	}

	s.archiveRecording(ctx, userID, audioPath)
	return result, nil
}

// AssessTranscript grades an already-transcribed attempt: diff, score,
// tracker and score-log updates. durationSeconds 0 skips the duration
// heuristic.
func (s *PronunciationService) AssessTranscript(ctx context.Context, userID uint, heard, target string, durationSeconds float64) (*model.AssessmentResult, error) {
	heardIAST := heard
	if phoneme.ContainsDevanagari(heard) {
		heardIAST = phoneme.ToIAST(heard)
	}

	result := s.assessment.Score(target, heardIAST, durationSeconds)
	result.Heard = heard
	result.HeardIAST = heardIAST

	if len(result.ErrorTypes) > 0 {
		if err := s.drills.RecordErrors(userID, result.ErrorTypes); err != nil {
			return nil, err
		}
	}
	if err := s.scores.Create(&model.PronunciationScore{
		UserID:  userID,
		Target:  target,
		Score:   result.Score,
		Correct: result.Correct,
	}); err != nil {
		return nil, err
	}

	outcome := "fail"
	if result.Correct {
		outcome = "pass"
	}
	monitoring.AssessmentCounter.WithLabelValues(outcome).Inc()
	return result, nil
}

// archiveRecording keeps the raw upload for later review. Storage
// trouble is logged, never surfaced to the learner.
func (s *PronunciationService) archiveRecording(ctx context.Context, userID uint, audioPath string) {
	if s.storage == nil {
		return
	}
	data, err := os.ReadFile(audioPath)
	if err != nil {
		logger.Log.Warn("could not read recording for archive", zap.Error(err))
		return
	}
	key := fmt.Sprintf("recordings/%d/%s%s", userID, uuid.NewString(), filepath.Ext(audioPath))
	if err := s.storage.Put(ctx, key, data, "application/octet-stream"); err != nil {
		logger.Log.Warn("could not archive recording", zap.Error(err))
	}
}
