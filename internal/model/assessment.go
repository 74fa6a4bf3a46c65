package model

import "sabdakrida_backend/internal/phoneme"

// ErrorDetail is position-specific feedback for a single error, e.g.
// "In śaṃkara, the ā in kā should be held twice as long."
type ErrorDetail struct {
	Type     phoneme.ErrorCategory `json:"type"`
	Word     string                `json:"word"`
	Syllable string                `json:"syllable"`
	Vowel    string                `json:"vowel,omitempty"`
	Message  string                `json:"message"`
}

// FeedbackAudioKey lets the frontend fetch teacher-voice TTS
// asynchronously instead of blocking the assessment response on
// synthesis.
type FeedbackAudioKey struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// AssessmentResult is one graded attempt. Created per call, handed to
// the profile and drill tracker for persistence, then discarded.
type AssessmentResult struct {
	Target           string                  `json:"target"`
	Heard            string                  `json:"heard"`
	HeardIAST        string                  `json:"heardIast"`
	Score            float64                 `json:"score"`
	Correct          bool                    `json:"correct"`
	Errors           []phoneme.DiffEntry     `json:"errors"`
	ErrorTypes       []phoneme.ErrorCategory `json:"errorTypes"`
	ErrorDetails     []ErrorDetail           `json:"errorDetails"`
	FeedbackEnglish  string                  `json:"feedbackEnglish"`
	FeedbackAudioKey FeedbackAudioKey        `json:"feedbackAudioKey"`
	Unverified       bool                    `json:"unverified,omitempty"`
}
