package util

import (
	"encoding/json"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ConvertToWav16k transcodes browser-recorded audio (webm/ogg/m4a) to
// the 16 kHz mono WAV the Whisper sidecar expects.
func ConvertToWav16k(inputPath, outputPath string) error {
	return ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{"ar": 16000, "ac": 1, "f": "wav"}).
		OverWriteOutput().
		Silent(true).
		Run()
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration returns the audio duration in seconds, or 0 when the
// file cannot be probed. Callers treat 0 as "duration unknown" and
// skip the duration heuristic.
func ProbeDuration(path string) float64 {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0
	}
	var pf probeFormat
	if err := json.Unmarshal([]byte(raw), &pf); err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil {
		return 0
	}
	return d
}
