package controller

import (
	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TTSController struct {
	TTS *service.TTSService
}

func NewTTSController(tts *service.TTSService) *TTSController {
	return &TTSController{TTS: tts}
}

type SpeakRequest struct {
	Text  string `json:"text" binding:"required"`
	Style string `json:"style" binding:"omitempty,oneof=command praise narration"`
}

// Speak godoc
// @Summary Synthesize teacher-voice audio for a feedback key
// @Tags tts
// @Accept json
// @Produce octet-stream
// @Param body body SpeakRequest true "text and voice style"
// @Success 200 {file} binary "WAV audio"
// @Router /api/tts/speak [post]
func (c *TTSController) Speak(ctx *gin.Context) {
	var req SpeakRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Style == "" {
		req.Style = service.StyleNarration
	}

	audio, err := c.TTS.Speak(ctx.Request.Context(), req.Text, req.Style)
	if err != nil {
		util.Error(ctx, 503, "speech synthesis is temporarily unavailable")
		return
	}

	ctx.Data(200, "audio/wav", audio)
}
