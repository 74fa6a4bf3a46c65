package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PronunciationController struct {
	Pronunciation *service.PronunciationService
}

func NewPronunciationController(pronunciation *service.PronunciationService) *PronunciationController {
	return &PronunciationController{Pronunciation: pronunciation}
}

// Assess godoc
// @Summary Grade a pronunciation attempt against a target word
// @Description Multipart upload: "audio" is the browser recording, "target" the IAST text to shadow.
// @Tags pronunciation
// @Accept mpfd
// @Produce json
// @Param audio formData file true "learner recording (webm/ogg/wav)"
// @Param target formData string true "target IAST text"
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Router /api/assess/pronunciation [post]
func (c *PronunciationController) Assess(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	target := ctx.PostForm("target")
	if target == "" {
		util.BadRequest(ctx, "target text is required")
		return
	}

	file, err := ctx.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, "audio file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload_%s%s", uuid.NewString(), filepath.Ext(file.Filename)))
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	result, err := c.Pronunciation.Assess(ctx.Request.Context(), claims.UserID, tmpPath, target)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
