package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TutorController struct {
	Tutor *service.TutorService
}

func NewTutorController(tutor *service.TutorService) *TutorController {
	return &TutorController{Tutor: tutor}
}

// WeeklyArc godoc
// @Summary This week's learning plan
// @Tags tutor
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/tutor/weekly-arc [get]
func (c *TutorController) WeeklyArc(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	arc, err := c.Tutor.WeeklyArc(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, arc)
}

// DailyBrief godoc
// @Summary Today's slot from the weekly arc
// @Tags tutor
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/tutor/daily-brief [get]
func (c *TutorController) DailyBrief(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	brief, err := c.Tutor.DailyBrief(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, brief)
}

// Spec godoc
// @Summary Static session spec for a zone and level
// @Tags tutor
// @Produce json
// @Param zone path string true "zone id"
// @Param level path int true "level"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tutor/session/spec/{zone}/{level} [get]
func (c *TutorController) Spec(ctx *gin.Context) {
	level, err := strconv.Atoi(ctx.Param("level"))
	if err != nil {
		util.BadRequest(ctx, "level must be an integer")
		return
	}

	spec, err := c.Tutor.Spec(ctx.Param("zone"), level)
	if err != nil {
		if errors.Is(err, util.ErrSessionSpecNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, spec)
}

type StartSessionRequest struct {
	Zone  string `json:"zone" binding:"required"`
	Level int    `json:"level" binding:"required,min=1"`
}

// StartSession godoc
// @Summary Open a tutoring session (or get routed to remedial material)
// @Tags tutor
// @Accept json
// @Produce json
// @Param body body StartSessionRequest true "zone and level"
// @Success 200 {object} util.Response
// @Router /api/tutor/session/start [post]
func (c *TutorController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	start, err := c.Tutor.StartSession(claims.UserID, req.Zone, req.Level)
	if err != nil {
		if errors.Is(err, util.ErrSessionSpecNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, start)
}

// SubmitSession godoc
// @Summary Submit a session response for assessment
// @Description Multipart form: "zone", "level", "input" (text answer) and optionally "audio" for spoken production checks.
// @Tags tutor
// @Accept mpfd
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/tutor/session/submit [post]
func (c *TutorController) SubmitSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	zone := ctx.PostForm("zone")
	level, err := strconv.Atoi(ctx.PostForm("level"))
	if err != nil || zone == "" {
		util.BadRequest(ctx, "zone and numeric level are required")
		return
	}
	input := ctx.PostForm("input")

	audioPath := ""
	if file, err := ctx.FormFile("audio"); err == nil {
		audioPath = filepath.Join(os.TempDir(), fmt.Sprintf("session_%s%s", uuid.NewString(), filepath.Ext(file.Filename)))
		if err := ctx.SaveUploadedFile(file, audioPath); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer os.Remove(audioPath)
	}

	result, err := c.Tutor.SubmitSession(ctx.Request.Context(), claims.UserID, zone, level, input, audioPath)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionSpecNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrDhatuDataUnavailable):
			util.Error(ctx, 503, "grammar reference data is not available")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
