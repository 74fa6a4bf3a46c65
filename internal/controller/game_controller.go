package controller

import (
	"errors"
	"strconv"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	Games *service.GameService
}

func NewGameController(games *service.GameService) *GameController {
	return &GameController{Games: games}
}

// NewDhatuDash godoc
// @Summary Start a Dhātu Dash game on a fresh root
// @Tags games
// @Produce json
// @Success 200 {object} util.Response{data=model.Challenge}
// @Failure 503 {object} util.Response "root table not loaded"
// @Router /api/games/dhatu-dash [get]
func (c *GameController) NewDhatuDash(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenge, err := c.Games.NewDhatuDash(claims.UserID, nil)
	if err != nil {
		if errors.Is(err, util.ErrDhatuDataUnavailable) {
			util.Error(ctx, 503, "grammar reference data is not available")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, challenge)
}

type EvaluateRequest struct {
	Challenge model.Challenge `json:"challenge" binding:"required"`
	Input     string          `json:"input" binding:"required"`
}

// Evaluate godoc
// @Summary Evaluate a Dhātu Dash answer
// @Description The challenge previously served to the client is round-tripped in the request and validated before use.
// @Tags games
// @Accept json
// @Produce json
// @Param body body EvaluateRequest true "challenge and player input"
// @Success 200 {object} util.Response
// @Router /api/games/dhatu-dash/evaluate [post]
func (c *GameController) Evaluate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := req.Challenge.Validate(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, next, err := c.Games.EvaluateDhatuDash(ctx.Request.Context(), claims.UserID, &req.Challenge, req.Input)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.BadRequest(ctx, "invalid challenge")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"result":    result,
		"challenge": next,
	})
}

// WeaknessDrills godoc
// @Summary Drill chunks nearest the learner's weakness centroid
// @Tags games
// @Produce json
// @Param n query int false "number of drills" default(5)
// @Success 200 {object} util.Response
// @Router /api/games/weakness-drills [get]
func (c *GameController) WeaknessDrills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	n, err := strconv.Atoi(ctx.DefaultQuery("n", "5"))
	if err != nil || n < 1 || n > 50 {
		util.BadRequest(ctx, "n must be between 1 and 50")
		return
	}

	chunks, err := c.Games.WeaknessDrills(ctx.Request.Context(), claims.UserID, n)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chunks)
}
