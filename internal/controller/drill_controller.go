package controller

import (
	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DrillController struct {
	Drills *service.DrillService
}

func NewDrillController(drills *service.DrillService) *DrillController {
	return &DrillController{Drills: drills}
}

// Priority godoc
// @Summary Error categories ranked by observed frequency
// @Tags drills
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/drills/priority [get]
func (c *DrillController) Priority(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.Drills.Priority(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// DrillSet godoc
// @Summary Drill words for the learner's worst error categories
// @Tags drills
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/drills/set [get]
func (c *DrillController) DrillSet(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.Drills.DrillSet(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// MinimalPairs godoc
// @Summary Minimal pair bank for contrast practice
// @Tags drills
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/drills/minimal-pairs [get]
func (c *DrillController) MinimalPairs(ctx *gin.Context) {
	util.Success(ctx, service.MinimalPairs)
}
