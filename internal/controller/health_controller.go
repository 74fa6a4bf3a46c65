package controller

import (
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health godoc
// @Summary Liveness and database health
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}
	util.Success(ctx, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
