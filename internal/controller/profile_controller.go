package controller

import (
	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Profiles *service.ProfileService
}

func NewProfileController(profiles *service.ProfileService) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// Learner godoc
// @Summary The learner model: mastery, chapter progress, recent history
// @Description Centroids are omitted from the payload; they are internal targeting state.
// @Tags profile
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/profile/learner [get]
func (c *ProfileController) Learner(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Profiles.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"userId":          profile.UserID,
		"topicMastery":    profile.TopicMastery,
		"chapterProgress": profile.ChapterProgress,
		"currentChapter":  profile.CurrentChapter(),
		"weakTopics":      profile.WeakTopics(0.5),
		"strongTopics":    profile.StrongTopics(0.7),
		"recentErrors":    profile.RecentErrors,
		"avgRecentScore":  profile.AvgRecentScore,
	})
}

// Difficulty godoc
// @Summary Current adaptive target difficulty
// @Tags profile
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/profile/difficulty [get]
func (c *ProfileController) Difficulty(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Profiles.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"targetDifficulty": profile.TargetDifficulty(),
		"avgRecentScore":   profile.AvgRecentScore,
	})
}
