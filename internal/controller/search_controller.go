package controller

import (
	"strconv"
	"strings"

	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	Search *service.SearchService
}

func NewSearchController(search *service.SearchService) *SearchController {
	return &SearchController{Search: search}
}

// Corpus godoc
// @Summary Free-text lookup in the grammar rule corpus
// @Tags corpus
// @Produce json
// @Param q query string true "question"
// @Param n query int false "result count (default 5, max 20)"
// @Param topics query string false "comma-separated topic filter"
// @Success 200 {object} util.Response
// @Router /api/corpus/search [get]
func (c *SearchController) Corpus(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		util.BadRequest(ctx, "q is required")
		return
	}

	n := 5
	if raw := ctx.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			util.BadRequest(ctx, "n must be between 1 and 20")
			return
		}
		n = parsed
	}

	var topics []string
	if raw := ctx.Query("topics"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	chunks, err := c.Search.Search(ctx.Request.Context(), query, n, topics)
	if err != nil {
		util.Error(ctx, 503, "corpus search unavailable")
		return
	}
	util.Success(ctx, chunks)
}
