package handlers

import (
	"net/http"

	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// LeaderboardHandler serves per-course rankings.
type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService, logger utils.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
	}
}

// Get handles GET /api/v1/courses/:courseId/leaderboard
func (h *LeaderboardHandler) Get(c *gin.Context) {
	courseID, ok := requireIDParam(c, "courseId")
	if !ok {
		return
	}

	topN := parseIntQuery(c, "top", 10)
	if topN < 1 || topN > 100 {
		topN = 10
	}

	entries, err := h.leaderboardService.Get(c.Request.Context(), courseID, topN)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: entries, Total: int64(len(entries))})
}
