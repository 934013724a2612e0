package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap24/skillswap-backend/internal/usecase/feed"
)

type FeedHandler struct {
	feedUseCase *feed.UseCase
}

func NewFeedHandler(feedUseCase *feed.UseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

// Recommendations returns the ranked partner feed for the caller.
// @Summary Get ranked recommendations
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Success 200 {array} feed.Recommendation
// @Failure 401 {object} ErrorResponse
// @Router /feed/recommendations [get]
func (h *FeedHandler) Recommendations(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	recommendations, err := h.feedUseCase.GetRecommendations(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// Candidate returns a single user scored against the caller. Existing
// partners are not suppressed here; they come back flagged instead.
// @Summary Look up a match candidate
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Candidate user ID"
// @Success 200 {object} feed.Recommendation
// @Failure 404 {object} ErrorResponse
// @Router /feed/candidates/{user_id} [get]
func (h *FeedHandler) Candidate(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	candidateID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		return
	}

	candidate, err := h.feedUseCase.GetCandidate(c.Request.Context(), userID, candidateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}
