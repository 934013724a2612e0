package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/projection"
	"github.com/skillswap24/skillswap-backend/internal/usecase/conversation"
	"github.com/skillswap24/skillswap-backend/internal/usecase/swap"
)

type SwapHandler struct {
	swapUseCase  *swap.UseCase
	orchestrator *conversation.Orchestrator
	view         *projection.SwapProjection
}

func NewSwapHandler(swapUseCase *swap.UseCase, orchestrator *conversation.Orchestrator, view *projection.SwapProjection) *SwapHandler {
	return &SwapHandler{
		swapUseCase:  swapUseCase,
		orchestrator: orchestrator,
		view:         view,
	}
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
func statusForError(err error) (int, string) {
	switch err {
	case domain.ErrSwapNotFound:
		return http.StatusNotFound, "swap not found"
	case domain.ErrUserNotFound:
		return http.StatusNotFound, "user not found"
	case domain.ErrInvalidParticipants:
		return http.StatusBadRequest, "requester and receiver must be different users"
	case domain.ErrDuplicateActiveSwap:
		return http.StatusConflict, "an active swap already exists with this user"
	case domain.ErrForbidden:
		return http.StatusForbidden, "you are not allowed to perform this action"
	case domain.ErrInvalidTransition:
		return http.StatusConflict, "the swap's current status does not permit this action"
	case domain.ErrInvalidSchedule:
		return http.StatusBadRequest, "scheduled date must be in the future"
	case domain.ErrInvalidInput:
		return http.StatusBadRequest, "invalid input"
	}
	return http.StatusInternalServerError, "internal error"
}

func respondError(c *gin.Context, err error) {
	status, message := statusForError(err)
	c.JSON(status, ErrorResponse{Error: message})
}

func actingUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return 0, false
	}
	return userID.(int), true
}

func swapIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid swap id"})
		return uuid.Nil, false
	}
	return id, true
}

// Request creates a new swap negotiation.
// @Summary Request a swap
// @Tags swaps
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body swap.RequestInput true "Swap request"
// @Success 201 {object} domain.Swap
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swaps [post]
func (h *SwapHandler) Request(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	var input swap.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.swapUseCase.Request(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	// Prime the projection so the caller's next read sees the new swap.
	_ = h.view.Refresh(c.Request.Context(), created)

	c.JSON(http.StatusCreated, created)
}

// mutate runs a transition through the optimistic projection: the tentative
// status is visible immediately, reconciled or rolled back once the
// authoritative call settles.
func (h *SwapHandler) mutate(
	c *gin.Context,
	swapID uuid.UUID,
	guess func(*domain.Swap),
	authoritative func(context.Context) (*domain.Swap, error),
) {
	updated, err := h.view.Mutate(c.Request.Context(), swapID, guess, authoritative)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Accept accepts a pending swap (receiver only).
// @Summary Accept a swap
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swaps/{id}/accept [post]
func (h *SwapHandler) Accept(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}
	h.mutate(c, swapID,
		func(s *domain.Swap) { s.Status = domain.StatusAccepted },
		func(ctx context.Context) (*domain.Swap, error) {
			return h.swapUseCase.Accept(ctx, swapID, userID)
		})
}

// Reject rejects a pending swap (receiver only).
// @Summary Reject a swap
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swaps/{id}/reject [post]
func (h *SwapHandler) Reject(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}
	h.mutate(c, swapID,
		func(s *domain.Swap) { s.Status = domain.StatusRejected },
		func(ctx context.Context) (*domain.Swap, error) {
			return h.swapUseCase.Reject(ctx, swapID, userID)
		})
}

// Schedule sets the session details on an accepted swap.
// @Summary Schedule a swap session
// @Tags swaps
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Swap ID"
// @Param request body swap.ScheduleInput true "Session details"
// @Success 200 {object} domain.Swap
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swaps/{id}/schedule [post]
func (h *SwapHandler) Schedule(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}

	var input swap.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.mutate(c, swapID,
		func(s *domain.Swap) {
			s.Status = domain.StatusScheduled
			date := input.ScheduledDate
			s.ScheduledDate = &date
		},
		func(ctx context.Context) (*domain.Swap, error) {
			return h.swapUseCase.Schedule(ctx, swapID, userID, &input)
		})
}

// Complete marks a scheduled or active swap as completed.
// @Summary Complete a swap
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 403 {object} ErrorResponse
// @Router /swaps/{id}/complete [post]
func (h *SwapHandler) Complete(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}
	h.mutate(c, swapID,
		func(s *domain.Swap) { s.Status = domain.StatusCompleted },
		func(ctx context.Context) (*domain.Swap, error) {
			return h.swapUseCase.Complete(ctx, swapID, userID)
		})
}

// Cancel cancels any non-terminal swap (either participant).
// @Summary Cancel a swap
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swaps/{id}/cancel [post]
func (h *SwapHandler) Cancel(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}
	h.mutate(c, swapID,
		func(s *domain.Swap) { s.Status = domain.StatusCancelled },
		func(ctx context.Context) (*domain.Swap, error) {
			return h.swapUseCase.Cancel(ctx, swapID, userID)
		})
}

// Begin moves a scheduled swap to active. Called by the scheduler
// collaborator when the session date arrives, not by users.
// @Summary Begin a scheduled swap (system)
// @Tags internal
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 409 {object} ErrorResponse
// @Router /internal/swaps/{id}/begin [post]
func (h *SwapHandler) Begin(c *gin.Context) {
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}

	updated, err := h.swapUseCase.Begin(c.Request.Context(), swapID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.view.Refresh(c.Request.Context(), updated)
	c.JSON(http.StatusOK, updated)
}

// ListMine returns every swap the caller participates in.
// @Summary List my swaps
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Swap
// @Router /swaps [get]
func (h *SwapHandler) ListMine(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	swaps, err := h.swapUseCase.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list swaps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": swaps, "count": len(swaps)})
}

// ListIncoming returns pending swap requests addressed to the caller.
// @Summary List incoming swap requests
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Swap
// @Router /swaps/incoming [get]
func (h *SwapHandler) ListIncoming(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	swaps, err := h.swapUseCase.ListIncomingRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list incoming requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": swaps, "count": len(swaps)})
}

// GetByID returns a single swap. The projection answers first so the caller
// sees its own reconciled (or in-flight optimistic) state; a miss falls
// through to the source of truth.
// @Summary Get a swap
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} domain.Swap
// @Failure 404 {object} ErrorResponse
// @Router /swaps/{id} [get]
func (h *SwapHandler) GetByID(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}

	if cached, ok := h.view.Get(c.Request.Context(), swapID); ok && cached.HasParticipant(userID) {
		c.JSON(http.StatusOK, cached)
		return
	}

	found, err := h.swapUseCase.GetByID(c.Request.Context(), swapID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "you are not a participant of this swap"})
		return
	}
	c.JSON(http.StatusOK, found)
}

// RetryConversation re-runs conversation creation for a swap whose messaging
// side effect failed. The swap itself is never rolled back for that.
// @Summary Retry conversation creation
// @Tags swaps
// @Security BearerAuth
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /swaps/{id}/conversation/retry [post]
func (h *SwapHandler) RetryConversation(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	swapID, ok := swapIDParam(c)
	if !ok {
		return
	}

	found, err := h.swapUseCase.GetByID(c.Request.Context(), swapID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "you are not a participant of this swap"})
		return
	}

	if err := h.orchestrator.SeedConversation(c.Request.Context(), found); err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "conversation creation failed"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "conversation ready"})
}
