package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

// Listener observes successful transitions. Listener failures are logged and
// never roll back the transition; downstream recovery is the listener's job.
type Listener interface {
	HandleTransition(ctx context.Context, event domain.TransitionEvent, swap *domain.Swap)
}

// UseCase owns the swap lifecycle. Every mutation validates actor identity
// and the current status before touching the store, and the store commits
// transitions with a compare-and-set, so illegal races fail with
// ErrInvalidTransition instead of landing twice.
type UseCase struct {
	swapRepo  repository.SwapRepository
	userRepo  repository.UserRepository
	listeners []Listener
}

func NewUseCase(swapRepo repository.SwapRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{
		swapRepo: swapRepo,
		userRepo: userRepo,
	}
}

// Subscribe registers a transition listener (the side-effect orchestrator).
func (uc *UseCase) Subscribe(l Listener) {
	uc.listeners = append(uc.listeners, l)
}

// RequestInput carries the request operation's payload.
type RequestInput struct {
	ReceiverID int     `json:"receiver_id" binding:"required"`
	TeachSkill string  `json:"teach_skill" binding:"required,max=100"`
	LearnSkill string  `json:"learn_skill" binding:"required,max=100"`
	Message    *string `json:"message" binding:"omitempty,max=500"`
}

// ScheduleInput carries the schedule operation's payload.
type ScheduleInput struct {
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=480"`
	SessionType     string    `json:"session_type" binding:"required,oneof=online in_person"`
}

// Request creates a swap in pending status and emits the creation event.
func (uc *UseCase) Request(ctx context.Context, requesterID int, input *RequestInput) (*domain.Swap, error) {
	swap, err := domain.NewSwap(requesterID, input.ReceiverID, input.TeachSkill, input.LearnSkill, input.Message)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ReceiverID); err != nil {
		return nil, err
	}

	// One non-terminal swap per pair; a second request is a conflict, not a
	// second negotiation.
	exists, err := uc.swapRepo.ActiveBetween(ctx, requesterID, input.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing swaps: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateActiveSwap
	}

	if err := uc.swapRepo.Create(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to create swap: %w", err)
	}

	uc.emit(ctx, domain.TransitionEvent{
		SwapID:       swap.ID,
		From:         "",
		To:           domain.StatusPending,
		ActingUserID: requesterID,
		OccurredAt:   swap.CreatedAt,
	}, swap)

	return swap, nil
}

// Accept moves pending -> accepted. Only the receiver may accept.
func (uc *UseCase) Accept(ctx context.Context, swapID uuid.UUID, actingUserID int) (*domain.Swap, error) {
	return uc.transition(ctx, swapID, actingUserID, domain.StatusAccepted, receiverOnly, nil)
}

// Reject moves pending -> rejected. Only the receiver may reject.
func (uc *UseCase) Reject(ctx context.Context, swapID uuid.UUID, actingUserID int) (*domain.Swap, error) {
	return uc.transition(ctx, swapID, actingUserID, domain.StatusRejected, receiverOnly, nil)
}

// Schedule moves accepted -> scheduled and records the session details.
// Either participant may schedule; the date must be strictly in the future.
func (uc *UseCase) Schedule(ctx context.Context, swapID uuid.UUID, actingUserID int, input *ScheduleInput) (*domain.Swap, error) {
	if !input.ScheduledDate.After(time.Now()) {
		return nil, domain.ErrInvalidSchedule
	}
	return uc.transition(ctx, swapID, actingUserID, domain.StatusScheduled, anyParticipant, func(s *domain.Swap) {
		date := input.ScheduledDate
		duration := input.DurationMinutes
		sessionType := input.SessionType
		s.ScheduledDate = &date
		s.DurationMinutes = &duration
		s.SessionType = &sessionType
	})
}

// Begin moves scheduled -> active. It is system-triggered by the external
// scheduler when the session date arrives, not a user action.
func (uc *UseCase) Begin(ctx context.Context, swapID uuid.UUID) (*domain.Swap, error) {
	return uc.transition(ctx, swapID, 0, domain.StatusActive, systemActor, nil)
}

// Complete moves scheduled/active -> completed. Either participant may call
// it; both sides may independently mark completion, so a second call on an
// already-completed swap is a no-op rather than an error.
func (uc *UseCase) Complete(ctx context.Context, swapID uuid.UUID, actingUserID int) (*domain.Swap, error) {
	swap, err := uc.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.HasParticipant(actingUserID) {
		return nil, domain.ErrForbidden
	}
	if swap.Status == domain.StatusCompleted {
		return swap, nil
	}
	updated, err := uc.transition(ctx, swapID, actingUserID, domain.StatusCompleted, anyParticipant, nil)
	if err == domain.ErrInvalidTransition {
		// Lost a race against the other participant's complete call: still
		// idempotent if the swap ended up completed.
		if current, getErr := uc.swapRepo.GetByID(ctx, swapID); getErr == nil && current.Status == domain.StatusCompleted {
			return current, nil
		}
	}
	return updated, err
}

// Cancel moves any non-terminal status -> cancelled. Participants only;
// there is no third-party/admin cancellation.
func (uc *UseCase) Cancel(ctx context.Context, swapID uuid.UUID, actingUserID int) (*domain.Swap, error) {
	return uc.transition(ctx, swapID, actingUserID, domain.StatusCancelled, anyParticipant, nil)
}

// actor rules for transitions
type actorRule int

const (
	receiverOnly actorRule = iota
	anyParticipant
	systemActor
)

// transition is the single mutation path: load, authorize, check the edge,
// apply, compare-and-set, emit. Any failure leaves the swap untouched.
func (uc *UseCase) transition(
	ctx context.Context,
	swapID uuid.UUID,
	actingUserID int,
	to domain.SwapStatus,
	rule actorRule,
	apply func(*domain.Swap),
) (*domain.Swap, error) {
	swap, err := uc.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	switch rule {
	case receiverOnly:
		if actingUserID != swap.ReceiverID {
			return nil, domain.ErrForbidden
		}
	case anyParticipant:
		if !swap.HasParticipant(actingUserID) {
			return nil, domain.ErrForbidden
		}
	case systemActor:
		// no actor check; invoked by the scheduler collaborator
	}

	from := swap.Status
	if !from.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}

	swap.Status = to
	if apply != nil {
		apply(swap)
	}

	if err := uc.swapRepo.UpdateStatus(ctx, swap, from); err != nil {
		return nil, err
	}

	uc.emit(ctx, domain.TransitionEvent{
		SwapID:       swap.ID,
		From:         from,
		To:           to,
		ActingUserID: actingUserID,
		OccurredAt:   swap.UpdatedAt,
	}, swap)

	return swap, nil
}

func (uc *UseCase) emit(ctx context.Context, event domain.TransitionEvent, swap *domain.Swap) {
	for _, l := range uc.listeners {
		l.HandleTransition(ctx, event, swap)
	}
}

// Query surface: pure read projections, no side effects.

// ListForUser returns every swap the user participates in, terminal ones
// included, ordered by updated_at descending.
func (uc *UseCase) ListForUser(ctx context.Context, userID int) ([]*domain.Swap, error) {
	return uc.swapRepo.ListForUser(ctx, userID)
}

// GetByID returns a single swap or ErrSwapNotFound.
func (uc *UseCase) GetByID(ctx context.Context, swapID uuid.UUID) (*domain.Swap, error) {
	return uc.swapRepo.GetByID(ctx, swapID)
}

// ListIncomingRequests returns pending swaps addressed to the user.
func (uc *UseCase) ListIncomingRequests(ctx context.Context, userID int) ([]*domain.Swap, error) {
	return uc.swapRepo.ListIncomingRequests(ctx, userID)
}
