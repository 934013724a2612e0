package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

// SwapRepository persists the swap aggregate. Transition updates must be
// atomic compare-and-set on the current status: the store, not a lock,
// serializes concurrent transitions on the same swap.
type SwapRepository interface {
	Create(ctx context.Context, swap *domain.Swap) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Swap, error)

	// UpdateStatus applies swap's new status and schedule fields only if the
	// stored row is still in expected status. Returns domain.ErrInvalidTransition
	// when the row moved on, domain.ErrSwapNotFound when it does not exist.
	UpdateStatus(ctx context.Context, swap *domain.Swap, expected domain.SwapStatus) error

	// ListForUser returns all swaps where the user is a participant, terminal
	// ones included, newest update first.
	ListForUser(ctx context.Context, userID int) ([]*domain.Swap, error)

	// ListIncomingRequests returns pending swaps addressed to the user.
	ListIncomingRequests(ctx context.Context, userID int) ([]*domain.Swap, error)

	// ActiveBetween reports whether a non-terminal swap exists between the pair,
	// in either direction.
	ActiveBetween(ctx context.Context, userA, userB int) (bool, error)

	// ActivePartners returns the ids of users in a non-terminal swap with the
	// user. Used to suppress duplicate recommendations.
	ActivePartners(ctx context.Context, userID int) ([]int, error)
}
