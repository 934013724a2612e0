// Package memory provides in-memory repository implementations with the same
// semantics as the postgres ones. They back the unit tests and the dev mode
// of the server, where no database is available.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type SwapRepository struct {
	mu    sync.RWMutex
	swaps map[uuid.UUID]*domain.Swap
}

func NewSwapRepository() *SwapRepository {
	return &SwapRepository{swaps: make(map[uuid.UUID]*domain.Swap)}
}

var _ repository.SwapRepository = (*SwapRepository)(nil)

func clone(s *domain.Swap) *domain.Swap {
	c := *s
	return &c
}

func (r *SwapRepository) Create(ctx context.Context, swap *domain.Swap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	swap.CreatedAt = now
	swap.UpdatedAt = now
	r.swaps[swap.ID] = clone(swap)
	return nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Swap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	swap, ok := r.swaps[id]
	if !ok {
		return nil, domain.ErrSwapNotFound
	}
	return clone(swap), nil
}

// UpdateStatus mirrors the postgres compare-and-set: the stored status must
// still equal expected or the update is refused.
func (r *SwapRepository) UpdateStatus(ctx context.Context, swap *domain.Swap, expected domain.SwapStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.swaps[swap.ID]
	if !ok {
		return domain.ErrSwapNotFound
	}
	if stored.Status != expected {
		return domain.ErrInvalidTransition
	}
	stored.Status = swap.Status
	stored.ScheduledDate = swap.ScheduledDate
	stored.DurationMinutes = swap.DurationMinutes
	stored.SessionType = swap.SessionType
	stored.UpdatedAt = time.Now().UTC()
	swap.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *SwapRepository) ListForUser(ctx context.Context, userID int) ([]*domain.Swap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var swaps []*domain.Swap
	for _, s := range r.swaps {
		if s.HasParticipant(userID) {
			swaps = append(swaps, clone(s))
		}
	}
	sort.Slice(swaps, func(i, j int) bool {
		return swaps[i].UpdatedAt.After(swaps[j].UpdatedAt)
	})
	return swaps, nil
}

func (r *SwapRepository) ListIncomingRequests(ctx context.Context, userID int) ([]*domain.Swap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var swaps []*domain.Swap
	for _, s := range r.swaps {
		if s.ReceiverID == userID && s.Status == domain.StatusPending {
			swaps = append(swaps, clone(s))
		}
	}
	sort.Slice(swaps, func(i, j int) bool {
		return swaps[i].UpdatedAt.After(swaps[j].UpdatedAt)
	})
	return swaps, nil
}

func (r *SwapRepository) ActiveBetween(ctx context.Context, userA, userB int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.swaps {
		if s.Status.Terminal() {
			continue
		}
		if (s.RequesterID == userA && s.ReceiverID == userB) ||
			(s.RequesterID == userB && s.ReceiverID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *SwapRepository) ActivePartners(ctx context.Context, userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[int]bool)
	var partners []int
	for _, s := range r.swaps {
		if s.Status.Terminal() || !s.HasParticipant(userID) {
			continue
		}
		other, _ := s.OtherParticipant(userID)
		if !seen[other] {
			seen[other] = true
			partners = append(partners, other)
		}
	}
	sort.Ints(partners)
	return partners, nil
}
