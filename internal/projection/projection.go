// Package projection implements the optimistic consistency layer: a
// client-facing read model of swap state that applies tentative mutations
// immediately, reconciles with the authoritative store on success, and rolls
// back to the exact pre-mutation snapshot on failure.
package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

// SwapProjection wraps mutating swap operations. Calls on the same swap are
// serialized (a second call waits for the first to settle) so optimistic
// states never interleave; distinct swaps proceed concurrently.
type SwapProjection struct {
	store Store

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewSwapProjection(store Store) *SwapProjection {
	return &SwapProjection{
		store: store,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (p *SwapProjection) lockFor(id uuid.UUID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	return l
}

// Mutate runs a mutation with optimistic semantics:
//
//  1. snapshot the current projection entry,
//  2. apply the anticipated result so readers see the new state immediately,
//  3. run the authoritative call,
//  4. on success replace the entry with the authoritative swap (the
//     optimistic guess is never trusted for server-computed fields),
//  5. on failure restore the snapshot byte-for-byte and surface the error.
func (p *SwapProjection) Mutate(
	ctx context.Context,
	swapID uuid.UUID,
	optimistic func(*domain.Swap),
	authoritative func(context.Context) (*domain.Swap, error),
) (*domain.Swap, error) {
	lock := p.lockFor(swapID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, hadEntry, err := p.store.Get(ctx, swapID)
	if err != nil {
		// A broken cache must not block the authoritative path.
		return authoritative(ctx)
	}

	if hadEntry && optimistic != nil {
		var guess domain.Swap
		if err := json.Unmarshal(snapshot, &guess); err == nil {
			optimistic(&guess)
			if data, err := json.Marshal(&guess); err == nil {
				_ = p.store.Set(ctx, swapID, data)
			}
		}
	}

	result, err := authoritative(ctx)
	if err != nil {
		// Rollback: restore the exact pre-mutation snapshot, not a merge.
		if hadEntry {
			_ = p.store.Set(ctx, swapID, snapshot)
		} else {
			_ = p.store.Delete(ctx, swapID)
		}
		return nil, err
	}

	if err := p.put(ctx, result); err != nil {
		return result, nil
	}
	return result, nil
}

// Get returns the projected swap if an entry exists.
func (p *SwapProjection) Get(ctx context.Context, swapID uuid.UUID) (*domain.Swap, bool) {
	data, ok, err := p.store.Get(ctx, swapID)
	if err != nil || !ok {
		return nil, false
	}
	var swap domain.Swap
	if err := json.Unmarshal(data, &swap); err != nil {
		return nil, false
	}
	return &swap, true
}

// Refresh replaces the entry with an authoritative swap.
func (p *SwapProjection) Refresh(ctx context.Context, swap *domain.Swap) error {
	lock := p.lockFor(swap.ID)
	lock.Lock()
	defer lock.Unlock()
	return p.put(ctx, swap)
}

// Invalidate drops the projection entry; the next read falls through to the
// source of truth.
func (p *SwapProjection) Invalidate(ctx context.Context, swapID uuid.UUID) error {
	lock := p.lockFor(swapID)
	lock.Lock()
	defer lock.Unlock()
	return p.store.Delete(ctx, swapID)
}

func (p *SwapProjection) put(ctx context.Context, swap *domain.Swap) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("failed to encode swap projection: %w", err)
	}
	return p.store.Set(ctx, swap.ID, data)
}
