package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type swapRepository struct {
	db *sqlx.DB
}

func NewSwapRepository(db *sqlx.DB) repository.SwapRepository {
	return &swapRepository{db: db}
}

// terminalStatuses is inlined into queries that filter non-terminal swaps.
const nonTerminalCondition = `status NOT IN ('rejected', 'completed', 'cancelled')`

func (r *swapRepository) Create(ctx context.Context, swap *domain.Swap) error {
	query := `
		INSERT INTO swaps (id, requester_id, receiver_id, teach_skill, learn_skill, status, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		swap.ID, swap.RequesterID, swap.ReceiverID,
		swap.TeachSkill, swap.LearnSkill, swap.Status, swap.Message,
	).Scan(&swap.CreatedAt, &swap.UpdatedAt)
}

func (r *swapRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Swap, error) {
	var swap domain.Swap
	query := `SELECT * FROM swaps WHERE id = $1`
	err := r.db.GetContext(ctx, &swap, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}

// UpdateStatus is the concurrency gate: the WHERE clause on the expected
// status makes the transition an atomic compare-and-set, so two racing
// transitions cannot both land.
func (r *swapRepository) UpdateStatus(ctx context.Context, swap *domain.Swap, expected domain.SwapStatus) error {
	query := `
		UPDATE swaps
		SET status = $1, scheduled_date = $2, duration_minutes = $3, session_type = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND status = $6
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		swap.Status, swap.ScheduledDate, swap.DurationMinutes, swap.SessionType,
		swap.ID, expected,
	).Scan(&swap.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// No row matched: either the swap is gone or its status moved on.
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM swaps WHERE id = $1)`, swap.ID); err != nil {
		return err
	}
	if !exists {
		return domain.ErrSwapNotFound
	}
	return domain.ErrInvalidTransition
}

func (r *swapRepository) ListForUser(ctx context.Context, userID int) ([]*domain.Swap, error) {
	var swaps []*domain.Swap
	query := `
		SELECT * FROM swaps
		WHERE requester_id = $1 OR receiver_id = $1
		ORDER BY updated_at DESC
	`
	err := r.db.SelectContext(ctx, &swaps, query, userID)
	return swaps, err
}

func (r *swapRepository) ListIncomingRequests(ctx context.Context, userID int) ([]*domain.Swap, error) {
	var swaps []*domain.Swap
	query := `
		SELECT * FROM swaps
		WHERE receiver_id = $1 AND status = $2
		ORDER BY updated_at DESC
	`
	err := r.db.SelectContext(ctx, &swaps, query, userID, domain.StatusPending)
	return swaps, err
}

func (r *swapRepository) ActiveBetween(ctx context.Context, userA, userB int) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM swaps
		WHERE ((requester_id = $1 AND receiver_id = $2) OR (requester_id = $2 AND receiver_id = $1))
		  AND ` + nonTerminalCondition
	if err := r.db.GetContext(ctx, &count, query, userA, userB); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *swapRepository) ActivePartners(ctx context.Context, userID int) ([]int, error) {
	var partners []int
	query := `
		SELECT DISTINCT CASE WHEN requester_id = $1 THEN receiver_id ELSE requester_id END
		FROM swaps
		WHERE (requester_id = $1 OR receiver_id = $1) AND ` + nonTerminalCondition
	err := r.db.SelectContext(ctx, &partners, query, userID)
	return partners, err
}
