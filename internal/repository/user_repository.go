package repository

import (
	"context"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

// UserFilter narrows SearchUsers. Zero value matches everyone.
type UserFilter struct {
	Location   *string
	TeachSkill *string
	WantSkill  *string
	Limit      int
	Offset     int
}

// UserRepository reads the identity subsystem's user records, including the
// skill graph (taught/wanted skill sets). The core never writes users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
	SearchUsers(ctx context.Context, filter UserFilter) ([]*domain.User, error)
}
