package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[int]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int]*domain.User)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// Put seeds a user; this stands in for the external identity store.
func (r *UserRepository) Put(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *user
	r.users[user.ID] = &c
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *user
	return &c, nil
}

func (r *UserRepository) SearchUsers(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []*domain.User
	for _, u := range r.users {
		if filter.Location != nil && *filter.Location != "" {
			if u.Location == nil || *u.Location != *filter.Location {
				continue
			}
		}
		if filter.TeachSkill != nil && *filter.TeachSkill != "" && !u.Teaches(*filter.TeachSkill) {
			continue
		}
		if filter.WantSkill != nil && *filter.WantSkill != "" && !u.Wants(*filter.WantSkill) {
			continue
		}
		c := *u
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Rating != users[j].Rating {
			return users[i].Rating > users[j].Rating
		}
		return users[i].ID < users[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(users) {
			return nil, nil
		}
		users = users[filter.Offset:]
	}
	if filter.Limit > 0 && len(users) > filter.Limit {
		users = users[:filter.Limit]
	}
	return users, nil
}
