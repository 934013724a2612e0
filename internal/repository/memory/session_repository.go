package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type SessionRepository struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]*domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*domain.Session)}
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now().UTC()
	c := *session
	r.sessions[session.Token] = &c
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, hashedToken string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[hashedToken]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c := *session
	return &c, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, hashedToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, hashedToken)
	return nil
}
