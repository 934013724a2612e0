package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

type ConversationRepository struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*domain.Conversation // keyed by context id
	messages      map[uuid.UUID][]*domain.Message    // keyed by conversation id

	// FailCreates makes the next n Create calls fail; used to test retry paths.
	FailCreates int
	CreateCalls int
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[uuid.UUID]*domain.Conversation),
		messages:      make(map[uuid.UUID][]*domain.Message),
	}
}

var _ repository.ConversationRepository = (*ConversationRepository)(nil)

type createFailure struct{}

func (createFailure) Error() string { return "messaging subsystem unavailable" }

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	if r.FailCreates > 0 {
		r.FailCreates--
		return createFailure{}
	}
	if _, ok := r.conversations[conv.ContextID]; ok {
		return domain.ErrConversationExists
	}
	conv.CreatedAt = time.Now().UTC()
	c := *conv
	r.conversations[conv.ContextID] = &c
	return nil
}

func (r *ConversationRepository) GetByContextID(ctx context.Context, contextID uuid.UUID) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[contextID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	c := *conv
	return &c, nil
}

func (r *ConversationRepository) SendMessage(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.CreatedAt = time.Now().UTC()
	m := *msg
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &m)
	return nil
}

// Messages returns the stored messages for a conversation (test helper).
func (r *ConversationRepository) Messages(conversationID uuid.UUID) []*domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Message(nil), r.messages[conversationID]...)
}

// Count returns the number of conversations (test helper).
func (r *ConversationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}
