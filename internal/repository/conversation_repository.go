package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

// ConversationRepository fronts the messaging subsystem. Create must be
// idempotent per context id: a second call for the same ContextID returns
// domain.ErrConversationExists, which callers treat as success.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByContextID(ctx context.Context, contextID uuid.UUID) (*domain.Conversation, error)
	SendMessage(ctx context.Context, msg *domain.Message) error
}
