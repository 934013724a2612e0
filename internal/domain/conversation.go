package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation belongs to the messaging subsystem. The core creates one per
// swap (ContextID == swap id) and never mutates it afterwards.
type Conversation struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ContextID          uuid.UUID `json:"context_id" db:"context_id"`
	ParticipantA       int       `json:"participant_a" db:"participant_a"`
	ParticipantB       int       `json:"participant_b" db:"participant_b"`
	LastMessagePreview string    `json:"last_message_preview" db:"last_message_preview"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// Message is a single chat message; the core only posts the seed message.
type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SenderID       int       `json:"sender_id" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
