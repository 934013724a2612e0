package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/infrastructure/gemini"
	"github.com/skillswap24/skillswap-backend/internal/repository"
)

// Orchestrator reacts to swap transitions. On swap creation it opens exactly
// one conversation (ContextID = swap id) and posts one seed message. The
// creation is keyed on the context id, so a retried invocation for the same
// swap finds the existing conversation and succeeds instead of duplicating.
//
// Other transitions are observed by the messaging subsystem itself; this
// core does not post system messages for them.
type Orchestrator struct {
	convRepo repository.ConversationRepository
	gemini   *gemini.Client // optional; nil disables AI enrichment
}

func NewOrchestrator(convRepo repository.ConversationRepository, geminiClient *gemini.Client) *Orchestrator {
	return &Orchestrator{
		convRepo: convRepo,
		gemini:   geminiClient,
	}
}

// HandleTransition implements the swap use case's listener contract.
// A messaging failure is logged, never propagated: the swap transition has
// already committed and must not be rolled back for a downstream failure.
func (o *Orchestrator) HandleTransition(ctx context.Context, event domain.TransitionEvent, swap *domain.Swap) {
	if event.From != "" || event.To != domain.StatusPending {
		return
	}
	if err := o.SeedConversation(ctx, swap); err != nil {
		fmt.Printf("Warning: failed to seed conversation for swap %s: %v\n", swap.ID, err)
	}
}

// SeedConversation creates the swap's conversation and seed message. It is
// safe to call repeatedly; "already exists" counts as success.
func (o *Orchestrator) SeedConversation(ctx context.Context, swap *domain.Swap) error {
	content := o.seedContent(ctx, swap)

	conv := &domain.Conversation{
		ID:                 uuid.New(),
		ContextID:          swap.ID,
		ParticipantA:       swap.RequesterID,
		ParticipantB:       swap.ReceiverID,
		LastMessagePreview: preview(content),
	}

	err := o.convRepo.Create(ctx, conv)
	if err == domain.ErrConversationExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       swap.RequesterID,
		Content:        content,
	}
	if err := o.convRepo.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send seed message: %w", err)
	}
	return nil
}

// seedContent summarizes the offer and appends the requester's note. When a
// Gemini client is configured, an icebreaker suggestion is appended too; AI
// is strictly best-effort and any failure falls back to the plain template.
func (o *Orchestrator) seedContent(ctx context.Context, swap *domain.Swap) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Swap request: I can teach %s and would love to learn %s from you.", swap.TeachSkill, swap.LearnSkill)
	if swap.Message != nil && *swap.Message != "" {
		sb.WriteString("\n\n")
		sb.WriteString(*swap.Message)
	}

	if o.gemini != nil {
		if icebreakers, err := o.gemini.GenerateIcebreakers(ctx, swap.TeachSkill, swap.LearnSkill); err == nil && len(icebreakers) > 0 {
			sb.WriteString("\n\n")
			sb.WriteString(icebreakers[0])
		}
	}
	return sb.String()
}

func preview(content string) string {
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
