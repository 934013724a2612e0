package domain

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus is the lifecycle state of a swap negotiation.
type SwapStatus string

const (
	StatusPending   SwapStatus = "pending"
	StatusAccepted  SwapStatus = "accepted"
	StatusRejected  SwapStatus = "rejected"
	StatusScheduled SwapStatus = "scheduled"
	StatusActive    SwapStatus = "active"
	StatusCompleted SwapStatus = "completed"
	StatusCancelled SwapStatus = "cancelled"
)

// transitions is the only legal edge set of the swap lifecycle.
// Terminal states (rejected, completed, cancelled) have no outgoing edges.
var transitions = map[SwapStatus][]SwapStatus{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusActive, StatusCompleted, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
}

// IsValid reports whether s is one of the known statuses.
func (s SwapStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusScheduled,
		StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s SwapStatus) Terminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the edge s -> next exists in the lifecycle graph.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Swap is the central aggregate: a negotiated skill exchange between two users.
type Swap struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	RequesterID     int        `json:"requester_id" db:"requester_id"`
	ReceiverID      int        `json:"receiver_id" db:"receiver_id"`
	TeachSkill      string     `json:"teach_skill" db:"teach_skill"`
	LearnSkill      string     `json:"learn_skill" db:"learn_skill"`
	Status          SwapStatus `json:"status" db:"status"`
	Message         *string    `json:"message,omitempty" db:"message"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty" db:"scheduled_date"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	SessionType     *string    `json:"session_type,omitempty" db:"session_type"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// NewSwap builds a pending swap, rejecting malformed participants at the boundary.
func NewSwap(requesterID, receiverID int, teachSkill, learnSkill string, message *string) (*Swap, error) {
	if requesterID == receiverID {
		return nil, ErrInvalidParticipants
	}
	if requesterID <= 0 || receiverID <= 0 || teachSkill == "" || learnSkill == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now().UTC()
	return &Swap{
		ID:          uuid.New(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		TeachSkill:  teachSkill,
		LearnSkill:  learnSkill,
		Status:      StatusPending,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasParticipant reports whether userID is the requester or the receiver.
func (s *Swap) HasParticipant(userID int) bool {
	return s.RequesterID == userID || s.ReceiverID == userID
}

// OtherParticipant returns the counterpart of userID in the swap.
func (s *Swap) OtherParticipant(userID int) (int, bool) {
	if s.RequesterID == userID {
		return s.ReceiverID, true
	}
	if s.ReceiverID == userID {
		return s.RequesterID, true
	}
	return 0, false
}

// TransitionEvent is emitted after every successful status change.
// ActingUserID is 0 for system-triggered transitions (begin).
type TransitionEvent struct {
	SwapID       uuid.UUID  `json:"swap_id"`
	From         SwapStatus `json:"from"`
	To           SwapStatus `json:"to"`
	ActingUserID int        `json:"acting_user_id"`
	OccurredAt   time.Time  `json:"occurred_at"`
}
