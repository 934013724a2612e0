package domain

import "errors"

var (
	// Swap errors
	ErrSwapNotFound        = errors.New("swap not found")
	ErrInvalidParticipants = errors.New("requester and receiver must be different users")
	ErrDuplicateActiveSwap = errors.New("an active swap already exists between these users")
	ErrForbidden           = errors.New("user is not allowed to perform this transition")
	ErrInvalidTransition   = errors.New("current status does not permit this transition")
	ErrInvalidSchedule     = errors.New("scheduled date must be in the future")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Conversation errors
	ErrConversationExists   = errors.New("conversation already exists for this context")
	ErrConversationNotFound = errors.New("conversation not found")

	// Auth errors
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidInput    = errors.New("invalid input")
)
