package domain

import "strings"

// MatchCandidate is a ranked recommendation. It is derived on demand and
// never persisted; its lifetime is the query call that produced it.
type MatchCandidate struct {
	UserID            int    `json:"user_id"`
	Score             int    `json:"score"`
	MatchedTeachSkill string `json:"matched_teach_skill"`
	MatchedLearnSkill string `json:"matched_learn_skill"`
	HasActiveSwap     bool   `json:"has_active_swap,omitempty"`
}

// equalSkill compares skill names exactly but case-insensitively.
// Fuzzy matching is a documented non-goal.
func equalSkill(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
