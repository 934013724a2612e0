package feed

import (
	"context"
	"fmt"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository"
	"github.com/skillswap24/skillswap-backend/internal/usecase/matching"
)

// UseCase produces the ranked recommendation feed. Users already in a
// non-terminal swap with the subject are suppressed so the feed never offers
// a duplicate negotiation.
type UseCase struct {
	userRepo repository.UserRepository
	swapRepo repository.SwapRepository
	matcher  *matching.Engine
}

func NewUseCase(userRepo repository.UserRepository, swapRepo repository.SwapRepository, matcher *matching.Engine) *UseCase {
	return &UseCase{
		userRepo: userRepo,
		swapRepo: swapRepo,
		matcher:  matcher,
	}
}

// Recommendation is a match candidate joined with display data for the feed.
type Recommendation struct {
	domain.MatchCandidate
	DisplayName    string               `json:"display_name"`
	Location       *string              `json:"location,omitempty"`
	Rating         float64              `json:"rating"`
	CompletedSwaps int                  `json:"completed_swaps"`
	TaughtSkills   []domain.TaughtSkill `json:"taught_skills"`
	WantedSkills   []string             `json:"wanted_skills"`
}

// GetRecommendations ranks the candidate pool for the subject user.
func (uc *UseCase) GetRecommendations(ctx context.Context, userID int, limit int) ([]*Recommendation, error) {
	subject, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject user: %w", err)
	}

	pool, err := uc.userRepo.SearchUsers(ctx, repository.UserFilter{Limit: 200})
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	partners, err := uc.swapRepo.ActivePartners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active partners: %w", err)
	}
	excluded := make(map[int]bool, len(partners))
	for _, p := range partners {
		excluded[p] = true
	}

	candidates := uc.matcher.Rank(subject, pool, excluded)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	byID := make(map[int]*domain.User, len(pool))
	for _, u := range pool {
		byID[u.ID] = u
	}

	recommendations := make([]*Recommendation, 0, len(candidates))
	for _, c := range candidates {
		user := byID[c.UserID]
		if user == nil {
			continue
		}
		recommendations = append(recommendations, &Recommendation{
			MatchCandidate: c,
			DisplayName:    user.DisplayName,
			Location:       user.Location,
			Rating:         user.Rating,
			CompletedSwaps: user.CompletedSwaps,
			TaughtSkills:   user.TaughtSkills,
			WantedSkills:   user.WantedSkills,
		})
	}
	return recommendations, nil
}

// GetCandidate scores a single user against the subject. Unlike the feed,
// direct lookups do not suppress existing partners; they flag them instead.
func (uc *UseCase) GetCandidate(ctx context.Context, subjectID, candidateID int) (*Recommendation, error) {
	subject, err := uc.userRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	candidate, err := uc.userRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	mc := uc.matcher.Score(subject, candidate)
	active, err := uc.swapRepo.ActiveBetween(ctx, subjectID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active swaps: %w", err)
	}
	mc.HasActiveSwap = active

	return &Recommendation{
		MatchCandidate: mc,
		DisplayName:    candidate.DisplayName,
		Location:       candidate.Location,
		Rating:         candidate.Rating,
		CompletedSwaps: candidate.CompletedSwaps,
		TaughtSkills:   candidate.TaughtSkills,
		WantedSkills:   candidate.WantedSkills,
	}, nil
}
