package matching

import (
	"sort"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

// Scoring weights. Reciprocity (the candidate wanting what the subject
// teaches) is worth more than one-directional overlap.
const (
	WeightTheyTeachWhatIWant = 10
	WeightTheyWantWhatITeach = 15
	MaxScore                 = 100
)

// Engine computes compatibility scores between users based on their
// taught/wanted skill sets. It is stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Rank scores every candidate in the pool against the subject and returns
// them in descending score order with a stable tie-break on candidate id,
// so the ordering is deterministic for pagination and tests.
//
// Users listed in excluded (already in a non-terminal swap with the subject)
// are suppressed entirely. Zero-score candidates are kept so a small pool
// still produces a feed. An empty pool yields an empty list, not an error.
func (e *Engine) Rank(subject *domain.User, pool []*domain.User, excluded map[int]bool) []domain.MatchCandidate {
	candidates := make([]domain.MatchCandidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == subject.ID {
			continue
		}
		if excluded[candidate.ID] {
			continue
		}
		candidates = append(candidates, e.Score(subject, candidate))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].UserID < candidates[j].UserID
	})
	return candidates
}

// Score computes the compatibility of a single candidate. Skill names match
// on exact, case-insensitive equality; fuzzy matching is out of scope.
func (e *Engine) Score(subject, candidate *domain.User) domain.MatchCandidate {
	mc := domain.MatchCandidate{UserID: candidate.ID}

	score := 0
	for _, taught := range candidate.TaughtSkills {
		if subject.Wants(taught.Name) {
			score += WeightTheyTeachWhatIWant
			if mc.MatchedLearnSkill == "" {
				mc.MatchedLearnSkill = taught.Name
			}
		}
	}
	for _, taught := range subject.TaughtSkills {
		if candidate.Wants(taught.Name) {
			score += WeightTheyWantWhatITeach
			if mc.MatchedTeachSkill == "" {
				mc.MatchedTeachSkill = taught.Name
			}
		}
	}

	if score > MaxScore {
		score = MaxScore
	}
	mc.Score = score
	return mc
}
