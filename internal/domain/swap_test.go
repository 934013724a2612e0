package domain_test

import (
	"testing"

	"github.com/skillswap24/skillswap-backend/internal/domain"
)

func TestSwapStatus_TransitionGraph(t *testing.T) {
	all := []domain.SwapStatus{
		domain.StatusPending, domain.StatusAccepted, domain.StatusRejected,
		domain.StatusScheduled, domain.StatusActive, domain.StatusCompleted,
		domain.StatusCancelled,
	}

	allowed := map[domain.SwapStatus]map[domain.SwapStatus]bool{
		domain.StatusPending: {
			domain.StatusAccepted:  true,
			domain.StatusRejected:  true,
			domain.StatusCancelled: true,
		},
		domain.StatusAccepted: {
			domain.StatusScheduled: true,
			domain.StatusCancelled: true,
		},
		domain.StatusScheduled: {
			domain.StatusActive:    true,
			domain.StatusCompleted: true,
			domain.StatusCancelled: true,
		},
		domain.StatusActive: {
			domain.StatusCompleted: true,
			domain.StatusCancelled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSwapStatus_Terminal(t *testing.T) {
	terminal := map[domain.SwapStatus]bool{
		domain.StatusPending:   false,
		domain.StatusAccepted:  false,
		domain.StatusRejected:  true,
		domain.StatusScheduled: false,
		domain.StatusActive:    false,
		domain.StatusCompleted: true,
		domain.StatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
	if domain.SwapStatus("bogus").Terminal() {
		t.Error("unknown status must not report terminal")
	}
}

func TestNewSwap_RejectsSelfSwap(t *testing.T) {
	if _, err := domain.NewSwap(7, 7, "Python", "Guitar", nil); err != domain.ErrInvalidParticipants {
		t.Fatalf("expected ErrInvalidParticipants, got %v", err)
	}
}

func TestNewSwap_RejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name       string
		requester  int
		receiver   int
		teachSkill string
		learnSkill string
	}{
		{"zero requester", 0, 2, "Python", "Guitar"},
		{"negative receiver", 1, -2, "Python", "Guitar"},
		{"empty teach skill", 1, 2, "", "Guitar"},
		{"empty learn skill", 1, 2, "Python", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := domain.NewSwap(tc.requester, tc.receiver, tc.teachSkill, tc.learnSkill, nil); err != domain.ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNewSwap_StartsPending(t *testing.T) {
	note := "evenings work best"
	swap, err := domain.NewSwap(1, 2, "Python", "Guitar", &note)
	if err != nil {
		t.Fatalf("NewSwap: %v", err)
	}
	if swap.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", swap.Status)
	}
	if swap.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated id")
	}
	if !swap.HasParticipant(1) || !swap.HasParticipant(2) || swap.HasParticipant(3) {
		t.Error("participant check is wrong")
	}
	if other, ok := swap.OtherParticipant(1); !ok || other != 2 {
		t.Errorf("OtherParticipant(1) = %d, %v", other, ok)
	}
}
