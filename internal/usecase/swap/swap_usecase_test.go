package swap_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap24/skillswap-backend/internal/domain"
	"github.com/skillswap24/skillswap-backend/internal/repository/memory"
	"github.com/skillswap24/skillswap-backend/internal/usecase/swap"
)

const (
	alice = 1
	bob   = 2
	carol = 3
)

// recordingListener captures every emitted transition event.
type recordingListener struct {
	mu     sync.Mutex
	events []domain.TransitionEvent
}

func (l *recordingListener) HandleTransition(ctx context.Context, event domain.TransitionEvent, s *domain.Swap) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingListener) Events() []domain.TransitionEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.TransitionEvent(nil), l.events...)
}

func newTestUseCase(t *testing.T) (*swap.UseCase, *memory.SwapRepository, *recordingListener) {
	t.Helper()
	swapRepo := memory.NewSwapRepository()
	userRepo := memory.NewUserRepository()
	for id, name := range map[int]string{alice: "Alice", bob: "Bob", carol: "Carol"} {
		userRepo.Put(&domain.User{ID: id, DisplayName: name})
	}

	uc := swap.NewUseCase(swapRepo, userRepo)
	listener := &recordingListener{}
	uc.Subscribe(listener)
	return uc, swapRepo, listener
}

func requestSwap(t *testing.T, uc *swap.UseCase, requester, receiver int) *domain.Swap {
	t.Helper()
	s, err := uc.Request(context.Background(), requester, &swap.RequestInput{
		ReceiverID: receiver,
		TeachSkill: "Python",
		LearnSkill: "Guitar",
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	return s
}

func scheduleInput() *swap.ScheduleInput {
	return &swap.ScheduleInput{
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
		SessionType:     "online",
	}
}

func TestRequest_CreatesPendingAndEmits(t *testing.T) {
	uc, _, listener := newTestUseCase(t)

	note := "weekday evenings?"
	s, err := uc.Request(context.Background(), alice, &swap.RequestInput{
		ReceiverID: bob,
		TeachSkill: "Python",
		LearnSkill: "Guitar",
		Message:    &note,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if s.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", s.Status)
	}

	events := listener.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].From != "" || events[0].To != domain.StatusPending {
		t.Errorf("creation event = %s -> %s", events[0].From, events[0].To)
	}
	if events[0].ActingUserID != alice {
		t.Errorf("acting user = %d, want %d", events[0].ActingUserID, alice)
	}
}

func TestRequest_UnknownReceiver(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.Request(context.Background(), alice, &swap.RequestInput{
		ReceiverID: 99,
		TeachSkill: "Python",
		LearnSkill: "Guitar",
	})
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRequest_DuplicateActiveSwap(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	requestSwap(t, uc, alice, bob)

	// A second request between the same pair conflicts, in either direction.
	if _, err := uc.Request(context.Background(), alice, &swap.RequestInput{
		ReceiverID: bob, TeachSkill: "Chess", LearnSkill: "Cooking",
	}); err != domain.ErrDuplicateActiveSwap {
		t.Fatalf("same direction: expected ErrDuplicateActiveSwap, got %v", err)
	}
	if _, err := uc.Request(context.Background(), bob, &swap.RequestInput{
		ReceiverID: alice, TeachSkill: "Guitar", LearnSkill: "Python",
	}); err != domain.ErrDuplicateActiveSwap {
		t.Fatalf("reverse direction: expected ErrDuplicateActiveSwap, got %v", err)
	}

	// A different pair is fine.
	requestSwap(t, uc, alice, carol)
}

func TestRequest_AllowedAgainAfterTerminal(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)

	if _, err := uc.Reject(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	requestSwap(t, uc, alice, bob)
}

func TestAccept_ReceiverOnly(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)

	// The requester cannot accept their own request; neither can a stranger.
	if _, err := uc.Accept(context.Background(), s.ID, alice); err != domain.ErrForbidden {
		t.Fatalf("requester accept: expected ErrForbidden, got %v", err)
	}
	if _, err := uc.Accept(context.Background(), s.ID, carol); err != domain.ErrForbidden {
		t.Fatalf("stranger accept: expected ErrForbidden, got %v", err)
	}

	updated, err := uc.Accept(context.Background(), s.ID, bob)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if updated.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want accepted", updated.Status)
	}
}

func TestAccept_NonPendingFails(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)

	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != domain.ErrInvalidTransition {
		t.Fatalf("second accept: expected ErrInvalidTransition, got %v", err)
	}
}

func TestReject_TerminalAndImmutable(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)

	updated, err := uc.Reject(context.Background(), s.ID, bob)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if updated.Status != domain.StatusRejected {
		t.Errorf("status = %s, want rejected", updated.Status)
	}

	// Nothing moves a rejected swap.
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != domain.ErrInvalidTransition {
		t.Errorf("accept after reject: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := uc.Cancel(context.Background(), s.ID, alice); err != domain.ErrInvalidTransition {
		t.Errorf("cancel after reject: expected ErrInvalidTransition, got %v", err)
	}
}

func TestSchedule_RecordsSessionDetails(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	input := scheduleInput()
	updated, err := uc.Schedule(context.Background(), s.ID, alice, input)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if updated.Status != domain.StatusScheduled {
		t.Errorf("status = %s, want scheduled", updated.Status)
	}
	if updated.ScheduledDate == nil || !updated.ScheduledDate.Equal(input.ScheduledDate) {
		t.Errorf("scheduled date not recorded: %v", updated.ScheduledDate)
	}
	if updated.DurationMinutes == nil || *updated.DurationMinutes != 60 {
		t.Errorf("duration not recorded: %v", updated.DurationMinutes)
	}
	if updated.SessionType == nil || *updated.SessionType != "online" {
		t.Errorf("session type not recorded: %v", updated.SessionType)
	}
}

func TestSchedule_PastDate(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	input := scheduleInput()
	input.ScheduledDate = time.Now().Add(-time.Hour)
	if _, err := uc.Schedule(context.Background(), s.ID, alice, input); err != domain.ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}

	// The failed schedule must not have touched the swap.
	current, err := uc.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if current.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want accepted (unchanged)", current.Status)
	}
}

func TestSchedule_BeforeAcceptFails(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)

	if _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBegin_SystemTransition(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := uc.Schedule(context.Background(), s.ID, bob, scheduleInput()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	updated, err := uc.Begin(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if updated.Status != domain.StatusActive {
		t.Errorf("status = %s, want active", updated.Status)
	}

	// A duplicate scheduler tick must not re-activate.
	if _, err := uc.Begin(context.Background(), s.ID); err != domain.ErrInvalidTransition {
		t.Errorf("second begin: expected ErrInvalidTransition, got %v", err)
	}
}

func TestComplete_Idempotent(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// Both sides mark completion; the second call is a no-op success.
	if _, err := uc.Complete(context.Background(), s.ID, alice); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	updated, err := uc.Complete(context.Background(), s.ID, bob)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", updated.Status)
	}

	// A stranger still cannot "complete", idempotent or not.
	if _, err := uc.Complete(context.Background(), s.ID, carol); err != domain.ErrForbidden {
		t.Errorf("stranger complete: expected ErrForbidden, got %v", err)
	}
}

func TestComplete_FromActive(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	for _, step := range []func() error{
		func() error { _, err := uc.Accept(context.Background(), s.ID, bob); return err },
		func() error { _, err := uc.Schedule(context.Background(), s.ID, bob, scheduleInput()); return err },
		func() error { _, err := uc.Begin(context.Background(), s.ID); return err },
	} {
		if err := step(); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	updated, err := uc.Complete(context.Background(), s.ID, bob)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", updated.Status)
	}
}

func TestCancel_FromEveryNonTerminalStatus(t *testing.T) {
	type setup func(t *testing.T, uc *swap.UseCase, s *domain.Swap)

	cases := []struct {
		name string
		prep setup
	}{
		{"pending", func(t *testing.T, uc *swap.UseCase, s *domain.Swap) {}},
		{"accepted", func(t *testing.T, uc *swap.UseCase, s *domain.Swap) {
			if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
				t.Fatalf("Accept: %v", err)
			}
		}},
		{"scheduled", func(t *testing.T, uc *swap.UseCase, s *domain.Swap) {
			if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
				t.Fatalf("Accept: %v", err)
			}
			if _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); err != nil {
				t.Fatalf("Schedule: %v", err)
			}
		}},
		{"active", func(t *testing.T, uc *swap.UseCase, s *domain.Swap) {
			if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
				t.Fatalf("Accept: %v", err)
			}
			if _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); err != nil {
				t.Fatalf("Schedule: %v", err)
			}
			if _, err := uc.Begin(context.Background(), s.ID); err != nil {
				t.Fatalf("Begin: %v", err)
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, _ := newTestUseCase(t)
			s := requestSwap(t, uc, alice, bob)
			tc.prep(t, uc, s)

			updated, err := uc.Cancel(context.Background(), s.ID, alice)
			if err != nil {
				t.Fatalf("Cancel: %v", err)
			}
			if updated.Status != domain.StatusCancelled {
				t.Errorf("status = %s, want cancelled", updated.Status)
			}
		})
	}
}

func TestCancel_CompletedFails(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	s := requestSwap(t, uc, alice, bob)
	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := uc.Complete(context.Background(), s.ID, alice); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := uc.Cancel(context.Background(), s.ID, alice); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	if _, err := uc.GetByID(context.Background(), uuid.New()); err != domain.ErrSwapNotFound {
		t.Fatalf("expected ErrSwapNotFound, got %v", err)
	}
}

func TestListIncomingRequests_OnlyPendingForReceiver(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	toBob := requestSwap(t, uc, alice, bob)
	toCarol := requestSwap(t, uc, alice, carol)
	if _, err := uc.Accept(context.Background(), toCarol.ID, carol); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	incoming, err := uc.ListIncomingRequests(context.Background(), bob)
	if err != nil {
		t.Fatalf("ListIncomingRequests: %v", err)
	}
	if len(incoming) != 1 || incoming[0].ID != toBob.ID {
		t.Fatalf("incoming = %v, want only the pending request to bob", incoming)
	}

	// Carol accepted hers, so her incoming queue is empty now.
	incoming, err = uc.ListIncomingRequests(context.Background(), carol)
	if err != nil {
		t.Fatalf("ListIncomingRequests: %v", err)
	}
	if len(incoming) != 0 {
		t.Fatalf("carol incoming = %v, want empty", incoming)
	}
}

func TestFullLifecycle_RequestToCompleted(t *testing.T) {
	uc, _, listener := newTestUseCase(t)

	note := "I have Tuesday evenings free"
	s, err := uc.Request(context.Background(), alice, &swap.RequestInput{
		ReceiverID: bob,
		TeachSkill: "Python",
		LearnSkill: "Guitar",
		Message:    &note,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if _, err := uc.Accept(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := uc.Schedule(context.Background(), s.ID, bob, scheduleInput()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := uc.Begin(context.Background(), s.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := uc.Complete(context.Background(), s.ID, alice); err != nil {
		t.Fatalf("Complete (alice): %v", err)
	}
	if _, err := uc.Complete(context.Background(), s.ID, bob); err != nil {
		t.Fatalf("Complete (bob): %v", err)
	}

	final, err := uc.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Status != domain.StatusCompleted {
		t.Errorf("final status = %s, want completed", final.Status)
	}

	// Exactly one event per realized transition, in order. The duplicate
	// complete call did not emit.
	wantEdges := []domain.SwapStatus{
		domain.StatusPending, domain.StatusAccepted, domain.StatusScheduled,
		domain.StatusActive, domain.StatusCompleted,
	}
	events := listener.Events()
	if len(events) != len(wantEdges) {
		t.Fatalf("got %d events, want %d", len(events), len(wantEdges))
	}
	for i, e := range events {
		if e.To != wantEdges[i] {
			t.Errorf("event %d: To = %s, want %s", i, e.To, wantEdges[i])
		}
	}
}

// TestRandomOperationSequences drives random user and system operations
// against a fresh swap and checks that every transition that actually
// committed was a legal edge of the status graph, regardless of ordering.
func TestRandomOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		uc, _, listener := newTestUseCase(t)
		s := requestSwap(t, uc, alice, bob)

		ops := []func() error{
			func() error { _, err := uc.Accept(context.Background(), s.ID, bob); return err },
			func() error { _, err := uc.Reject(context.Background(), s.ID, bob); return err },
			func() error { _, err := uc.Schedule(context.Background(), s.ID, alice, scheduleInput()); return err },
			func() error { _, err := uc.Begin(context.Background(), s.ID); return err },
			func() error { _, err := uc.Complete(context.Background(), s.ID, bob); return err },
			func() error { _, err := uc.Cancel(context.Background(), s.ID, alice); return err },
			// Hostile/no-op calls that must never commit anything.
			func() error { _, err := uc.Accept(context.Background(), s.ID, alice); return err },
			func() error { _, err := uc.Cancel(context.Background(), s.ID, carol); return err },
		}

		for i := 0; i < 20; i++ {
			// Errors are expected here; legality is judged from the events.
			_ = ops[rng.Intn(len(ops))]()
		}

		events := listener.Events()
		prev := domain.SwapStatus("")
		for i, e := range events {
			if e.From != prev {
				t.Fatalf("round %d event %d: From = %q, want %q (events must chain)", round, i, e.From, prev)
			}
			if e.From == "" {
				if e.To != domain.StatusPending {
					t.Fatalf("round %d: creation event must land on pending, got %s", round, e.To)
				}
			} else if !e.From.CanTransitionTo(e.To) {
				t.Fatalf("round %d event %d: illegal edge %s -> %s committed", round, i, e.From, e.To)
			}
			prev = e.To
		}

		final, err := uc.GetByID(context.Background(), s.ID)
		if err != nil {
			t.Fatalf("round %d: GetByID: %v", round, err)
		}
		if final.Status != prev {
			t.Fatalf("round %d: stored status %s disagrees with last event %s", round, final.Status, prev)
		}
	}
}
