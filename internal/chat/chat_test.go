package chat

import (
	"context"
	"errors"
	"testing"
)

func TestSend_SuccessReplacesWithConfirmed(t *testing.T) {
	confirmed := Transcript{
		{Role: RoleUser, Content: "what is a derivative?"},
		{Role: RoleAssistant, Content: "The derivative measures rate of change."},
	}
	sender := SenderFunc(func(_ context.Context, userID, subject, message string) (Transcript, error) {
		if userID != "u1" || subject != "math" || message != "what is a derivative?" {
			t.Errorf("sender got (%q, %q, %q)", userID, subject, message)
		}
		return confirmed, nil
	})
	r := NewReconciler(sender, nil)

	got, err := r.Send(context.Background(), "u1", "math", "what is a derivative?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Role != RoleAssistant {
		t.Fatalf("unexpected transcript: %+v", got)
	}

	local := r.Transcript("u1", "math")
	if len(local) != 2 {
		t.Errorf("local transcript not replaced: %+v", local)
	}
}

func TestSend_FailureRollsBackOptimisticMessage(t *testing.T) {
	r := NewReconciler(nil, nil)
	seed := Transcript{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}
	if err := r.Seed("u1", "math", seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	r.sender = SenderFunc(func(_ context.Context, _, _, _ string) (Transcript, error) {
		return nil, errors.New("server unreachable")
	})

	_, err := r.Send(context.Background(), "u1", "math", "next question")
	if err == nil {
		t.Fatal("expected error")
	}

	local := r.Transcript("u1", "math")
	if len(local) != len(seed) {
		t.Fatalf("transcript length %d after rollback, want %d", len(local), len(seed))
	}
	if local[len(local)-1].Content != "hello" {
		t.Errorf("prior history mangled: %+v", local)
	}
}

func TestSend_OptimisticMessageVisibleDuringFlight(t *testing.T) {
	var r *Reconciler
	seen := make(chan int, 1)
	sender := SenderFunc(func(_ context.Context, userID, subject, _ string) (Transcript, error) {
		seen <- len(r.Transcript(userID, subject))
		return Transcript{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}}, nil
	})
	r = NewReconciler(sender, nil)

	if _, err := r.Send(context.Background(), "u1", "math", "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := <-seen; n != 1 {
		t.Errorf("optimistic message should be visible mid-flight, saw %d entries", n)
	}
}

func TestSend_EmptyMessageRejected(t *testing.T) {
	r := NewReconciler(SenderFunc(func(_ context.Context, _, _, _ string) (Transcript, error) {
		t.Error("sender should not be called for an empty message")
		return nil, nil
	}), nil)

	if _, err := r.Send(context.Background(), "u1", "math", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSend_InFlightRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var r *Reconciler
	sender := SenderFunc(func(_ context.Context, _, _, _ string) (Transcript, error) {
		close(started)
		<-release
		return Transcript{{Role: RoleUser, Content: "q"}}, nil
	})
	r = NewReconciler(sender, nil)

	done := make(chan error, 1)
	go func() {
		_, err := r.Send(context.Background(), "u1", "math", "q")
		done <- err
	}()
	<-started

	if _, err := r.Send(context.Background(), "u1", "math", "again"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("expected ErrSendInFlight, got %v", err)
	}
	if err := r.Seed("u1", "math", nil); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("Seed during flight: expected ErrSendInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send failed: %v", err)
	}
}

func TestSend_SessionsIndependent(t *testing.T) {
	sender := SenderFunc(func(_ context.Context, userID, _, message string) (Transcript, error) {
		return Transcript{
			{Role: RoleUser, Content: message},
			{Role: RoleAssistant, Content: "reply for " + userID},
		}, nil
	})
	r := NewReconciler(sender, nil)

	if _, err := r.Send(context.Background(), "u1", "math", "q1"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Send(context.Background(), "u2", "math", "q2"); err != nil {
		t.Fatal(err)
	}

	t1 := r.Transcript("u1", "math")
	t2 := r.Transcript("u2", "math")
	if t1[1].Content != "reply for u1" || t2[1].Content != "reply for u2" {
		t.Errorf("sessions leaked into each other: %+v / %+v", t1, t2)
	}
}

func TestSeed(t *testing.T) {
	r := NewReconciler(nil, nil)
	seed := Transcript{{Role: RoleAssistant, Content: "welcome back"}}
	if err := r.Seed("u1", "math", seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.Transcript("u1", "math")
	if len(got) != 1 || got[0].Content != "welcome back" {
		t.Fatalf("unexpected transcript: %+v", got)
	}

	// Mutating the returned copy must not affect the stored transcript.
	got[0].Content = "tampered"
	if r.Transcript("u1", "math")[0].Content != "welcome back" {
		t.Error("Transcript should return an independent copy")
	}
}

func TestClone_Independent(t *testing.T) {
	orig := Transcript{{Role: RoleUser, Content: "a"}}
	c := orig.Clone()
	c[0].Content = "b"
	if orig[0].Content != "a" {
		t.Error("Clone should not share backing storage")
	}
}
