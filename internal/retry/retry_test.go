package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func noSleep(slept *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	var slept []time.Duration
	p := NewPolicy(5, time.Second, nil).WithSleeper(noSleep(&slept))

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context, _ int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(slept) != 0 {
		t.Errorf("expected no sleeps, got %d", len(slept))
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	var slept []time.Duration
	p := NewPolicy(5, time.Second, func(err error) bool {
		return errors.Is(err, errTransient)
	}).WithSleeper(noSleep(&slept))

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context, _ int) error {
		calls++
		if calls < 5 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 calls, got %d", calls)
	}
	if len(slept) != 4 {
		t.Fatalf("expected 4 backoff sleeps, got %d", len(slept))
	}
	// Exponential growth: each delay strictly exceeds the previous base.
	for i := 1; i < len(slept); i++ {
		if slept[i] <= slept[i-1]-900*time.Millisecond {
			t.Errorf("delay %d (%v) did not grow over %v", i, slept[i], slept[i-1])
		}
	}
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	var slept []time.Duration
	p := NewPolicy(5, time.Second, func(err error) bool {
		return errors.Is(err, errTransient)
	}).WithSleeper(noSleep(&slept))

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context, _ int) error {
		calls++
		return errFatal
	})
	if !errors.Is(err, errFatal) {
		t.Fatalf("expected errFatal, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(slept) != 0 {
		t.Errorf("expected no sleeps, got %d", len(slept))
	}
}

func TestDo_ExhaustionWrapsLastError(t *testing.T) {
	var slept []time.Duration
	p := NewPolicy(3, time.Millisecond, nil).WithSleeper(noSleep(&slept))

	err := p.Do(context.Background(), func(_ context.Context, _ int) error {
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected wrapped errTransient, got %v", err)
	}
	if len(slept) != 2 {
		t.Errorf("expected 2 sleeps for 3 attempts, got %d", len(slept))
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	p := NewPolicy(5, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func(_ context.Context, _ int) error {
		t.Fatal("fn should not run with cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDo_PassesAttemptNumber(t *testing.T) {
	var slept []time.Duration
	p := NewPolicy(3, time.Millisecond, nil).WithSleeper(noSleep(&slept))

	var attempts []int
	_ = p.Do(context.Background(), func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		return errTransient
	})
	want := []int{0, 1, 2}
	if len(attempts) != len(want) {
		t.Fatalf("expected %v, got %v", want, attempts)
	}
	for i := range want {
		if attempts[i] != want[i] {
			t.Errorf("attempt %d: expected %d, got %d", i, want[i], attempts[i])
		}
	}
}

func TestDelay_GrowsExponentially(t *testing.T) {
	p := NewPolicy(5, time.Second, nil)
	p.JitterMin, p.JitterMax = 0, 0

	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second} {
		if got := p.Delay(attempt); got != want {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestDelay_JitterWithinBounds(t *testing.T) {
	p := NewPolicy(5, time.Second, nil)
	for i := 0; i < 100; i++ {
		d := p.Delay(0)
		if d < time.Second+p.JitterMin || d > time.Second+p.JitterMax {
			t.Fatalf("delay %v outside jitter bounds", d)
		}
	}
}
