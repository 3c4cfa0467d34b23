package worker

import (
	"context"
	"errors"
	"testing"
)

func TestPoolExecutePreservesOrderAndConcurrency(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5}
	pool := NewPool(2, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})

	results, err := pool.Execute(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for i, r := range results {
		want := inputs[i] * inputs[i]
		if r.Result != want {
			t.Errorf("index %d: expected %d, got %d", i, want, r.Result)
		}
	}
}

func TestPoolExecuteSoftErrorsContinue(t *testing.T) {
	inputs := []int{1, 2, 3}
	pool := NewPool(3, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("soft failure")
		}
		return n, nil
	})

	results, err := pool.Execute(context.Background(), inputs)
	if err != nil {
		t.Fatalf("expected no fatal error from a soft per-item failure, got %v", err)
	}
	if results[1].Err == nil {
		t.Error("expected item 2's error to be recorded")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("expected items 1 and 3 to succeed despite item 2's failure")
	}
}

func TestPoolExecuteFatalErrorAborts(t *testing.T) {
	inputs := []int{1, 2, 3}
	pool := NewPool(1, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, &FatalError{Err: errors.New("unrecoverable")}
		}
		return n, nil
	})

	_, err := pool.Execute(context.Background(), inputs)
	if err == nil {
		t.Fatal("expected fatal error to propagate from Execute")
	}
}
