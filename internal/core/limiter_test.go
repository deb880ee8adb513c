package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ============================================================================
// UploadLimiter
// ============================================================================

func TestUploadLimiterAcquireRelease(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if got := l.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}

	l.Release()
	if got := l.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount after release = %d, want 1", got)
	}

	// The freed slot is immediately reusable.
	if err := l.Acquire(context.Background()); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}

	l.Release()
	l.Release()
}

func TestUploadLimiterRejectsWhenFull(t *testing.T) {
	l := NewUploadLimiter(1, 20*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer l.Release()

	start := time.Now()
	err := l.Acquire(context.Background())
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("expected ErrTooManyUploads, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("rejected after %v, expected to wait near the timeout", elapsed)
	}
}

func TestUploadLimiterContextCancellation(t *testing.T) {
	l := NewUploadLimiter(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestUploadLimiterDefaults(t *testing.T) {
	l := NewUploadLimiter(0, 0)

	for i := 0; i < DefaultMaxConcurrentUploads; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire %d failed: %v", i, err)
		}
	}
	if got := l.ActiveCount(); got != DefaultMaxConcurrentUploads {
		t.Errorf("ActiveCount = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
	for i := 0; i < DefaultMaxConcurrentUploads; i++ {
		l.Release()
	}
}

func TestUploadLimiterWaitForDrain(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- l.WaitForDrain(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	l.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForDrain did not return after the last release")
	}
}

func TestUploadLimiterWaitForDrainTimeout(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error while a slot is held, got %v", err)
	}
}
