package sweep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"pet-custody-go/pkg/logger"
)

type fixedExpirer struct {
	n   int64
	err error
}

func (f fixedExpirer) ExpireOverdue(ctx context.Context) (int64, error) {
	return f.n, f.err
}

func (f fixedExpirer) ExpireOverdueRequests(ctx context.Context) (int64, error) {
	return f.n, f.err
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "json")
}

func TestRunOnceCollectsCounts(t *testing.T) {
	s := New(fixedExpirer{n: 2}, fixedExpirer{n: 3}, fixedExpirer{n: 5}, testLogger())

	result, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Invitations != 2 || result.PlacementRequests != 3 || result.TransferRequests != 5 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestRunOncePropagatesFailure(t *testing.T) {
	boom := errors.New("db down")
	s := New(fixedExpirer{err: boom}, fixedExpirer{n: 1}, fixedExpirer{n: 1}, testLogger())

	_, err := s.RunOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
