package db

import (
	"context"
	"errors"
	"testing"
)

func TestAfterCommitRunsImmediatelyOutsideUnit(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(context.Context) { ran = true })
	if !ran {
		t.Fatalf("expected immediate run outside a unit")
	}
}

func TestWithCommitHooksDefersUntilSuccess(t *testing.T) {
	var order []string
	err := WithCommitHooks(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { order = append(order, "hook") })
		order = append(order, "body")
		return nil
	})
	if err != nil {
		t.Fatalf("unit failed: %v", err)
	}
	if len(order) != 2 || order[0] != "body" || order[1] != "hook" {
		t.Fatalf("expected hook after body, got %v", order)
	}
}

func TestWithCommitHooksDropsHooksOnFailure(t *testing.T) {
	failure := errors.New("abort")
	ran := false
	err := WithCommitHooks(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { ran = true })
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if ran {
		t.Fatalf("hook must not run after a failed unit")
	}
}

func TestWithCommitHooksNestedJoinsOutermost(t *testing.T) {
	var order []string
	err := WithCommitHooks(context.Background(), func(ctx context.Context) error {
		inner := WithCommitHooks(ctx, func(ctx context.Context) error {
			AfterCommit(ctx, func(context.Context) { order = append(order, "inner hook") })
			return nil
		})
		if inner != nil {
			return inner
		}
		order = append(order, "outer body")
		return nil
	})
	if err != nil {
		t.Fatalf("unit failed: %v", err)
	}
	if len(order) != 2 || order[0] != "outer body" || order[1] != "inner hook" {
		t.Fatalf("inner hooks must wait for the outermost commit, got %v", order)
	}
}

func TestWithCommitHooksNestedFailureDropsInnerHooks(t *testing.T) {
	failure := errors.New("outer abort")
	ran := false
	err := WithCommitHooks(context.Background(), func(ctx context.Context) error {
		_ = WithCommitHooks(ctx, func(ctx context.Context) error {
			AfterCommit(ctx, func(context.Context) { ran = true })
			return nil
		})
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if ran {
		t.Fatalf("inner hooks must not survive an aborted outer unit")
	}
}
