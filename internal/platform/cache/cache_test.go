package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dest map[string]string
	err := c.GetJSON(ctx, "k", &dest)
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}
