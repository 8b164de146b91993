//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func TestPostgres_SetGet_Integration(t *testing.T) {
	dsn := os.Getenv("STORAGE_DSN")
	if dsn == "" {
		t.Skip("STORAGE_DSN not set")
	}

	kv, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres failed: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	if err := kv.Set(ctx, "integration-key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	defer kv.Delete(ctx, "integration-key")

	got, err := kv.Get(ctx, "integration-key")
	if err != nil || got != "value" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}
