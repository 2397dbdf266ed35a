package store

import (
	"context"
	"testing"

	"github.com/pharmatrack/chaintrackr/internal/db"
)

func TestEnsureJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := EnsureJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call must return the same secret.
	secret2, err := EnsureJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	value, err := GetSetting(ctx, database, "maintenance_mode")
	if err != nil {
		t.Fatal(err)
	}
	if value != "" {
		t.Fatalf("expected empty value for unset key, got %q", value)
	}

	if err := SetSetting(ctx, database, "maintenance_mode", "on"); err != nil {
		t.Fatal(err)
	}
	if err := SetSetting(ctx, database, "maintenance_mode", "off"); err != nil {
		t.Fatal(err)
	}

	value, err = GetSetting(ctx, database, "maintenance_mode")
	if err != nil {
		t.Fatal(err)
	}
	if value != "off" {
		t.Fatalf("expected latest value, got %q", value)
	}
}
