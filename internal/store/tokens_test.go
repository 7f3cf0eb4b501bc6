package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/internal/testutil"
)

func TestPostgresBlacklist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	bl := store.PostgresBlacklist{DB: db}

	jti := uuid.NewString()
	ok, err := bl.Contains(ctx, jti)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if ok {
		t.Error("Fresh jti should not be blacklisted")
	}

	expires := time.Now().Add(time.Hour)
	for i := 0; i < 2; i++ {
		if err := bl.Add(ctx, jti, user.ID, expires); err != nil {
			t.Fatalf("Add #%d: %v", i+1, err)
		}
	}

	ok, err = bl.Contains(ctx, jti)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !ok {
		t.Error("Expected jti to be blacklisted")
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "bob")
	bl := store.PostgresBlacklist{DB: db}

	expired := uuid.NewString()
	live := uuid.NewString()
	if err := bl.Add(ctx, expired, user.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Add expired: %v", err)
	}
	if err := bl.Add(ctx, live, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Add live: %v", err)
	}

	n, err := store.PurgeExpiredTokens(ctx, db)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 purged token, got %d", n)
	}
	if ok, _ := bl.Contains(ctx, live); !ok {
		t.Error("Live token should still be blacklisted")
	}
}

func TestManagerWithPostgresBlacklist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "carol")
	manager := auth.NewManager("test-secret", time.Minute, time.Hour, store.PostgresBlacklist{DB: db})

	pair, err := manager.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := manager.Refresh(ctx, pair.Refresh); err != nil {
		t.Fatalf("Refresh before logout: %v", err)
	}
	if err := manager.Revoke(ctx, pair.Refresh); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := manager.Refresh(ctx, pair.Refresh); err != auth.ErrTokenBlacklisted {
		t.Errorf("Expected ErrTokenBlacklisted, got %v", err)
	}
}
