package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"secondhand-marketplace/internal/domain"
	"secondhand-marketplace/internal/testdb"
)

func exerciseRepository(t *testing.T, repo Repository, userID int64) {
	t.Helper()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	if err := repo.Create(ctx, domain.Session{ID: "s-1", UserID: userID, ExpiresAt: expires}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, domain.Session{ID: "s-1", UserID: userID, ExpiresAt: expires}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := repo.Create(ctx, domain.Session{ID: "s-2", UserID: userID, ExpiresAt: expires}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	got, err := repo.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != userID || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := repo.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "s-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if _, err := repo.Get(ctx, "s-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after DeleteByUser, got %v", err)
	}
}

func TestPostgres_Lifecycle(t *testing.T) {
	pool := testdb.Pool(t)
	userID := testdb.InsertUser(t, pool, "sessionuser")
	exerciseRepository(t, NewPostgres(pool), userID)
}

func TestRedis_Lifecycle(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping Redis integration test")
	}
	client, err := NewRedisClient(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	client.Del(context.Background(), sessionKey("s-1"), sessionKey("s-2"), userKey(42))

	exerciseRepository(t, NewRedis(client), 42)
}

func TestRedis_RejectsExpiredSession(t *testing.T) {
	repo := &redisRepo{now: time.Now}
	err := repo.Create(context.Background(), domain.Session{ID: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)})
	if err == nil {
		t.Fatalf("expected error for expired session")
	}
}
