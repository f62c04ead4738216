package redis_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/redis"
)

func newRateRepoForTest(t *testing.T) (*redrepo.RateRepo, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redrepo.NewRateRepo(client), mini
}

func TestIncrementWindowCountsWithinTTL(t *testing.T) {
	repo, _ := newRateRepoForTest(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, ttl, err := repo.IncrementWindow(ctx, "chat:send:7", 10*time.Second)
		if err != nil {
			t.Fatalf("increment %d: %v", want, err)
		}
		if count != want {
			t.Fatalf("unexpected count: got %d want %d", count, want)
		}
		if ttl <= 0 || ttl > 10*time.Second {
			t.Fatalf("unexpected ttl: %s", ttl)
		}
	}
}

func TestIncrementWindowResetsAfterExpiry(t *testing.T) {
	repo, mini := newRateRepoForTest(t)
	ctx := context.Background()

	if _, _, err := repo.IncrementWindow(ctx, "chat:send:8", 10*time.Second); err != nil {
		t.Fatalf("first increment: %v", err)
	}

	mini.FastForward(11 * time.Second)

	count, _, err := repo.IncrementWindow(ctx, "chat:send:8", 10*time.Second)
	if err != nil {
		t.Fatalf("increment after expiry: %v", err)
	}
	if count != 1 {
		t.Fatalf("window should reset after expiry, got count %d", count)
	}
}

func TestWindowStateReportsCurrentCount(t *testing.T) {
	repo, _ := newRateRepoForTest(t)
	ctx := context.Background()

	count, ttl, err := repo.WindowState(ctx, "chat:send:9")
	if err != nil {
		t.Fatalf("state of missing key: %v", err)
	}
	if count != 0 || ttl != 0 {
		t.Fatalf("missing key should report zero state, got count=%d ttl=%s", count, ttl)
	}

	if _, _, err := repo.IncrementWindow(ctx, "chat:send:9", 10*time.Second); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if _, _, err := repo.IncrementWindow(ctx, "chat:send:9", 10*time.Second); err != nil {
		t.Fatalf("increment: %v", err)
	}

	count, ttl, err = repo.WindowState(ctx, "chat:send:9")
	if err != nil {
		t.Fatalf("window state: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count: got %d want 2", count)
	}
	if ttl <= 0 {
		t.Fatalf("ttl should be positive, got %s", ttl)
	}
}
