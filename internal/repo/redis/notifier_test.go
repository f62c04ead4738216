package redis_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/redis"
)

func TestChatNotifierRoundTrip(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	notifier := redrepo.NewChatNotifier(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type delivery struct {
		buddyID int64
		payload []byte
	}
	received := make(chan delivery, 1)

	if err := notifier.Subscribe(ctx, func(buddyID int64, payload []byte) {
		received <- delivery{buddyID: buddyID, payload: payload}
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := notifier.PublishMessage(ctx, 42, []byte(`{"body":"hello"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		if got.buddyID != 42 {
			t.Fatalf("unexpected buddy id: %d", got.buddyID)
		}
		if string(got.payload) != `{"body":"hello"}` {
			t.Fatalf("unexpected payload: %s", got.payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for published message")
	}
}

func TestChatChannelNaming(t *testing.T) {
	if got := redrepo.ChatChannel(7); got != "chat:buddy:7" {
		t.Fatalf("unexpected channel name: %s", got)
	}
}
