package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const (
	chatChannelPrefix  = "chat:buddy:"
	chatChannelPattern = "chat:buddy:*"
)

// ChatNotifier fans chat payloads out through redis pub/sub so every api
// instance can deliver them to its own websocket clients.
type ChatNotifier struct {
	client *goredis.Client
}

func NewChatNotifier(client *goredis.Client) *ChatNotifier {
	return &ChatNotifier{client: client}
}

func (n *ChatNotifier) PublishMessage(ctx context.Context, buddyID int64, payload []byte) error {
	if n.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if buddyID <= 0 || len(payload) == 0 {
		return fmt.Errorf("invalid chat publish payload")
	}

	if err := n.client.Publish(ctx, ChatChannel(buddyID), payload).Err(); err != nil {
		return fmt.Errorf("publish chat message: %w", err)
	}
	return nil
}

// Subscribe listens on every buddy chat channel and invokes onMessage with
// the parsed buddy id. The loop stops when ctx is cancelled.
func (n *ChatNotifier) Subscribe(ctx context.Context, onMessage func(buddyID int64, payload []byte)) error {
	if n.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if onMessage == nil {
		return fmt.Errorf("chat subscriber callback is required")
	}

	sub := n.client.PSubscribe(ctx, chatChannelPattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("confirm chat subscription: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				buddyID, err := parseChatChannel(msg.Channel)
				if err != nil {
					continue
				}
				onMessage(buddyID, []byte(msg.Payload))
			}
		}
	}()

	return nil
}

func ChatChannel(buddyID int64) string {
	return chatChannelPrefix + strconv.FormatInt(buddyID, 10)
}

func parseChatChannel(channel string) (int64, error) {
	raw := strings.TrimPrefix(channel, chatChannelPrefix)
	if raw == channel || raw == "" {
		return 0, fmt.Errorf("unexpected chat channel %q", channel)
	}
	buddyID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || buddyID <= 0 {
		return 0, fmt.Errorf("unexpected chat channel %q", channel)
	}
	return buddyID, nil
}
