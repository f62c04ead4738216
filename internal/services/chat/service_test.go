package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/redis"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

type buddyStoreStub struct {
	buddies map[int64]pgrepo.BuddyRecord
}

func (s *buddyStoreStub) GetByID(_ context.Context, buddyID int64) (pgrepo.BuddyRecord, error) {
	buddy, ok := s.buddies[buddyID]
	if !ok {
		return pgrepo.BuddyRecord{}, pgrepo.ErrBuddyNotFound
	}
	return buddy, nil
}

type messageStoreStub struct {
	nextID   int64
	created  []pgrepo.MessageRecord
	history  []pgrepo.MessageRecord
	readFor  []int64
	createAt time.Time
}

func (s *messageStoreStub) Create(_ context.Context, buddyID, senderID int64, body string, now time.Time) (pgrepo.MessageRecord, error) {
	s.nextID++
	rec := pgrepo.MessageRecord{
		ID:        s.nextID,
		BuddyID:   buddyID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: now,
	}
	s.created = append(s.created, rec)
	s.createAt = now
	return rec, nil
}

func (s *messageStoreStub) ListForBuddy(_ context.Context, _ int64, _ int) ([]pgrepo.MessageRecord, error) {
	return s.history, nil
}

func (s *messageStoreStub) MarkRead(_ context.Context, _, readerID int64) (int64, error) {
	s.readFor = append(s.readFor, readerID)
	return 1, nil
}

type publisherStub struct {
	published [][]byte
	buddyIDs  []int64
	err       error
}

func (s *publisherStub) PublishMessage(_ context.Context, buddyID int64, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.buddyIDs = append(s.buddyIDs, buddyID)
	s.published = append(s.published, payload)
	return nil
}

func acceptedBuddy() map[int64]pgrepo.BuddyRecord {
	return map[int64]pgrepo.BuddyRecord{
		9: {
			ID:      9,
			EventID: 5,
			UserAID: 1,
			UserBID: 2,
			Status:  pgrepo.BuddyStatusAccepted,
		},
		10: {
			ID:      10,
			EventID: 5,
			UserAID: 1,
			UserBID: 3,
			Status:  pgrepo.BuddyStatusPending,
		},
	}
}

func newChatServiceForTest(publisher Publisher, rates RateStore) (*Service, *messageStoreStub) {
	messages := &messageStoreStub{}
	service := NewService(&buddyStoreStub{buddies: acceptedBuddy()}, messages, rates, publisher, Config{
		SendMaxPerWindow: 3,
		SendWindow:       10 * time.Second,
		MaxMessageBytes:  64,
	}, nil)
	service.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return service, messages
}

func TestSendPersistsThenPublishes(t *testing.T) {
	publisher := &publisherStub{}
	service, messages := newChatServiceForTest(publisher, nil)

	message, err := service.Send(context.Background(), 9, 1, "see you at the gate")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(messages.created) != 1 {
		t.Fatalf("message was not persisted")
	}
	if len(publisher.published) != 1 || publisher.buddyIDs[0] != 9 {
		t.Fatalf("message was not published to the buddy channel")
	}

	var relayed Message
	if err := json.Unmarshal(publisher.published[0], &relayed); err != nil {
		t.Fatalf("decode published payload: %v", err)
	}
	if relayed.ID != message.ID || relayed.Body != "see you at the gate" {
		t.Fatalf("published payload differs from persisted message: %+v", relayed)
	}
}

func TestSendSurvivesPublishFailure(t *testing.T) {
	publisher := &publisherStub{err: errors.New("redis down")}
	service, messages := newChatServiceForTest(publisher, nil)

	if _, err := service.Send(context.Background(), 9, 1, "hello"); err != nil {
		t.Fatalf("send should succeed when publish fails, got %v", err)
	}
	if len(messages.created) != 1 {
		t.Fatalf("message should still be persisted")
	}
}

func TestSendRejectsNonParticipant(t *testing.T) {
	service, _ := newChatServiceForTest(&publisherStub{}, nil)

	if _, err := service.Send(context.Background(), 9, 7, "hello"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestSendRejectsPendingBuddy(t *testing.T) {
	service, _ := newChatServiceForTest(&publisherStub{}, nil)

	if _, err := service.Send(context.Background(), 10, 1, "hello"); !errors.Is(err, ErrBuddyNotAccepted) {
		t.Fatalf("expected ErrBuddyNotAccepted, got %v", err)
	}
}

func TestSendRejectsUnknownBuddy(t *testing.T) {
	service, _ := newChatServiceForTest(&publisherStub{}, nil)

	if _, err := service.Send(context.Background(), 404, 1, "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendValidatesBody(t *testing.T) {
	service, _ := newChatServiceForTest(&publisherStub{}, nil)

	if _, err := service.Send(context.Background(), 9, 1, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank body, got %v", err)
	}
	if _, err := service.Send(context.Background(), 9, 1, strings.Repeat("x", 65)); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestSendRateLimit(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mini.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	defer func() { _ = client.Close() }()

	service, _ := newChatServiceForTest(&publisherStub{}, redrepo.NewRateRepo(client))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := service.Send(ctx, 9, 1, "hello"); err != nil {
			t.Fatalf("send %d within the window: %v", i+1, err)
		}
	}

	_, err = service.Send(ctx, 9, 1, "hello again")
	rl, ok := IsRateLimited(err)
	if !ok {
		t.Fatalf("fourth send should be rate limited, got %v", err)
	}
	if rl.RetryAfter() <= 0 {
		t.Fatalf("retry-after should be positive, got %d", rl.RetryAfter())
	}
}

func TestGetMessagesMarksRead(t *testing.T) {
	service, messages := newChatServiceForTest(&publisherStub{}, nil)
	messages.history = []pgrepo.MessageRecord{
		{ID: 1, BuddyID: 9, SenderID: 2, Body: "hey"},
		{ID: 2, BuddyID: 9, SenderID: 1, Body: "hi"},
	}

	items, err := service.GetMessages(context.Background(), 9, 1, 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 {
		t.Fatalf("unexpected history: %+v", items)
	}
	if len(messages.readFor) != 1 || messages.readFor[0] != 1 {
		t.Fatalf("history fetch should mark counterpart messages read")
	}
}

func TestGetMessagesRejectsNonParticipant(t *testing.T) {
	service, _ := newChatServiceForTest(&publisherStub{}, nil)

	if _, err := service.GetMessages(context.Background(), 9, 7, 0); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}
