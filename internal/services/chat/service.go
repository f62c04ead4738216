package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("buddy not found")
	ErrNotParticipant   = errors.New("not a participant of this buddy")
	ErrBuddyNotAccepted = errors.New("buddy is not accepted")
	ErrMessageTooLong   = errors.New("message is too long")
	ErrDependenciesNil  = errors.New("chat dependencies are not configured")
)

type SendRateError struct {
	RetryAfterSec int64
}

func (e SendRateError) Error() string {
	return "message rate limit exceeded"
}

func (e SendRateError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsRateLimited(err error) (*SendRateError, bool) {
	var rl SendRateError
	if errors.As(err, &rl) {
		return &rl, true
	}
	return nil, false
}

type BuddyStore interface {
	GetByID(ctx context.Context, buddyID int64) (pgrepo.BuddyRecord, error)
}

type MessageStore interface {
	Create(ctx context.Context, buddyID, senderID int64, body string, now time.Time) (pgrepo.MessageRecord, error)
	ListForBuddy(ctx context.Context, buddyID int64, limit int) ([]pgrepo.MessageRecord, error)
	MarkRead(ctx context.Context, buddyID, readerID int64) (int64, error)
}

type RateStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Publisher interface {
	PublishMessage(ctx context.Context, buddyID int64, payload []byte) error
}

type Config struct {
	SendMaxPerWindow int
	SendWindow       time.Duration
	MaxMessageBytes  int
}

type Message struct {
	ID        int64     `json:"id"`
	BuddyID   int64     `json:"buddyId"`
	SenderID  int64     `json:"senderId"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service relays messages inside an accepted pairing. Messages are persisted
// first, then published to the buddy's pub/sub channel so every connected
// client of either participant receives them.
type Service struct {
	buddies   BuddyStore
	messages  MessageStore
	rates     RateStore
	publisher Publisher
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(buddies BuddyStore, messages MessageStore, rates RateStore, publisher Publisher, cfg Config, logger *zap.Logger) *Service {
	if cfg.SendMaxPerWindow <= 0 {
		cfg.SendMaxPerWindow = 20
	}
	if cfg.SendWindow <= 0 {
		cfg.SendWindow = 10 * time.Second
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 4096
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		buddies:   buddies,
		messages:  messages,
		rates:     rates,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Authorize checks that the user may read and write inside the pairing.
func (s *Service) Authorize(ctx context.Context, buddyID, userID int64) (pgrepo.BuddyRecord, error) {
	if buddyID <= 0 || userID <= 0 {
		return pgrepo.BuddyRecord{}, ErrValidation
	}
	if s.buddies == nil {
		return pgrepo.BuddyRecord{}, ErrDependenciesNil
	}

	buddy, err := s.buddies.GetByID(ctx, buddyID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrBuddyNotFound) {
			return pgrepo.BuddyRecord{}, ErrNotFound
		}
		return pgrepo.BuddyRecord{}, fmt.Errorf("get buddy: %w", err)
	}
	if !buddy.HasParticipant(userID) {
		return pgrepo.BuddyRecord{}, ErrNotParticipant
	}
	if buddy.Status != pgrepo.BuddyStatusAccepted {
		return pgrepo.BuddyRecord{}, ErrBuddyNotAccepted
	}

	return buddy, nil
}

// GetMessages returns the conversation oldest first and marks the
// counterpart's messages as read for the caller.
func (s *Service) GetMessages(ctx context.Context, buddyID, callerID int64, limit int) ([]Message, error) {
	if _, err := s.Authorize(ctx, buddyID, callerID); err != nil {
		return nil, err
	}
	if s.messages == nil {
		return nil, ErrDependenciesNil
	}

	records, err := s.messages.ListForBuddy(ctx, buddyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	if _, err := s.messages.MarkRead(ctx, buddyID, callerID); err != nil {
		s.logger.Warn("mark messages read failed",
			zap.Int64("buddy_id", buddyID),
			zap.Int64("reader_id", callerID),
			zap.Error(err))
	}

	items := make([]Message, 0, len(records))
	for _, rec := range records {
		items = append(items, mapMessage(rec))
	}
	return items, nil
}

func (s *Service) Send(ctx context.Context, buddyID, senderID int64, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrValidation
	}
	if len(body) > s.cfg.MaxMessageBytes {
		return Message{}, ErrMessageTooLong
	}

	if _, err := s.Authorize(ctx, buddyID, senderID); err != nil {
		return Message{}, err
	}
	if s.messages == nil {
		return Message{}, ErrDependenciesNil
	}

	if s.rates != nil {
		count, ttl, err := s.rates.IncrementWindow(ctx, sendRateKey(senderID), s.cfg.SendWindow)
		if err != nil {
			return Message{}, fmt.Errorf("consume send rate limit: %w", err)
		}
		if count > int64(s.cfg.SendMaxPerWindow) {
			retryAfter := int64(ttl / time.Second)
			if ttl%time.Second > 0 {
				retryAfter++
			}
			return Message{}, SendRateError{RetryAfterSec: retryAfter}
		}
	}

	record, err := s.messages.Create(ctx, buddyID, senderID, body, s.now().UTC())
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	message := mapMessage(record)

	if s.publisher != nil {
		payload, err := json.Marshal(message)
		if err != nil {
			return Message{}, fmt.Errorf("encode message payload: %w", err)
		}
		if err := s.publisher.PublishMessage(ctx, buddyID, payload); err != nil {
			// The message is already durable. Delivery catches up on the
			// next history fetch.
			s.logger.Warn("publish chat message failed",
				zap.Int64("buddy_id", buddyID),
				zap.Int64("message_id", message.ID),
				zap.Error(err))
		}
	}

	return message, nil
}

func sendRateKey(senderID int64) string {
	return "chat:send:" + strconv.FormatInt(senderID, 10)
}

func mapMessage(rec pgrepo.MessageRecord) Message {
	return Message{
		ID:        rec.ID,
		BuddyID:   rec.BuddyID,
		SenderID:  rec.SenderID,
		Body:      rec.Body,
		Read:      rec.Read,
		CreatedAt: rec.CreatedAt,
	}
}
