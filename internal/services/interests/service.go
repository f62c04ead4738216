package interests

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyInterested = errors.New("interest already marked")
	ErrDependenciesNil   = errors.New("interests dependencies are not configured")
)

type InterestStore interface {
	Create(ctx context.Context, userID, eventID int64, now time.Time) error
	Delete(ctx context.Context, userID, eventID int64) (bool, error)
	ListEventsForUser(ctx context.Context, userID int64) ([]pgrepo.EventRecord, error)
}

type EventStore interface {
	Exists(ctx context.Context, eventID int64) (bool, error)
}

type InterestedEvent struct {
	EventID   int64
	Title     string
	Category  string
	EventDate time.Time
}

type Service struct {
	interests InterestStore
	events    EventStore
	now       func() time.Time
}

func NewService(interests InterestStore, events EventStore) *Service {
	return &Service{
		interests: interests,
		events:    events,
		now:       time.Now,
	}
}

// Mark registers the user's interest in an event. Interest is the gate for
// swiping and candidate discovery, so the event must exist and the pair is
// unique.
func (s *Service) Mark(ctx context.Context, userID, eventID int64) error {
	if userID <= 0 || eventID <= 0 {
		return ErrValidation
	}
	if s.interests == nil || s.events == nil {
		return ErrDependenciesNil
	}

	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return ErrEventNotFound
	}

	if err := s.interests.Create(ctx, userID, eventID, s.now().UTC()); err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateInterest) {
			return ErrAlreadyInterested
		}
		return fmt.Errorf("create interest: %w", err)
	}

	return nil
}

// Unmark removes the interest. Removing an absent interest is a no-op.
func (s *Service) Unmark(ctx context.Context, userID, eventID int64) error {
	if userID <= 0 || eventID <= 0 {
		return ErrValidation
	}
	if s.interests == nil {
		return ErrDependenciesNil
	}

	if _, err := s.interests.Delete(ctx, userID, eventID); err != nil {
		return fmt.Errorf("delete interest: %w", err)
	}

	return nil
}

func (s *Service) ListEvents(ctx context.Context, userID int64) ([]InterestedEvent, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.interests == nil {
		return nil, ErrDependenciesNil
	}

	rows, err := s.interests.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list interested events: %w", err)
	}

	items := make([]InterestedEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, InterestedEvent{
			EventID:   row.ID,
			Title:     row.Title,
			Category:  row.Category,
			EventDate: row.EventDate,
		})
	}

	return items, nil
}
