package interests

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

type interestStoreStub struct {
	created   []int64
	createErr error
	deleted   []int64
	events    []pgrepo.EventRecord
}

func (s *interestStoreStub) Create(_ context.Context, _, eventID int64, _ time.Time) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, eventID)
	return nil
}

func (s *interestStoreStub) Delete(_ context.Context, _, eventID int64) (bool, error) {
	s.deleted = append(s.deleted, eventID)
	return false, nil
}

func (s *interestStoreStub) ListEventsForUser(_ context.Context, _ int64) ([]pgrepo.EventRecord, error) {
	return s.events, nil
}

type eventStoreStub struct {
	existing map[int64]bool
}

func (s *eventStoreStub) Exists(_ context.Context, eventID int64) (bool, error) {
	return s.existing[eventID], nil
}

func TestMarkCreatesInterest(t *testing.T) {
	interests := &interestStoreStub{}
	events := &eventStoreStub{existing: map[int64]bool{42: true}}
	service := NewService(interests, events)

	if err := service.Mark(context.Background(), 7, 42); err != nil {
		t.Fatalf("mark interest: %v", err)
	}
	if len(interests.created) != 1 || interests.created[0] != 42 {
		t.Fatalf("unexpected created interests: %v", interests.created)
	}
}

func TestMarkUnknownEvent(t *testing.T) {
	service := NewService(&interestStoreStub{}, &eventStoreStub{existing: map[int64]bool{}})

	if err := service.Mark(context.Background(), 7, 42); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestMarkDuplicate(t *testing.T) {
	interests := &interestStoreStub{createErr: pgrepo.ErrDuplicateInterest}
	events := &eventStoreStub{existing: map[int64]bool{42: true}}
	service := NewService(interests, events)

	if err := service.Mark(context.Background(), 7, 42); !errors.Is(err, ErrAlreadyInterested) {
		t.Fatalf("expected ErrAlreadyInterested, got %v", err)
	}
}

func TestMarkValidation(t *testing.T) {
	service := NewService(&interestStoreStub{}, &eventStoreStub{})

	if err := service.Mark(context.Background(), 0, 42); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad user, got %v", err)
	}
	if err := service.Mark(context.Background(), 7, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad event, got %v", err)
	}
}

func TestUnmarkIsIdempotent(t *testing.T) {
	interests := &interestStoreStub{}
	service := NewService(interests, &eventStoreStub{})

	if err := service.Unmark(context.Background(), 7, 42); err != nil {
		t.Fatalf("unmark absent interest: %v", err)
	}
	if err := service.Unmark(context.Background(), 7, 42); err != nil {
		t.Fatalf("unmark again: %v", err)
	}
}

func TestListEventsMapsRows(t *testing.T) {
	when := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	interests := &interestStoreStub{
		events: []pgrepo.EventRecord{
			{ID: 42, Title: "Indie Night", Category: "music", EventDate: when},
		},
	}
	service := NewService(interests, &eventStoreStub{})

	items, err := service.ListEvents(context.Background(), 7)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one event, got %d", len(items))
	}
	if items[0].EventID != 42 || items[0].Title != "Indie Night" || !items[0].EventDate.Equal(when) {
		t.Fatalf("unexpected event mapping: %+v", items[0])
	}
}
