package swipes

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

type swipeStoreStub struct {
	record     pgrepo.SwipeRecord
	inserted   bool
	reciprocal bool
	upserts    int
	ops        *[]string
}

func (s *swipeStoreStub) Upsert(_ context.Context, _ pgx.Tx, eventID, swiperID, targetID int64, liked bool, now time.Time) (pgrepo.SwipeRecord, bool, error) {
	s.upserts++
	if s.ops != nil {
		*s.ops = append(*s.ops, "upsert")
	}
	rec := s.record
	if rec.ID == 0 {
		rec = pgrepo.SwipeRecord{
			ID:        int64(s.upserts),
			EventID:   eventID,
			SwiperID:  swiperID,
			TargetID:  targetID,
			Liked:     liked,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return rec, s.inserted, nil
}

func (s *swipeStoreStub) HasReciprocalLike(_ context.Context, _ pgx.Tx, _, _, _ int64) (bool, error) {
	return s.reciprocal, nil
}

type buddyStoreStub struct {
	record   pgrepo.BuddyRecord
	created  bool
	calls    int
	lockKeys []string
	ops      *[]string
}

func (s *buddyStoreStub) LockPair(_ context.Context, _ pgx.Tx, eventID, userOne, userTwo int64) error {
	userA, userB := userOne, userTwo
	if userA > userB {
		userA, userB = userB, userA
	}
	s.lockKeys = append(s.lockKeys, fmt.Sprintf("%d:%d:%d", eventID, userA, userB))
	if s.ops != nil {
		*s.ops = append(*s.ops, "lock")
	}
	return nil
}

func (s *buddyStoreStub) CreateOrGetAccepted(_ context.Context, _ pgx.Tx, eventID, requesterID, accepterID int64, now time.Time) (pgrepo.BuddyRecord, bool, error) {
	s.calls++
	rec := s.record
	if rec.ID == 0 {
		userA, userB := requesterID, accepterID
		if userA > userB {
			userA, userB = userB, userA
		}
		rec = pgrepo.BuddyRecord{
			ID:          99,
			EventID:     eventID,
			UserAID:     userA,
			UserBID:     userB,
			RequesterID: requesterID,
			AccepterID:  accepterID,
			Status:      pgrepo.BuddyStatusAccepted,
			Origin:      pgrepo.BuddyOriginSwipe,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return rec, s.created, nil
}

type eventStoreStub struct {
	existing map[int64]bool
}

func (s *eventStoreStub) Exists(_ context.Context, eventID int64) (bool, error) {
	return s.existing[eventID], nil
}

func newSwipeServiceForTest(swipes *swipeStoreStub, buddies *buddyStoreStub, events *eventStoreStub) *Service {
	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	service := NewService(runTx, swipes, buddies, events)
	service.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestSwipeRecordedWithoutReciprocal(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: true}
	buddyStore := &buddyStoreStub{}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	result, err := service.Swipe(context.Background(), 5, 1, 2, true)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Status != StatusRecorded {
		t.Fatalf("expected status %q, got %q", StatusRecorded, result.Status)
	}
	if result.Buddy != nil {
		t.Fatalf("no pairing expected without a reciprocal like")
	}
	if buddyStore.calls != 0 {
		t.Fatalf("buddy store should not have been called")
	}
}

func TestSwipeMutualLikeCreatesMatch(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: true, reciprocal: true}
	buddyStore := &buddyStoreStub{created: true}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	result, err := service.Swipe(context.Background(), 5, 2, 1, true)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Status != StatusMatch {
		t.Fatalf("expected status %q, got %q", StatusMatch, result.Status)
	}
	if result.Buddy == nil {
		t.Fatalf("expected a pairing in the result")
	}
	if result.Buddy.UserAID != 1 || result.Buddy.UserBID != 2 {
		t.Fatalf("expected sorted pair (1,2), got (%d,%d)", result.Buddy.UserAID, result.Buddy.UserBID)
	}
	if result.Buddy.Status != pgrepo.BuddyStatusAccepted {
		t.Fatalf("expected accepted pairing, got %q", result.Buddy.Status)
	}
}

func TestSwipeMatchWhenPairingAlreadyExists(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: false, reciprocal: true}
	buddyStore := &buddyStoreStub{created: false}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	result, err := service.Swipe(context.Background(), 5, 2, 1, true)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Status != StatusMatch {
		t.Fatalf("re-swipe over an existing pairing should still report %q, got %q", StatusMatch, result.Status)
	}
	if result.Buddy == nil {
		t.Fatalf("expected the surviving pairing in the result")
	}
}

func TestSwipeUpdatedOnRepeat(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: false}
	service := newSwipeServiceForTest(swipeStore, &buddyStoreStub{}, &eventStoreStub{existing: map[int64]bool{5: true}})

	result, err := service.Swipe(context.Background(), 5, 1, 2, false)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Status != StatusUpdated {
		t.Fatalf("expected status %q, got %q", StatusUpdated, result.Status)
	}
}

func TestSwipeDislikeSkipsReciprocalCheck(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: true, reciprocal: true}
	buddyStore := &buddyStoreStub{}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	result, err := service.Swipe(context.Background(), 5, 1, 2, false)
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if result.Status != StatusRecorded || result.Buddy != nil {
		t.Fatalf("dislike must never produce a pairing, got %+v", result)
	}
	if buddyStore.calls != 0 {
		t.Fatalf("buddy store should not have been called for a dislike")
	}
}

func TestSwipeLocksPairBeforeWriting(t *testing.T) {
	var ops []string
	swipeStore := &swipeStoreStub{inserted: true, ops: &ops}
	buddyStore := &buddyStoreStub{ops: &ops}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	if _, err := service.Swipe(context.Background(), 5, 1, 2, true); err != nil {
		t.Fatalf("swipe: %v", err)
	}

	if len(ops) == 0 || ops[0] != "lock" {
		t.Fatalf("pair lock must precede the swipe upsert, got ops %v", ops)
	}
}

func TestSwipeBothDirectionsLockSameKey(t *testing.T) {
	swipeStore := &swipeStoreStub{inserted: true}
	buddyStore := &buddyStoreStub{}
	service := newSwipeServiceForTest(swipeStore, buddyStore, &eventStoreStub{existing: map[int64]bool{5: true}})

	if _, err := service.Swipe(context.Background(), 5, 1, 2, true); err != nil {
		t.Fatalf("swipe 1->2: %v", err)
	}
	if _, err := service.Swipe(context.Background(), 5, 2, 1, true); err != nil {
		t.Fatalf("swipe 2->1: %v", err)
	}

	if len(buddyStore.lockKeys) != 2 {
		t.Fatalf("expected two lock acquisitions, got %v", buddyStore.lockKeys)
	}
	if buddyStore.lockKeys[0] != buddyStore.lockKeys[1] {
		t.Fatalf("both swipe directions must contend on one key, got %v", buddyStore.lockKeys)
	}
}

func TestSwipeSelf(t *testing.T) {
	service := newSwipeServiceForTest(&swipeStoreStub{}, &buddyStoreStub{}, &eventStoreStub{existing: map[int64]bool{5: true}})

	if _, err := service.Swipe(context.Background(), 5, 1, 1, true); !errors.Is(err, ErrSelfSwipe) {
		t.Fatalf("expected ErrSelfSwipe, got %v", err)
	}
}

func TestSwipeUnknownEvent(t *testing.T) {
	service := newSwipeServiceForTest(&swipeStoreStub{}, &buddyStoreStub{}, &eventStoreStub{existing: map[int64]bool{}})

	if _, err := service.Swipe(context.Background(), 5, 1, 2, true); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}
