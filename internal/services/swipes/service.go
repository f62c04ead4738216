package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrSelfSwipe       = errors.New("cannot swipe on yourself")
	ErrEventNotFound   = errors.New("event not found")
	ErrDependenciesNil = errors.New("swipes dependencies are not configured")
)

const (
	StatusRecorded = "recorded"
	StatusUpdated  = "updated"
	StatusMatch    = "match"
)

type SwipeStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, eventID, swiperID, targetID int64, liked bool, now time.Time) (pgrepo.SwipeRecord, bool, error)
	HasReciprocalLike(ctx context.Context, tx pgx.Tx, eventID, swiperID, targetID int64) (bool, error)
}

type BuddyStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, eventID, userOne, userTwo int64) error
	CreateOrGetAccepted(ctx context.Context, tx pgx.Tx, eventID, requesterID, accepterID int64, now time.Time) (pgrepo.BuddyRecord, bool, error)
}

type EventStore interface {
	Exists(ctx context.Context, eventID int64) (bool, error)
}

type Result struct {
	Status string
	Swipe  pgrepo.SwipeRecord
	Buddy  *pgrepo.BuddyRecord
}

// Service records directional swipe decisions and promotes mutual likes into
// an accepted pairing inside the same transaction. Writers for a pair are
// serialized with a pair-scoped lock, so the later of two racing mutual
// likes always observes the earlier one; the storage constraint on accepted
// pairs stays the dedup authority.
type Service struct {
	swipes  SwipeStore
	buddies BuddyStore
	events  EventStore
	runTx   pgrepo.TxRunner
	now     func() time.Time
}

func NewService(runTx pgrepo.TxRunner, swipes SwipeStore, buddies BuddyStore, events EventStore) *Service {
	return &Service{
		swipes:  swipes,
		buddies: buddies,
		events:  events,
		runTx:   runTx,
		now:     time.Now,
	}
}

func (s *Service) Swipe(ctx context.Context, eventID, swiperID, targetID int64, liked bool) (Result, error) {
	if eventID <= 0 || swiperID <= 0 || targetID <= 0 {
		return Result{}, ErrValidation
	}
	if swiperID == targetID {
		return Result{}, ErrSelfSwipe
	}
	if s.runTx == nil || s.swipes == nil || s.buddies == nil || s.events == nil {
		return Result{}, ErrDependenciesNil
	}

	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return Result{}, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return Result{}, ErrEventNotFound
	}

	now := s.now().UTC()

	var result Result
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		// Serialize both swipe directions of the pair before touching any
		// pair state. Without this, two racing mutual likes can each miss
		// the other's uncommitted row and neither creates the pairing.
		if err := s.buddies.LockPair(txCtx, tx, eventID, swiperID, targetID); err != nil {
			return err
		}

		swipe, inserted, err := s.swipes.Upsert(txCtx, tx, eventID, swiperID, targetID, liked, now)
		if err != nil {
			return err
		}

		result.Swipe = swipe
		if inserted {
			result.Status = StatusRecorded
		} else {
			result.Status = StatusUpdated
		}

		if !liked {
			return nil
		}

		reciprocal, err := s.swipes.HasReciprocalLike(txCtx, tx, eventID, swiperID, targetID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		buddy, _, err := s.buddies.CreateOrGetAccepted(txCtx, tx, eventID, swiperID, targetID, now)
		if err != nil {
			return err
		}

		result.Status = StatusMatch
		result.Buddy = &buddy
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
