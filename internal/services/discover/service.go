package discover

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("discover dependencies are not configured")
)

type InterestStore interface {
	ListEventIDsForUser(ctx context.Context, userID int64) ([]int64, error)
	ListShared(ctx context.Context, viewerID int64, eventIDs, excludeUserIDs []int64) ([]pgrepo.SharedInterestRow, error)
}

type SwipeStore interface {
	ListTargetIDsForUser(ctx context.Context, userID int64) ([]int64, error)
}

type SharedEvent struct {
	EventID   int64
	Title     string
	Category  string
	EventDate time.Time
}

type Candidate struct {
	UserID           int64
	Name             string
	AvatarURL        string
	Bio              string
	Fields           []string
	SharedEvents     []SharedEvent
	SharedEventCount int
}

// Service recommends attendees who share interest in at least one of the
// viewer's events. Users the viewer has already swiped on are excluded so the
// deck never repeats a decision.
type Service struct {
	interests InterestStore
	swipes    SwipeStore
}

func NewService(interests InterestStore, swipes SwipeStore) *Service {
	return &Service{
		interests: interests,
		swipes:    swipes,
	}
}

func (s *Service) FindCandidates(ctx context.Context, viewerID int64) ([]Candidate, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if s.interests == nil || s.swipes == nil {
		return nil, ErrDependenciesNil
	}

	eventIDs, err := s.interests.ListEventIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list viewer interests: %w", err)
	}
	if len(eventIDs) == 0 {
		return []Candidate{}, nil
	}

	excluded, err := s.swipes.ListTargetIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list swiped targets: %w", err)
	}

	rows, err := s.interests.ListShared(ctx, viewerID, eventIDs, excluded)
	if err != nil {
		return nil, fmt.Errorf("list shared interests: %w", err)
	}

	byUser := make(map[int64]*Candidate, len(rows))
	order := make([]int64, 0, len(rows))
	for _, row := range rows {
		candidate, ok := byUser[row.UserID]
		if !ok {
			candidate = &Candidate{
				UserID:    row.UserID,
				Name:      row.Name,
				AvatarURL: row.AvatarURL,
				Bio:       row.Bio,
				Fields:    row.Fields,
			}
			byUser[row.UserID] = candidate
			order = append(order, row.UserID)
		}
		candidate.SharedEvents = append(candidate.SharedEvents, SharedEvent{
			EventID:   row.EventID,
			Title:     row.EventTitle,
			Category:  row.Category,
			EventDate: row.EventDate,
		})
		candidate.SharedEventCount = len(candidate.SharedEvents)
	}

	candidates := make([]Candidate, 0, len(order))
	for _, userID := range order {
		candidates = append(candidates, *byUser[userID])
	}

	// Most overlap first, stable ascending user id on equal counts.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SharedEventCount != candidates[j].SharedEventCount {
			return candidates[i].SharedEventCount > candidates[j].SharedEventCount
		}
		return candidates[i].UserID < candidates[j].UserID
	})

	return candidates, nil
}
