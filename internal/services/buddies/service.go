package buddies

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrSelfRequest        = errors.New("cannot request yourself")
	ErrEventNotFound      = errors.New("event not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("buddy request not found")
	ErrNotAccepter        = errors.New("only the requested user can respond")
	ErrInvalidAction      = errors.New("action must be accepted or declined")
	ErrPairAlreadyMatched = errors.New("pair already has an accepted buddy")
	ErrDependenciesNil    = errors.New("buddies dependencies are not configured")
)

type BuddyStore interface {
	CreateRequest(ctx context.Context, eventID, requesterID, accepterID int64, now time.Time) (pgrepo.BuddyRecord, error)
	GetByID(ctx context.Context, buddyID int64) (pgrepo.BuddyRecord, error)
	UpdateStatus(ctx context.Context, buddyID int64, status string, now time.Time) (pgrepo.BuddyRecord, error)
	ListForUser(ctx context.Context, userID int64) ([]pgrepo.BuddyRecord, error)
	ListAcceptedForUser(ctx context.Context, userID int64) ([]pgrepo.BuddyRecord, error)
	ListAcceptedForEvent(ctx context.Context, eventID int64) ([]pgrepo.BuddyRecord, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	GetSummaries(ctx context.Context, userIDs []int64) (map[int64]pgrepo.UserRecord, error)
}

type EventStore interface {
	Exists(ctx context.Context, eventID int64) (bool, error)
	GetSummaries(ctx context.Context, eventIDs []int64) (map[int64]pgrepo.EventRecord, error)
}

type UserSummary struct {
	ID        int64
	Name      string
	AvatarURL string
	Bio       string
	Fields    []string
}

type EventSummary struct {
	ID        int64
	Title     string
	Category  string
	EventDate time.Time
}

type View struct {
	ID          int64
	EventID     int64
	Event       *EventSummary
	RequesterID int64
	AccepterID  int64
	Requester   *UserSummary
	Accepter    *UserSummary
	Status      string
	Origin      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Service struct {
	buddies BuddyStore
	users   UserStore
	events  EventStore
	now     func() time.Time
}

func NewService(buddies BuddyStore, users UserStore, events EventStore) *Service {
	return &Service{
		buddies: buddies,
		users:   users,
		events:  events,
		now:     time.Now,
	}
}

// Request opens an explicit pending buddy request from the caller to another
// attendee of the event.
func (s *Service) Request(ctx context.Context, eventID, requesterID, accepterID int64) (View, error) {
	if eventID <= 0 || requesterID <= 0 || accepterID <= 0 {
		return View{}, ErrValidation
	}
	if requesterID == accepterID {
		return View{}, ErrSelfRequest
	}
	if s.buddies == nil || s.users == nil || s.events == nil {
		return View{}, ErrDependenciesNil
	}

	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return View{}, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return View{}, ErrEventNotFound
	}

	if _, err := s.users.GetByID(ctx, accepterID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return View{}, ErrUserNotFound
		}
		return View{}, fmt.Errorf("check accepter: %w", err)
	}

	rec, err := s.buddies.CreateRequest(ctx, eventID, requesterID, accepterID, s.now().UTC())
	if err != nil {
		return View{}, fmt.Errorf("create buddy request: %w", err)
	}

	views, err := s.project(ctx, []pgrepo.BuddyRecord{rec})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// Respond lets the requested user accept or decline a pending request. The
// accepted-pair uniqueness guard in storage rejects an accept when the pair
// was already matched through another path.
func (s *Service) Respond(ctx context.Context, buddyID, callerID int64, action string) (View, error) {
	if buddyID <= 0 || callerID <= 0 {
		return View{}, ErrValidation
	}
	if action != pgrepo.BuddyStatusAccepted && action != pgrepo.BuddyStatusDeclined {
		return View{}, ErrInvalidAction
	}
	if s.buddies == nil {
		return View{}, ErrDependenciesNil
	}

	rec, err := s.buddies.GetByID(ctx, buddyID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrBuddyNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, fmt.Errorf("get buddy request: %w", err)
	}
	if rec.AccepterID != callerID {
		return View{}, ErrNotAccepter
	}

	updated, err := s.buddies.UpdateStatus(ctx, buddyID, action, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrPairAlreadyMatched) {
			return View{}, ErrPairAlreadyMatched
		}
		if errors.Is(err, pgrepo.ErrBuddyNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, fmt.Errorf("update buddy status: %w", err)
	}

	views, err := s.project(ctx, []pgrepo.BuddyRecord{updated})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// MyRequests returns every pairing the user participates in, any status.
func (s *Service) MyRequests(ctx context.Context, userID int64) ([]View, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.buddies == nil {
		return nil, ErrDependenciesNil
	}

	records, err := s.buddies.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list buddy requests: %w", err)
	}
	return s.project(ctx, records)
}

// MatchesForUser returns the user's accepted pairings across all events.
func (s *Service) MatchesForUser(ctx context.Context, userID int64) ([]View, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.buddies == nil {
		return nil, ErrDependenciesNil
	}

	records, err := s.buddies.ListAcceptedForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accepted buddies: %w", err)
	}
	return s.project(ctx, records)
}

// EventBuddies returns the accepted pairings formed around one event.
func (s *Service) EventBuddies(ctx context.Context, eventID int64) ([]View, error) {
	if eventID <= 0 {
		return nil, ErrValidation
	}
	if s.buddies == nil || s.events == nil {
		return nil, ErrDependenciesNil
	}

	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	records, err := s.buddies.ListAcceptedForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event buddies: %w", err)
	}
	return s.project(ctx, records)
}

func (s *Service) project(ctx context.Context, records []pgrepo.BuddyRecord) ([]View, error) {
	views := make([]View, 0, len(records))
	if len(records) == 0 {
		return views, nil
	}

	userIDs := make([]int64, 0, len(records)*2)
	eventIDs := make([]int64, 0, len(records))
	for _, rec := range records {
		userIDs = append(userIDs, rec.RequesterID, rec.AccepterID)
		eventIDs = append(eventIDs, rec.EventID)
	}

	var userSummaries map[int64]pgrepo.UserRecord
	if s.users != nil {
		var err error
		userSummaries, err = s.users.GetSummaries(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("load user summaries: %w", err)
		}
	}

	var eventSummaries map[int64]pgrepo.EventRecord
	if s.events != nil {
		var err error
		eventSummaries, err = s.events.GetSummaries(ctx, eventIDs)
		if err != nil {
			return nil, fmt.Errorf("load event summaries: %w", err)
		}
	}

	for _, rec := range records {
		view := View{
			ID:          rec.ID,
			EventID:     rec.EventID,
			RequesterID: rec.RequesterID,
			AccepterID:  rec.AccepterID,
			Status:      rec.Status,
			Origin:      rec.Origin,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
		if event, ok := eventSummaries[rec.EventID]; ok {
			view.Event = &EventSummary{
				ID:        event.ID,
				Title:     event.Title,
				Category:  event.Category,
				EventDate: event.EventDate,
			}
		}
		if user, ok := userSummaries[rec.RequesterID]; ok {
			view.Requester = mapUserSummary(user)
		}
		if user, ok := userSummaries[rec.AccepterID]; ok {
			view.Accepter = mapUserSummary(user)
		}
		views = append(views, view)
	}

	return views, nil
}

func mapUserSummary(user pgrepo.UserRecord) *UserSummary {
	return &UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Fields:    user.Fields,
	}
}
