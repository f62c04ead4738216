package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/repo/postgres"
	discoversvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/discover"
)

type discoverInterestStub struct {
	eventIDs []int64
	rows     []pgrepo.SharedInterestRow
	excluded []int64
}

func (s *discoverInterestStub) ListEventIDsForUser(context.Context, int64) ([]int64, error) {
	return s.eventIDs, nil
}

func (s *discoverInterestStub) ListShared(_ context.Context, _ int64, _ []int64, excludeUserIDs []int64) ([]pgrepo.SharedInterestRow, error) {
	s.excluded = excludeUserIDs
	return s.rows, nil
}

type discoverSwipeStub struct {
	targets []int64
}

func (s *discoverSwipeStub) ListTargetIDsForUser(context.Context, int64) ([]int64, error) {
	return s.targets, nil
}

func newDiscoverHandlerForTest(interests *discoverInterestStub, swipes *discoverSwipeStub) *DiscoverHandler {
	return NewDiscoverHandler(discoversvc.NewService(interests, swipes))
}

func TestExploreGroupsSharedEvents(t *testing.T) {
	date := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	interests := &discoverInterestStub{
		eventIDs: []int64{5, 6},
		rows: []pgrepo.SharedInterestRow{
			{UserID: 2, Name: "Ava", EventID: 5, EventTitle: "Jazz Night", Category: "music", EventDate: date},
			{UserID: 3, Name: "Sam", EventID: 5, EventTitle: "Jazz Night", Category: "music", EventDate: date},
			{UserID: 2, Name: "Ava", EventID: 6, EventTitle: "Food Fair", Category: "food", EventDate: date},
		},
	}
	h := newDiscoverHandlerForTest(interests, &discoverSwipeStub{targets: []int64{9}})

	rr := httptest.NewRecorder()
	h.Explore(rr, authedRequest(http.MethodGet, "/events/explore", nil, 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Candidates []struct {
			UserID           int64 `json:"userId"`
			SharedEventCount int   `json:"sharedEventCount"`
			SharedEvents     []struct {
				ID int64 `json:"id"`
			} `json:"sharedEvents"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(payload.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", payload.Candidates)
	}
	// Two shared events beat one.
	if payload.Candidates[0].UserID != 2 || payload.Candidates[0].SharedEventCount != 2 {
		t.Fatalf("unexpected first candidate: %+v", payload.Candidates[0])
	}
	if len(payload.Candidates[0].SharedEvents) != 2 {
		t.Fatalf("shared events not grouped: %+v", payload.Candidates[0])
	}

	// Swiped targets reach the lookup as exclusions.
	if len(interests.excluded) != 1 || interests.excluded[0] != 9 {
		t.Fatalf("swiped targets must be excluded, got %v", interests.excluded)
	}
}

func TestExploreEmptyWithoutInterests(t *testing.T) {
	h := newDiscoverHandlerForTest(&discoverInterestStub{}, &discoverSwipeStub{})

	rr := httptest.NewRecorder()
	h.Explore(rr, authedRequest(http.MethodGet, "/events/explore", nil, 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Candidates []json.RawMessage `json:"candidates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Candidates) != 0 {
		t.Fatalf("expected empty candidate list, got %s", rr.Body.String())
	}
}

func TestExploreRequiresAuth(t *testing.T) {
	h := newDiscoverHandlerForTest(&discoverInterestStub{}, &discoverSwipeStub{})

	rr := httptest.NewRecorder()
	h.Explore(rr, httptest.NewRequest(http.MethodGet, "/events/explore", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
