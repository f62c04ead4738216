package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	buddysvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/buddies"
	swipesvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/swipes"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
	buddies *buddysvc.Service
}

func NewSwipeHandler(service *swipesvc.Service, buddies *buddysvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service, buddies: buddies}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.EventID <= 0 || req.TargetID <= 0 || req.Liked == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "eventId, targetId and liked are required")
		return
	}

	result, err := h.service.Swipe(r.Context(), req.EventID, identity.UserID, req.TargetID, *req.Liked)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrSelfSwipe):
			writeBadRequest(w, "SELF_SWIPE", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrEventNotFound):
			writeNotFound(w, "EVENT_NOT_FOUND", "event not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	response := dto.SwipeResponse{
		Status: result.Status,
		Swipe: dto.SwipePayload{
			ID:        result.Swipe.ID,
			EventID:   result.Swipe.EventID,
			SwiperID:  result.Swipe.SwiperID,
			TargetID:  result.Swipe.TargetID,
			Liked:     result.Swipe.Liked,
			CreatedAt: result.Swipe.CreatedAt,
			UpdatedAt: result.Swipe.UpdatedAt,
		},
	}
	if result.Buddy != nil {
		payload := dto.BuddyPayload{
			ID:          result.Buddy.ID,
			EventID:     result.Buddy.EventID,
			RequesterID: result.Buddy.RequesterID,
			AccepterID:  result.Buddy.AccepterID,
			Status:      result.Buddy.Status,
			Origin:      result.Buddy.Origin,
			CreatedAt:   result.Buddy.CreatedAt,
			UpdatedAt:   result.Buddy.UpdatedAt,
		}
		response.Buddy = &payload
	}

	httperrors.Write(w, http.StatusCreated, response)
}

// Matches returns the caller's accepted pairings across all events.
func (h *SwipeHandler) Matches(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.buddies == nil {
		writeInternal(w, "BUDDY_SERVICE_UNAVAILABLE", "buddy service is unavailable")
		return
	}

	views, err := h.buddies.MatchesForUser(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list matches")
		return
	}

	buddies := make([]dto.BuddyPayload, 0, len(views))
	for _, view := range views {
		buddies = append(buddies, mapBuddyView(view))
	}

	httperrors.Write(w, http.StatusOK, dto.BuddiesResponse{Buddies: buddies})
}
