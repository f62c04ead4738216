package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	interestsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/interests"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

type InterestHandler struct {
	service *interestsvc.Service
}

func NewInterestHandler(service *interestsvc.Service) *InterestHandler {
	return &InterestHandler{service: service}
}

func (h *InterestHandler) Mark(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTEREST_SERVICE_UNAVAILABLE", "interest service is unavailable")
		return
	}

	var req dto.MarkInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.EventID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "eventId is required")
		return
	}

	if err := h.service.Mark(r.Context(), identity.UserID, req.EventID); err != nil {
		switch {
		case errors.Is(err, interestsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid interest request")
		case errors.Is(err, interestsvc.ErrEventNotFound):
			writeNotFound(w, "EVENT_NOT_FOUND", "event not found")
		case errors.Is(err, interestsvc.ErrAlreadyInterested):
			writeConflict(w, "ALREADY_INTERESTED", "interest already marked")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to mark interest")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *InterestHandler) Unmark(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTEREST_SERVICE_UNAVAILABLE", "interest service is unavailable")
		return
	}

	eventID := pathID(r, "eventId")
	if eventID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid event id")
		return
	}

	if err := h.service.Unmark(r.Context(), identity.UserID, eventID); err != nil {
		switch {
		case errors.Is(err, interestsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid interest request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to remove interest")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *InterestHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTEREST_SERVICE_UNAVAILABLE", "interest service is unavailable")
		return
	}

	items, err := h.service.ListEvents(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list interested events")
		return
	}

	events := make([]dto.InterestedEventPayload, 0, len(items))
	for _, item := range items {
		events = append(events, dto.InterestedEventPayload{
			EventID:   item.EventID,
			Title:     item.Title,
			Category:  item.Category,
			EventDate: item.EventDate,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.InterestedEventsResponse{Events: events})
}
