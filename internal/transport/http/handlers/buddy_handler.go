package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	buddysvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/buddies"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

type BuddyHandler struct {
	service *buddysvc.Service
}

func NewBuddyHandler(service *buddysvc.Service) *BuddyHandler {
	return &BuddyHandler{service: service}
}

func (h *BuddyHandler) Request(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BUDDY_SERVICE_UNAVAILABLE", "buddy service is unavailable")
		return
	}

	eventID := pathID(r, "eventId")
	if eventID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid event id")
		return
	}

	var req dto.BuddyRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.AccepterID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "accepterId is required")
		return
	}

	view, err := h.service.Request(r.Context(), eventID, identity.UserID, req.AccepterID)
	if err != nil {
		switch {
		case errors.Is(err, buddysvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid buddy request")
		case errors.Is(err, buddysvc.ErrSelfRequest):
			writeBadRequest(w, "SELF_REQUEST", "cannot request yourself")
		case errors.Is(err, buddysvc.ErrEventNotFound):
			writeNotFound(w, "EVENT_NOT_FOUND", "event not found")
		case errors.Is(err, buddysvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "requested user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create buddy request")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.BuddyResponse{Buddy: mapBuddyView(view)})
}

func (h *BuddyHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BUDDY_SERVICE_UNAVAILABLE", "buddy service is unavailable")
		return
	}

	buddyID := pathID(r, "buddyId")
	if buddyID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid buddy id")
		return
	}

	var req dto.BuddyRespondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	action := strings.TrimSpace(req.Action)
	if action == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "action is required")
		return
	}

	view, err := h.service.Respond(r.Context(), buddyID, identity.UserID, action)
	if err != nil {
		switch {
		case errors.Is(err, buddysvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid respond request")
		case errors.Is(err, buddysvc.ErrInvalidAction):
			writeBadRequest(w, "INVALID_ACTION", "action must be accepted or declined")
		case errors.Is(err, buddysvc.ErrNotFound):
			writeNotFound(w, "BUDDY_NOT_FOUND", "buddy request not found")
		case errors.Is(err, buddysvc.ErrNotAccepter):
			writeForbidden(w, "NOT_ACCEPTER", "only the requested user can respond")
		case errors.Is(err, buddysvc.ErrPairAlreadyMatched):
			writeConflict(w, "PAIR_ALREADY_MATCHED", "an accepted buddy already exists for this pair")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to respond to buddy request")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.BuddyResponse{Buddy: mapBuddyView(view)})
}

func (h *BuddyHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BUDDY_SERVICE_UNAVAILABLE", "buddy service is unavailable")
		return
	}

	views, err := h.service.MyRequests(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list buddy requests")
		return
	}

	buddies := make([]dto.BuddyPayload, 0, len(views))
	for _, view := range views {
		buddies = append(buddies, mapBuddyView(view))
	}

	httperrors.Write(w, http.StatusOK, dto.BuddiesResponse{Buddies: buddies})
}

func (h *BuddyHandler) EventBuddies(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BUDDY_SERVICE_UNAVAILABLE", "buddy service is unavailable")
		return
	}

	eventID := pathID(r, "eventId")
	if eventID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid event id")
		return
	}

	views, err := h.service.EventBuddies(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, buddysvc.ErrEventNotFound):
			writeNotFound(w, "EVENT_NOT_FOUND", "event not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to list event buddies")
		}
		return
	}

	buddies := make([]dto.BuddyPayload, 0, len(views))
	for _, view := range views {
		buddies = append(buddies, mapBuddyView(view))
	}

	httperrors.Write(w, http.StatusOK, dto.BuddiesResponse{Buddies: buddies})
}
