package handlers

import (
	"net/http"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	discoversvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/discover"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

type DiscoverHandler struct {
	service *discoversvc.Service
}

func NewDiscoverHandler(service *discoversvc.Service) *DiscoverHandler {
	return &DiscoverHandler{service: service}
}

func (h *DiscoverHandler) Explore(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVER_SERVICE_UNAVAILABLE", "discover service is unavailable")
		return
	}

	candidates, err := h.service.FindCandidates(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to find candidates")
		return
	}

	payload := make([]dto.CandidatePayload, 0, len(candidates))
	for _, candidate := range candidates {
		shared := make([]dto.EventSummaryPayload, 0, len(candidate.SharedEvents))
		for _, event := range candidate.SharedEvents {
			shared = append(shared, dto.EventSummaryPayload{
				ID:        event.EventID,
				Title:     event.Title,
				Category:  event.Category,
				EventDate: event.EventDate,
			})
		}
		payload = append(payload, dto.CandidatePayload{
			UserID:           candidate.UserID,
			Name:             candidate.Name,
			AvatarURL:        candidate.AvatarURL,
			Bio:              candidate.Bio,
			Fields:           candidate.Fields,
			SharedEvents:     shared,
			SharedEventCount: candidate.SharedEventCount,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ExploreResponse{Candidates: payload})
}
