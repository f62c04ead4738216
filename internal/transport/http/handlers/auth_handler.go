package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

// AuthHandler exposes local session issuance. Production identity lives
// upstream; this endpoint is mounted only in dev environments so the API can
// be exercised without the external provider.
type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) DevSession(w http.ResponseWriter, r *http.Request) {
	var req dto.DevSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if req.Role == "" {
		req.Role = "user"
	}

	token, session, err := h.service.IssueSession(r.Context(), req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidInput) {
			writeBadRequest(w, "VALIDATION_ERROR", "userId must be positive")
			return
		}
		writeInternal(w, "INTERNAL", "failed to issue session")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SessionResponse{
		Token:     token,
		SID:       session.SID,
		ExpiresAt: session.ExpiresAt,
	})
}
