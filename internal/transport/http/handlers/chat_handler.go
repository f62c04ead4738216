package handlers

import (
	"errors"
	"net/http"
	"strconv"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	chatsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/chat"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	buddyID := pathID(r, "buddyId")
	if buddyID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid buddy id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := h.service.GetMessages(r.Context(), buddyID, identity.UserID, limit)
	if err != nil {
		writeChatError(w, err, "failed to list messages")
		return
	}

	messages := make([]dto.MessagePayload, 0, len(items))
	for _, item := range items {
		messages = append(messages, mapMessage(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Messages: messages})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	buddyID := pathID(r, "buddyId")
	if buddyID == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid buddy id")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	message, err := h.service.Send(r.Context(), buddyID, identity.UserID, req.Body)
	if err != nil {
		writeChatError(w, err, "failed to send message")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.MessageResponse{Message: mapMessage(message)})
}

func writeChatError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatsvc.ErrMessageTooLong):
		writeBadRequest(w, "MESSAGE_TOO_LONG", "message exceeds the allowed size")
	case errors.Is(err, chatsvc.ErrNotFound):
		writeNotFound(w, "BUDDY_NOT_FOUND", "buddy not found")
	case errors.Is(err, chatsvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "you are not part of this buddy")
	case errors.Is(err, chatsvc.ErrBuddyNotAccepted):
		writeForbidden(w, "BUDDY_NOT_ACCEPTED", "buddy is not accepted")
	default:
		if rl, ok := chatsvc.IsRateLimited(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "MESSAGE_RATE_LIMITED",
				Message:       "too many messages, slow down",
				RetryAfterSec: rl.RetryAfter(),
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}
