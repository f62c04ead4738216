package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	buddysvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/buddies"
	chatsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/chat"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/dto"
	httperrors "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func pathID(r *http.Request, name string) int64 {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func mapBuddyView(view buddysvc.View) dto.BuddyPayload {
	payload := dto.BuddyPayload{
		ID:          view.ID,
		EventID:     view.EventID,
		RequesterID: view.RequesterID,
		AccepterID:  view.AccepterID,
		Status:      view.Status,
		Origin:      view.Origin,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
	if view.Event != nil {
		payload.Event = &dto.EventSummaryPayload{
			ID:        view.Event.ID,
			Title:     view.Event.Title,
			Category:  view.Event.Category,
			EventDate: view.Event.EventDate,
		}
	}
	if view.Requester != nil {
		payload.Requester = mapUserSummary(*view.Requester)
	}
	if view.Accepter != nil {
		payload.Accepter = mapUserSummary(*view.Accepter)
	}
	return payload
}

func mapUserSummary(user buddysvc.UserSummary) *dto.UserSummaryPayload {
	return &dto.UserSummaryPayload{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Fields:    user.Fields,
	}
}

func mapMessage(message chatsvc.Message) dto.MessagePayload {
	return dto.MessagePayload{
		ID:        message.ID,
		BuddyID:   message.BuddyID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		Read:      message.Read,
		CreatedAt: message.CreatedAt,
	}
}
