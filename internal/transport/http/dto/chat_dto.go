package dto

import "time"

type SendMessageRequest struct {
	Body string `json:"body"`
}

type MessagePayload struct {
	ID        int64     `json:"id"`
	BuddyID   int64     `json:"buddyId"`
	SenderID  int64     `json:"senderId"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessagesResponse struct {
	Messages []MessagePayload `json:"messages"`
}

type MessageResponse struct {
	Message MessagePayload `json:"message"`
}
