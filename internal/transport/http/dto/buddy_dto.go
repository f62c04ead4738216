package dto

import "time"

type BuddyRequestRequest struct {
	AccepterID int64 `json:"accepterId"`
}

type BuddyRespondRequest struct {
	Action string `json:"action"`
}

type UserSummaryPayload struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

type EventSummaryPayload struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	EventDate time.Time `json:"eventDate"`
}

type BuddyPayload struct {
	ID          int64                `json:"id"`
	EventID     int64                `json:"eventId"`
	Event       *EventSummaryPayload `json:"event,omitempty"`
	RequesterID int64                `json:"requesterId"`
	AccepterID  int64                `json:"accepterId"`
	Requester   *UserSummaryPayload  `json:"requester,omitempty"`
	Accepter    *UserSummaryPayload  `json:"accepter,omitempty"`
	Status      string               `json:"status"`
	Origin      string               `json:"origin"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type BuddyResponse struct {
	Buddy BuddyPayload `json:"buddy"`
}

type BuddiesResponse struct {
	Buddies []BuddyPayload `json:"buddies"`
}
