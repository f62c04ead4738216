package dto

import "time"

type SwipeRequest struct {
	EventID  int64 `json:"eventId"`
	TargetID int64 `json:"targetId"`
	Liked    *bool `json:"liked"`
}

type SwipePayload struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	SwiperID  int64     `json:"swiperId"`
	TargetID  int64     `json:"targetId"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SwipeResponse struct {
	Status string        `json:"status"`
	Swipe  SwipePayload  `json:"swipe"`
	Buddy  *BuddyPayload `json:"buddy,omitempty"`
}
