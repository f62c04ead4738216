package dto

import "time"

type MarkInterestRequest struct {
	EventID int64 `json:"eventId"`
}

type InterestedEventPayload struct {
	EventID   int64     `json:"eventId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	EventDate time.Time `json:"eventDate"`
}

type InterestedEventsResponse struct {
	Events []InterestedEventPayload `json:"events"`
}
