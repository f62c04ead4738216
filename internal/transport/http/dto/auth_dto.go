package dto

import "time"

type DevSessionRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	SID       string    `json:"sid"`
	ExpiresAt time.Time `json:"expiresAt"`
}
