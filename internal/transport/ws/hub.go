package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Frame is the envelope for every message the server pushes to clients.
type Frame struct {
	Type    string          `json:"type"`
	BuddyID int64           `json:"buddyId,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub tracks which clients joined which buddy conversation and fans incoming
// pub/sub payloads out to them. It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	buddies map[int64]map[*Client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		buddies: make(map[int64]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Join(client *Client, buddyID int64) {
	if client == nil || buddyID <= 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.buddies[buddyID] == nil {
		h.buddies[buddyID] = make(map[*Client]struct{})
	}
	h.buddies[buddyID][client] = struct{}{}
	client.joined[buddyID] = struct{}{}
}

func (h *Hub) Leave(client *Client, buddyID int64) {
	if client == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(client, buddyID)
}

// Remove drops the client from every conversation it joined. Called when the
// connection closes.
func (h *Hub) Remove(client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for buddyID := range client.joined {
		h.leaveLocked(client, buddyID)
	}
}

func (h *Hub) leaveLocked(client *Client, buddyID int64) {
	if members, ok := h.buddies[buddyID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.buddies, buddyID)
		}
	}
	delete(client.joined, buddyID)
}

// BroadcastMessage wraps a persisted chat message payload in a frame and
// delivers it to every client joined to the conversation. Slow clients are
// skipped rather than blocking the fan-out.
func (h *Hub) BroadcastMessage(buddyID int64, payload []byte) {
	frame, err := json.Marshal(Frame{
		Type:    "message",
		BuddyID: buddyID,
		Message: json.RawMessage(payload),
	})
	if err != nil {
		h.logger.Warn("encode broadcast frame failed",
			zap.Int64("buddy_id", buddyID),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.buddies[buddyID] {
		select {
		case client.send <- frame:
		default:
			h.logger.Warn("dropping frame for slow client",
				zap.Int64("buddy_id", buddyID),
				zap.Int64("user_id", client.userID))
		}
	}
}

// JoinedCount reports how many clients are attached to a conversation.
func (h *Hub) JoinedCount(buddyID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.buddies[buddyID])
}
