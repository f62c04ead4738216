package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	chatsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/chat"
)

type clientFrame struct {
	Type    string `json:"type"`
	BuddyID int64  `json:"buddyId"`
	Body    string `json:"body,omitempty"`
}

// Handler upgrades authenticated HTTP requests to websocket connections and
// processes the join/leave/message protocol. Every action is authorized
// against the chat service, so a socket can only touch conversations its user
// participates in.
type Handler struct {
	auth     *authsvc.Service
	chat     *chatsvc.Service
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHandler(auth *authsvc.Service, chat *chatsvc.Service, hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		auth: auth,
		chat: chat,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.chat == nil || h.hub == nil {
		http.Error(w, "chat socket is unavailable", http.StatusInternalServerError)
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateAccessToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(claims.UserID, conn)
	go client.writePump()

	h.logger.Info("chat socket connected", zap.Int64("user_id", claims.UserID))
	h.readLoop(r.Context(), client)
}

func (h *Handler) readLoop(ctx context.Context, client *Client) {
	defer func() {
		h.hub.Remove(client)
		close(client.send)
		h.logger.Info("chat socket disconnected", zap.Int64("user_id", client.userID))
	}()

	client.conn.SetReadLimit(maxFrameBytes)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(client, 0, "BAD_FRAME", "frame must be valid json")
			continue
		}

		switch frame.Type {
		case "join":
			h.handleJoin(ctx, client, frame.BuddyID)
		case "leave":
			h.hub.Leave(client, frame.BuddyID)
		case "message":
			h.handleMessage(ctx, client, frame.BuddyID, frame.Body)
		default:
			h.sendError(client, frame.BuddyID, "UNKNOWN_TYPE", "type must be join, leave or message")
		}
	}
}

func (h *Handler) handleJoin(ctx context.Context, client *Client, buddyID int64) {
	if _, err := h.chat.Authorize(ctx, buddyID, client.userID); err != nil {
		h.sendChatError(client, buddyID, err)
		return
	}
	h.hub.Join(client, buddyID)
	h.sendFrame(client, Frame{Type: "joined", BuddyID: buddyID})
}

func (h *Handler) handleMessage(ctx context.Context, client *Client, buddyID int64, body string) {
	// Persist and publish through the chat service. The pub/sub subscriber
	// routes the message back into the hub, including to this client.
	if _, err := h.chat.Send(ctx, buddyID, client.userID, body); err != nil {
		h.sendChatError(client, buddyID, err)
	}
}

func (h *Handler) sendChatError(client *Client, buddyID int64, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		h.sendError(client, buddyID, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatsvc.ErrMessageTooLong):
		h.sendError(client, buddyID, "MESSAGE_TOO_LONG", "message exceeds the allowed size")
	case errors.Is(err, chatsvc.ErrNotFound):
		h.sendError(client, buddyID, "BUDDY_NOT_FOUND", "buddy not found")
	case errors.Is(err, chatsvc.ErrNotParticipant):
		h.sendError(client, buddyID, "NOT_PARTICIPANT", "you are not part of this buddy")
	case errors.Is(err, chatsvc.ErrBuddyNotAccepted):
		h.sendError(client, buddyID, "BUDDY_NOT_ACCEPTED", "buddy is not accepted")
	default:
		if rl, ok := chatsvc.IsRateLimited(err); ok {
			h.sendError(client, buddyID, "MESSAGE_RATE_LIMITED", rl.Error())
			return
		}
		h.logger.Error("chat socket action failed",
			zap.Int64("buddy_id", buddyID),
			zap.Int64("user_id", client.userID),
			zap.Error(err))
		h.sendError(client, buddyID, "INTERNAL_ERROR", "failed to process chat action")
	}
}

func (h *Handler) sendError(client *Client, buddyID int64, code, message string) {
	h.sendFrame(client, Frame{Type: "error", BuddyID: buddyID, Code: code, Error: message})
}

func (h *Handler) sendFrame(client *Client, frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
	}
}
