package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID int64) *Client {
	return &Client{
		userID: userID,
		send:   make(chan []byte, 4),
		joined: make(map[int64]struct{}),
	}
}

func TestBroadcastReachesJoinedClientsOnly(t *testing.T) {
	hub := NewHub(nil)
	inRoom := newTestClient(1)
	other := newTestClient(2)

	hub.Join(inRoom, 9)
	hub.Join(other, 10)

	hub.BroadcastMessage(9, []byte(`{"id":1,"body":"hi"}`))

	select {
	case raw := <-inRoom.send:
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if frame.Type != "message" || frame.BuddyID != 9 {
			t.Fatalf("unexpected frame: %+v", frame)
		}
	default:
		t.Fatalf("joined client did not receive the frame")
	}

	select {
	case raw := <-other.send:
		t.Fatalf("client in another conversation received a frame: %s", raw)
	default:
	}
}

func TestRemoveDropsAllMemberships(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(1)

	hub.Join(client, 9)
	hub.Join(client, 10)
	if hub.JoinedCount(9) != 1 || hub.JoinedCount(10) != 1 {
		t.Fatalf("join bookkeeping is off")
	}

	hub.Remove(client)
	if hub.JoinedCount(9) != 0 || hub.JoinedCount(10) != 0 {
		t.Fatalf("remove should clear every membership")
	}

	hub.BroadcastMessage(9, []byte(`{}`))
	select {
	case <-client.send:
		t.Fatalf("removed client received a frame")
	default:
	}
}

func TestLeaveSingleConversation(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(1)

	hub.Join(client, 9)
	hub.Join(client, 10)
	hub.Leave(client, 9)

	if hub.JoinedCount(9) != 0 {
		t.Fatalf("client should have left conversation 9")
	}
	if hub.JoinedCount(10) != 1 {
		t.Fatalf("client should still be in conversation 10")
	}
}

func TestBroadcastSkipsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	slow := &Client{userID: 1, send: make(chan []byte), joined: make(map[int64]struct{})}
	fast := newTestClient(2)

	hub.Join(slow, 9)
	hub.Join(fast, 9)

	// An unbuffered send channel with no reader models a stuck client. The
	// broadcast must not block on it.
	hub.BroadcastMessage(9, []byte(`{"id":1}`))

	select {
	case <-fast.send:
	default:
		t.Fatalf("fast client should have received the frame")
	}
}
