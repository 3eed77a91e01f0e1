package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SendToUser_AllConnectionsOfUserReceive(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	first := &Client{send: make(chan []byte, 1), userID: userID}
	second := &Client{send: make(chan []byte, 1), userID: userID}
	h.clients[userID] = map[*Client]bool{first: true, second: true}

	go h.Run()
	defer h.Stop()

	h.SendToUser(userID, []byte("private"))

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.Equal(t, "private", string(msg))
		case <-time.After(2 * time.Second):
			t.Fatal("expected unicast message")
		}
	}
}

func TestHub_SendToUser_OnlyMatchingUserReceives(t *testing.T) {
	h := NewHub()
	targetID := uuid.New()
	otherID := uuid.New()

	target := &Client{send: make(chan []byte, 1), userID: targetID}
	other := &Client{send: make(chan []byte, 1), userID: otherID}
	h.clients[targetID] = map[*Client]bool{target: true}
	h.clients[otherID] = map[*Client]bool{other: true}

	go h.Run()
	defer h.Stop()

	h.SendToUser(targetID, []byte("only-target"))

	select {
	case msg := <-target.send:
		assert.Equal(t, "only-target", string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("target did not receive message")
	}

	select {
	case <-other.send:
		t.Fatal("non-target client should not receive unicast")
	default:
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	userID := uuid.New()
	client := &Client{send: make(chan []byte, 1), userID: userID}

	h.register <- client
	h.SendToUser(userID, []byte("after-register"))
	select {
	case msg := <-client.send:
		require.Equal(t, "after-register", string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("registered client did not receive message")
	}

	h.unregister <- client
	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel should be closed on unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_SlowConsumerEvicted(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	slow := &Client{send: make(chan []byte), userID: userID}
	h.clients[userID] = map[*Client]bool{slow: true}

	go h.Run()
	defer h.Stop()

	// Nobody drains slow.send, so the hub drops the connection instead of
	// blocking its loop.
	h.SendToUser(userID, []byte("drop-me"))

	select {
	case _, open := <-slow.send:
		assert.False(t, open, "slow consumer's send channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("slow consumer was not evicted")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	client := &Client{send: make(chan []byte, 1), userID: userID}
	h.clients[userID] = map[*Client]bool{client: true}

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	h.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel should be closed on stop")
	default:
		t.Fatal("send channel was not closed")
	}

	// SendToUser after stop must not block.
	h.SendToUser(userID, []byte("late"))
}
