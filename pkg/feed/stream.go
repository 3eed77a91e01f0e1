package feed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const maxStreamBackoff = 30 * time.Second

// Stream subscribes to the push channel and forwards every record into the
// reconciler. Losing the connection degrades the feed to pull-only; the
// stream keeps retrying with backoff until its context ends.
type Stream struct {
	url    string
	token  string
	onPush func(Notification)
}

// NewStream builds a subscriber against the server's base HTTP URL; the
// websocket endpoint is derived from it.
func NewStream(baseURL, token string, onPush func(Notification)) *Stream {
	wsURL := "ws" + strings.TrimPrefix(strings.TrimRight(baseURL, "/"), "http") + "/ws"
	return &Stream{url: wsURL, token: token, onPush: onPush}
}

func (s *Stream) Run(ctx context.Context) {
	backoff := time.Second
	for {
		connected, err := s.connectAndRead(ctx)
		if err != nil && ctx.Err() == nil {
			log.Printf("[Feed] push stream disconnected: %v", err)
		}
		if connected {
			// A session was established, so the next failure starts a
			// fresh backoff sequence instead of resuming at the cap.
			backoff = time.Second
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxStreamBackoff)
	}
}

// connectAndRead dials the push endpoint and pumps records until the
// connection drops. The returned flag reports whether the dial succeeded.
func (s *Stream) connectAndRead(ctx context.Context) (bool, error) {
	header := http.Header{"Authorization": {"Bearer " + s.token}}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return false, err
	}
	defer conn.Close()

	// Unblock the read loop when the session ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		var n Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			log.Printf("[Feed] ignoring malformed push payload: %v", err)
			continue
		}
		s.onPush(n)
	}
}
