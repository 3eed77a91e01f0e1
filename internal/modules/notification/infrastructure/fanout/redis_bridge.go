// Package fanout bridges notification delivery across server instances.
//
// Each creation is published to a per-user redis channel; every instance
// subscribes to the channel pattern and forwards matching payloads into its
// local websocket hub. A user connected to any instance therefore receives
// the push regardless of which instance persisted the notification.
package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
	ws "github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/websocket"
)

const channelPrefix = "notifications:user:"

func channelFor(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

// userFromChannel recovers the recipient from a channel name. Returns
// uuid.Nil for channels that do not follow the prefix convention.
func userFromChannel(channel string) uuid.UUID {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type RedisBridge struct {
	rdb *redis.Client
	hub *ws.Hub
}

func NewRedisBridge(rdb *redis.Client, hub *ws.Hub) *RedisBridge {
	return &RedisBridge{rdb: rdb, hub: hub}
}

// PublishNotification sends the record to the recipient's channel. Delivery
// is best-effort; the caller logs and continues on error.
func (b *RedisBridge) PublishNotification(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := b.rdb.Publish(ctx, channelFor(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Run subscribes to every per-user channel and forwards payloads into the
// local hub until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.forward(msg.Channel, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (b *RedisBridge) forward(channel string, payload []byte) {
	userID := userFromChannel(channel)
	if userID == uuid.Nil {
		log.Printf("[Fanout] Ignoring message on unexpected channel %q", channel)
		return
	}
	b.hub.SendToUser(userID, payload)
}
