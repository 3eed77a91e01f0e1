package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/domain"
	ws "github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/websocket"
)

// HubPublisher delivers straight to the local hub. It is the single-instance
// fallback used when no redis bridge is configured.
type HubPublisher struct {
	hub *ws.Hub
}

func NewHubPublisher(hub *ws.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) PublishNotification(_ context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	p.hub.SendToUser(n.UserID, payload)
	return nil
}
