package notification

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Knaifu0030/task-nexus/internal/modules/notification/application"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/fanout"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/persistence/postgres"
	ws "github.com/Knaifu0030/task-nexus/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/Knaifu0030/task-nexus/internal/modules/notification/interfaces/http"
)

type Module struct {
	service  *application.NotificationService
	triggers *application.TriggerService
	handler  *notification_http.NotificationHandler
	hub      *ws.Hub
}

// NewModule wires the notification pipeline. When rdb is non-nil, fanout goes
// through the redis bridge so pushes reach users connected to other
// instances; otherwise creations publish straight into the local hub.
func NewModule(ctx context.Context, db *sqlx.DB, rdb *redis.Client) *Module {
	repo := postgres.NewPgNotificationRepository(db)
	hub := ws.NewHub()
	go hub.Run()

	var publisher application.Publisher
	if rdb != nil {
		bridge := fanout.NewRedisBridge(rdb, hub)
		go bridge.Run(ctx)
		publisher = bridge
	} else {
		publisher = fanout.NewHubPublisher(hub)
	}

	service := application.NewNotificationService(repo, publisher)
	triggers := application.NewTriggerService(service, postgres.NewPgTaskReader(db), postgres.NewPgUserDirectory(db))
	handler := notification_http.NewNotificationHandler(service, triggers, hub)

	return &Module{
		service:  service,
		triggers: triggers,
		handler:  handler,
		hub:      hub,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}

func (m *Module) Service() *application.NotificationService {
	return m.service
}

func (m *Module) Triggers() *application.TriggerService {
	return m.triggers
}

func (m *Module) Shutdown() {
	m.hub.Stop()
}
