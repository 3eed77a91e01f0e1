package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/Knaifu0030/task-nexus/internal/gateway"
	"github.com/Knaifu0030/task-nexus/internal/gateway/middleware"
	"github.com/Knaifu0030/task-nexus/internal/modules/notification"
	"github.com/Knaifu0030/task-nexus/internal/modules/workspace"
	"github.com/Knaifu0030/task-nexus/internal/shared/infrastructure/config"
	"github.com/Knaifu0030/task-nexus/internal/shared/infrastructure/database"
	"github.com/Knaifu0030/task-nexus/pkg/migration"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Server.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()
	log.Println("Database connected successfully")

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis.Connection)
		if err != nil {
			// A single instance still works without cross-instance fanout.
			log.Printf("Redis unavailable, falling back to local fanout: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationModule := notification.NewModule(ctx, db, rdb)
	defer notificationModule.Shutdown()
	workspaceModule := workspace.NewModule(db, notificationModule.Triggers())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthMiddleware:      authMiddleware,
		NotificationHandler: notificationModule.HTTPHandler(),
		WorkspaceHandler:    workspaceModule.HTTPHandler(),
	})

	var handler http.Handler = mux
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.CORSMiddleware(handler, cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
