// Command feedwatch tails a user's notification feed in the terminal. It
// runs the same pull/push reconciliation a browser client would: a periodic
// poll bounds staleness, the websocket stream bounds latency, and toasts are
// printed as they become visible.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Knaifu0030/task-nexus/pkg/feed"
)

func main() {
	baseURL := flag.String("url", envOr("TASKNEXUS_URL", "http://localhost:8080"), "server base URL")
	token := flag.String("token", os.Getenv("TASKNEXUS_TOKEN"), "bearer token")
	flag.Parse()

	if *token == "" {
		log.Fatal("a bearer token is required (-token or TASKNEXUS_TOKEN)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := feed.NewClient(*baseURL, *token)
	reconciler := feed.NewReconciler(client, feed.Options{
		OnToast: func(t feed.Toast) {
			fmt.Printf("[%s] %s: %s\n", t.Type, t.Title, t.Message)
		},
	})
	stream := feed.NewStream(*baseURL, *token, reconciler.OnPush)

	go reconciler.Run(ctx)
	go stream.Run(ctx)

	// Periodically report the counters so a disconnected push channel is
	// still observable.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("bye")
			return
		case <-ticker.C:
			snap := reconciler.Snapshot()
			fmt.Printf("-- %d notifications cached, %d unread\n", len(snap.Notifications), snap.UnreadCount)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
