// Command bot runs the flashcard Telegram bot: it connects to PostgreSQL,
// applies migrations, and polls Telegram until interrupted.
//
// Configuration comes from CONFIG_PATH (YAML) with environment overrides;
// see internal/config.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/cardsbot/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("bot exited with error: %v", err)
	}
}
