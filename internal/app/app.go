// Package app wires configuration, storage, services, and the Telegram
// transport together and runs the bot.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	cardrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/card"
	collectionrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/collection"
	userrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/user"
	usercardrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/usercard"
	"github.com/heartmarshall/cardsbot/internal/config"
	"github.com/heartmarshall/cardsbot/internal/conversation"
	"github.com/heartmarshall/cardsbot/internal/service/cards"
	"github.com/heartmarshall/cardsbot/internal/service/study"
	"github.com/heartmarshall/cardsbot/internal/transport/telegram"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, builds the service graph, and polls
// Telegram until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting cardsbot",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.Database); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	cardsRepo := cardrepo.New(pool)
	collectionsRepo := collectionrepo.New(pool)
	usersRepo := userrepo.New(pool)
	userCardsRepo := usercardrepo.New(pool)

	cardsSvc := cards.NewService(logger, cardsRepo, collectionsRepo, usersRepo, userCardsRepo, txm)
	studySvc := study.NewService(logger, userCardsRepo, usersRepo, txm, cfg.Study,
		rand.NewSource(time.Now().UnixNano()))

	store := conversation.NewStore(logger, cfg.Conversation)
	engine := conversation.NewEngine(logger, cardsSvc, studySvc, store, cfg.Study.MinDeckSize)

	bot, err := telegram.New(logger, cfg.Bot, engine)
	if err != nil {
		return fmt.Errorf("init telegram bot: %w", err)
	}

	go store.Run(ctx)

	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("telegram polling: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
