// Command seeder imports shared card collections from JSON files into the
// catalog. It is intended to be run offline, not as part of the bot.
//
// Flags:
//
//	--dir            directory with *.json collection files (default: ./seed)
//	--only-if-empty  skip seeding when the catalog already has cards
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	cardrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/card"
	collectionrepo "github.com/heartmarshall/cardsbot/internal/adapter/postgres/collection"
	"github.com/heartmarshall/cardsbot/internal/app"
	"github.com/heartmarshall/cardsbot/internal/app/seeder"
	"github.com/heartmarshall/cardsbot/internal/config"
)

func main() {
	dirFlag := flag.String("dir", "./seed", "directory with *.json collection files")
	onlyIfEmptyFlag := flag.Bool("only-if-empty", false, "skip seeding when the catalog already has cards")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.Database); err != nil {
		logger.Error("apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	txm := postgres.NewTxManager(pool)
	s := seeder.New(logger, cardrepo.New(pool), collectionrepo.New(pool), txm)

	if *onlyIfEmptyFlag {
		seeded, err := s.HasCards(ctx)
		if err != nil {
			logger.Error("check catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if seeded {
			logger.Info("catalog already seeded, nothing to do")
			return
		}
	}

	stats, err := s.Run(ctx, *dirFlag)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding finished",
		slog.Int("collections", stats.Collections),
		slog.Int("cards", stats.Cards),
		slog.Int("skipped", stats.Skipped),
	)
}
