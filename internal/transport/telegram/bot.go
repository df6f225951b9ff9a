// Package telegram adapts the conversation engine to the Telegram Bot API
// over long polling. All dialog logic lives in the engine; this layer only
// moves text in and renders abstract replies out.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/heartmarshall/cardsbot/internal/config"
	"github.com/heartmarshall/cardsbot/internal/conversation"
)

const msgInternalError = "Something went wrong on my side. Please try again."

type engine interface {
	HandleMessage(ctx context.Context, userID int64, text string) ([]conversation.Reply, error)
}

// Bot runs the Telegram long-polling loop and renders engine replies.
type Bot struct {
	api         *tgbotapi.BotAPI
	engine      engine
	log         *slog.Logger
	pollTimeout int
}

// New connects to the Telegram Bot API and validates the token.
func New(log *slog.Logger, cfg config.BotConfig, eng engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	api.Debug = cfg.Debug

	log = log.With("component", "telegram")
	log.Info("telegram bot authorized", slog.String("username", api.Self.UserName))

	return &Bot{
		api:         api,
		engine:      eng,
		log:         log,
		pollTimeout: int(cfg.PollTimeout.Seconds()),
	}, nil
}

// Run polls for updates until the context is cancelled. Cancellation is a
// normal shutdown, not an error.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.registerCommands(); err != nil {
		b.log.Warn("failed to register command menu", slog.Any("error", err))
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// registerCommands publishes the command menu Telegram clients show next
// to the input field.
func (b *Bot) registerCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "What this bot does"},
		tgbotapi.BotCommand{Command: "add", Description: "Add a word to your deck"},
		tgbotapi.BotCommand{Command: "study", Description: "Start a quiz round"},
		tgbotapi.BotCommand{Command: "list", Description: "Show your deck"},
		tgbotapi.BotCommand{Command: "import", Description: "Import a shared collection"},
		tgbotapi.BotCommand{Command: "delete", Description: "Remove a word or the whole deck"},
		tgbotapi.BotCommand{Command: "stats", Description: "Your level and score"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Abort the current step"},
	)

	_, err := b.api.Request(commands)
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	chatID := msg.Chat.ID

	replies, err := b.engine.HandleMessage(ctx, chatID, msg.Text)
	if err != nil {
		b.log.ErrorContext(ctx, "message handling failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err),
		)
		b.send(tgbotapi.NewMessage(chatID, msgInternalError))
		return
	}

	for _, reply := range replies {
		b.send(renderReply(chatID, reply))
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message",
			slog.Int64("chat_id", msg.ChatID),
			slog.Any("error", err),
		)
	}
}

// renderReply maps an abstract reply onto a Telegram message: choices
// become a one-time reply keyboard, ClearChoices removes one.
func renderReply(chatID int64, reply conversation.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	switch {
	case len(reply.Choices) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Choices))
		for _, choice := range reply.Choices {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(choice)))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = true
		msg.ReplyMarkup = keyboard
	case reply.ClearChoices:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	return msg
}
