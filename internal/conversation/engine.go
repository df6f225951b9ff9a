package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/cardsbot/internal/domain"
	"github.com/heartmarshall/cardsbot/internal/service/cards"
	"github.com/heartmarshall/cardsbot/internal/service/study"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type deckService interface {
	EnsureUser(ctx context.Context, userID int64) error
	Stats(ctx context.Context, userID int64) (*cards.Stats, error)
	LookupWord(ctx context.Context, userID int64, word string) (*cards.Lookup, error)
	AddUserCard(ctx context.Context, userID int64, word, translation string) (*domain.UserCard, error)
	DeleteUserCard(ctx context.Context, userID int64, word string) error
	DeleteAllUserCards(ctx context.Context, userID int64) (int, error)
	ListUserCards(ctx context.Context, userID int64) ([]domain.UserCard, error)
	CountUserCards(ctx context.Context, userID int64) (int, error)
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	ResolveCollection(ctx context.Context, ref string) (*domain.Collection, error)
	ImportCollection(ctx context.Context, userID, collectionID int64) (int, error)
}

type studyService interface {
	CanStudy(ctx context.Context, userID int64) (bool, error)
	ChooseRound(ctx context.Context, userID int64) (*domain.RoundPlan, error)
	ResolveAnswer(ctx context.Context, userID int64, in study.ResolveAnswerInput) (*domain.StudyOutcome, error)
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine is the conversation state machine. It owns no transport detail:
// inbound events are plain text keyed by user id, outbound replies are
// abstract payloads the transport renders.
type Engine struct {
	deck    deckService
	study   studyService
	store   *Store
	log     *slog.Logger
	minDeck int
}

// NewEngine creates the conversation engine.
func NewEngine(log *slog.Logger, deck deckService, studySvc studyService, store *Store, minDeck int) *Engine {
	return &Engine{
		deck:    deck,
		study:   studySvc,
		store:   store,
		log:     log.With("component", "conversation"),
		minDeck: minDeck,
	}
}

// HandleMessage processes one inbound text message from a user and
// returns the replies to render. Persistence failures are returned
// unmodified and leave the user's context untouched so the step can be
// retried.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, text string) ([]Reply, error) {
	text = strings.TrimSpace(text)

	if cmd, ok := parseCommand(text); ok {
		return e.handleCommand(ctx, userID, cmd)
	}
	return e.handleText(ctx, userID, text)
}

// parseCommand extracts the command name from a "/command" message,
// tolerating the "@BotName" suffix group chats append.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), true
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (e *Engine) handleCommand(ctx context.Context, userID int64, cmd string) ([]Reply, error) {
	e.log.DebugContext(ctx, "command received",
		slog.Int64("user_id", userID),
		slog.String("command", cmd),
	)

	switch cmd {
	case "start":
		return e.cmdStart(ctx, userID)
	case "add":
		e.store.Put(userID, Context{State: StateAwaitingWord})
		return []Reply{{Text: msgAskWord}}, nil
	case "delete":
		e.store.Put(userID, Context{State: StateAwaitingDeleteTarget})
		return []Reply{{Text: msgAskDeleteTarget}}, nil
	case "list":
		return e.cmdList(ctx, userID)
	case "import":
		return e.cmdImport(ctx, userID)
	case "study":
		return e.cmdStudy(ctx, userID)
	case "stats":
		return e.cmdStats(ctx, userID)
	case "cancel":
		return e.cmdCancel(userID), nil
	default:
		return []Reply{{Text: msgUnknownCommand}}, nil
	}
}

func (e *Engine) cmdStart(ctx context.Context, userID int64) ([]Reply, error) {
	if err := e.deck.EnsureUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	e.store.Clear(userID)
	return []Reply{{Text: msgGreeting, ClearChoices: true}}, nil
}

func (e *Engine) cmdList(ctx context.Context, userID int64) ([]Reply, error) {
	deck, err := e.deck.ListUserCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list deck: %w", err)
	}
	if len(deck) == 0 {
		return []Reply{{Text: msgDeckEmpty}}, nil
	}

	var b strings.Builder
	for _, uc := range deck {
		fmt.Fprintf(&b, "%s — %s\n", uc.Word, uc.Translation)
	}
	return []Reply{{Text: strings.TrimRight(b.String(), "\n")}}, nil
}

func (e *Engine) cmdImport(ctx context.Context, userID int64) ([]Reply, error) {
	collections, err := e.deck.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if len(collections) == 0 {
		return []Reply{{Text: msgNoCollections}}, nil
	}

	names := make([]string, 0, len(collections))
	for _, c := range collections {
		names = append(names, c.Name)
	}

	e.store.Put(userID, Context{State: StateAwaitingImportChoice})
	return []Reply{{Text: msgAskImportChoice, Choices: names}}, nil
}

func (e *Engine) cmdStudy(ctx context.Context, userID int64) ([]Reply, error) {
	ok, err := e.study.CanStudy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check deck size: %w", err)
	}
	if !ok {
		count, err := e.deck.CountUserCards(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count deck: %w", err)
		}
		return []Reply{{Text: fmt.Sprintf(msgNotEnoughCards, e.minDeck, count)}}, nil
	}

	plan, err := e.study.ChooseRound(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("choose round: %w", err)
	}

	e.store.Put(userID, Context{
		State:         StateAwaitingStudyAnswer,
		FocusCardID:   plan.FocusCardID,
		CorrectAnswer: plan.CorrectAnswer,
	})

	prompt := msgQuizWord
	if plan.Direction == domain.DirectionTranslation {
		prompt = msgQuizTranslation
	}
	return []Reply{{Text: fmt.Sprintf(prompt, plan.Prompt), Choices: plan.Choices}}, nil
}

func (e *Engine) cmdStats(ctx context.Context, userID int64) ([]Reply, error) {
	stats, err := e.deck.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return []Reply{{Text: fmt.Sprintf(msgStats, stats.Level, stats.Score, stats.CardCount)}}, nil
}

func (e *Engine) cmdCancel(userID int64) []Reply {
	if e.store.Get(userID).State == StateIdle {
		return []Reply{{Text: msgNothingToDo}}
	}
	e.store.Clear(userID)
	return []Reply{{Text: msgCancelled, ClearChoices: true}}
}

// ---------------------------------------------------------------------------
// Free-text input, dispatched by state
// ---------------------------------------------------------------------------

func (e *Engine) handleText(ctx context.Context, userID int64, text string) ([]Reply, error) {
	conv := e.store.Get(userID)

	switch conv.State {
	case StateAwaitingWord:
		return e.onWord(ctx, userID, text)
	case StateAwaitingTranslation:
		return e.onTranslation(ctx, userID, conv, text)
	case StateAwaitingDeleteTarget:
		return e.onDeleteTarget(ctx, userID, text)
	case StateAwaitingImportChoice:
		return e.onImportChoice(ctx, userID, text)
	case StateAwaitingStudyAnswer:
		return e.onStudyAnswer(ctx, userID, conv, text)
	default:
		return []Reply{{Text: msgIdleHint}}, nil
	}
}

func (e *Engine) onWord(ctx context.Context, userID int64, text string) ([]Reply, error) {
	lookup, err := e.deck.LookupWord(ctx, userID, text)
	if errors.Is(err, domain.ErrValidation) {
		return []Reply{{Text: msgInvalidWord}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup word: %w", err)
	}

	word := domain.NormalizeText(text)

	if lookup.UserCard != nil {
		e.store.Clear(userID)
		return []Reply{{Text: fmt.Sprintf(msgAlreadyInDeck, word)}}, nil
	}

	next := Context{State: StateAwaitingTranslation, Word: word}
	if lookup.Card != nil {
		next.Suggestion = lookup.Card.Translation
	}
	e.store.Put(userID, next)

	if next.Suggestion != "" {
		return []Reply{{
			Text:    fmt.Sprintf(msgAskTranslationPrefill, word),
			Choices: domain.SplitTranslations(next.Suggestion),
		}}, nil
	}
	return []Reply{{Text: fmt.Sprintf(msgAskTranslation, word)}}, nil
}

func (e *Engine) onTranslation(ctx context.Context, userID int64, conv Context, text string) ([]Reply, error) {
	uc, err := e.deck.AddUserCard(ctx, userID, conv.Word, text)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return []Reply{{Text: msgInvalidWord}}, nil
	case errors.Is(err, domain.ErrAlreadyExists):
		e.store.Clear(userID)
		return []Reply{{Text: fmt.Sprintf(msgAlreadyInDeck, conv.Word), ClearChoices: true}}, nil
	case err != nil:
		return nil, fmt.Errorf("add card: %w", err)
	}

	e.store.Clear(userID)
	return []Reply{{
		Text:         fmt.Sprintf(msgCardAdded, uc.Word, uc.Translation),
		ClearChoices: true,
	}}, nil
}

func (e *Engine) onDeleteTarget(ctx context.Context, userID int64, text string) ([]Reply, error) {
	if strings.TrimSpace(text) == deleteAllToken {
		count, err := e.deck.DeleteAllUserCards(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("wipe deck: %w", err)
		}
		e.store.Clear(userID)
		return []Reply{{Text: fmt.Sprintf(msgDeckWiped, count)}}, nil
	}

	word := domain.NormalizeText(text)
	err := e.deck.DeleteUserCard(ctx, userID, word)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Lenient on purpose: the state stays so the user can retype
		// without re-issuing /delete.
		return []Reply{{Text: fmt.Sprintf(msgDeleteMiss, word)}}, nil
	case errors.Is(err, domain.ErrValidation):
		return []Reply{{Text: msgAskDeleteTarget}}, nil
	case err != nil:
		return nil, fmt.Errorf("delete card: %w", err)
	}

	e.store.Clear(userID)
	return []Reply{{Text: fmt.Sprintf(msgDeleted, word)}}, nil
}

func (e *Engine) onImportChoice(ctx context.Context, userID int64, text string) ([]Reply, error) {
	col, err := e.deck.ResolveCollection(ctx, text)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		return []Reply{{Text: msgUnknownCollection}}, nil
	case err != nil:
		return nil, fmt.Errorf("resolve collection: %w", err)
	}

	count, err := e.deck.ImportCollection(ctx, userID, col.ID)
	if err != nil {
		return nil, fmt.Errorf("import collection: %w", err)
	}

	e.store.Clear(userID)

	msg := fmt.Sprintf(msgImported, count, col.Name)
	if count == 0 {
		msg = fmt.Sprintf(msgImportedNothing, col.Name)
	}
	return []Reply{{Text: msg, ClearChoices: true}}, nil
}

func (e *Engine) onStudyAnswer(ctx context.Context, userID int64, conv Context, text string) ([]Reply, error) {
	outcome, err := e.study.ResolveAnswer(ctx, userID, study.ResolveAnswerInput{
		FocusCardID:   conv.FocusCardID,
		Submitted:     text,
		CorrectAnswer: conv.CorrectAnswer,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve answer: %w", err)
	}

	e.store.Clear(userID)

	replies := make([]Reply, 0, 3)
	if outcome.Success {
		replies = append(replies, Reply{Text: msgStudyCorrect, ClearChoices: true})
	} else {
		replies = append(replies, Reply{Text: fmt.Sprintf(msgStudyWrong, outcome.CorrectAnswer), ClearChoices: true})
	}
	if outcome.LeveledUp {
		replies = append(replies, Reply{Text: fmt.Sprintf(msgLevelUp, outcome.NewLevel)})
	}
	replies = append(replies, Reply{Text: msgStudyAgain})

	return replies, nil
}
