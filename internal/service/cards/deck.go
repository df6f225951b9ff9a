package cards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

// Lookup is the result of probing a word before the add flow: the user may
// already own it, the canonical card may exist with translations to
// suggest, or the word may be entirely new.
type Lookup struct {
	UserCard *domain.UserCard // non-nil when the user already owns the word
	Card     *domain.Card     // non-nil when a canonical card exists
}

// LookupWord probes the given word in the user's deck and the canonical
// card store. A word nobody has added yet yields a zero Lookup, not an
// error.
func (s *Service) LookupWord(ctx context.Context, userID int64, word string) (*Lookup, error) {
	if err := domain.ValidateWord(word); err != nil {
		return nil, err
	}
	word = domain.NormalizeText(word)

	var res Lookup

	uc, err := s.userCards.GetByWord(ctx, userID, word)
	switch {
	case err == nil:
		res.UserCard = uc
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("lookup user card: %w", err)
	}

	card, err := s.cards.GetByWord(ctx, word)
	switch {
	case err == nil:
		res.Card = card
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("lookup card: %w", err)
	}

	return &res, nil
}

// AddUserCard adds the word with the given translation to the user's deck.
// The canonical card is created on first sight; when it already exists a
// previously unseen translation is appended to its alternative list. A
// word already in the user's deck results in domain.ErrAlreadyExists.
func (s *Service) AddUserCard(ctx context.Context, userID int64, word, translation string) (*domain.UserCard, error) {
	if err := domain.ValidateWord(word); err != nil {
		return nil, err
	}
	word = domain.NormalizeText(word)

	translation = domain.NormalizeText(translation)
	if translation == "" {
		return nil, domain.NewValidationError("translation", "must not be empty")
	}
	if len(translation) > domain.MaxWordLen {
		return nil, domain.NewValidationError("translation", "too long")
	}

	var created *domain.UserCard
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		card, err := s.cards.GetByWord(ctx, word)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			card, err = s.cards.Create(ctx, word, translation)
			if err != nil {
				return fmt.Errorf("create card: %w", err)
			}
		case err != nil:
			return fmt.Errorf("get card: %w", err)
		default:
			if !hasTranslation(card.Translation, translation) {
				merged := domain.JoinTranslations(card.Translation, translation)
				if err := s.cards.UpdateTranslation(ctx, card.ID, merged); err != nil {
					return fmt.Errorf("merge card translation: %w", err)
				}
			}
		}

		if err := s.userCards.Create(ctx, userID, card.ID, translation); err != nil {
			return fmt.Errorf("create user card: %w", err)
		}

		created = &domain.UserCard{
			UserID:      userID,
			CardID:      card.ID,
			Word:        card.Word,
			Translation: translation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "card added",
		slog.Int64("user_id", userID),
		slog.Int64("card_id", created.CardID),
	)

	return created, nil
}

// DeleteUserCard removes the word from the user's deck.
// Returns domain.ErrNotFound when the user does not own the word.
func (s *Service) DeleteUserCard(ctx context.Context, userID int64, word string) error {
	word = domain.NormalizeText(word)
	if word == "" {
		return domain.NewValidationError("word", "must not be empty")
	}

	if err := s.userCards.DeleteByWord(ctx, userID, word); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "card deleted",
		slog.Int64("user_id", userID),
		slog.String("word", word),
	)

	return nil
}

// DeleteAllUserCards wipes the user's deck and returns how many cards
// were removed. An already empty deck is not an error.
func (s *Service) DeleteAllUserCards(ctx context.Context, userID int64) (int, error) {
	count, err := s.userCards.DeleteAll(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "deck wiped",
		slog.Int64("user_id", userID),
		slog.Int("count", count),
	)

	return count, nil
}

// ListUserCards returns the user's deck ordered by word.
func (s *Service) ListUserCards(ctx context.Context, userID int64) ([]domain.UserCard, error) {
	return s.userCards.ListByUser(ctx, userID)
}

// CountUserCards returns the user's deck size.
func (s *Service) CountUserCards(ctx context.Context, userID int64) (int, error) {
	return s.userCards.Count(ctx, userID)
}

// hasTranslation reports whether the comma-joined list already contains
// the given alternative, compared in normalized form.
func hasTranslation(joined, candidate string) bool {
	for _, t := range domain.SplitTranslations(joined) {
		if domain.AnswersEqual(t, candidate) {
			return true
		}
	}
	return false
}
