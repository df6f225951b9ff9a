package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

// CanStudy reports whether the user owns enough cards to start a quiz
// round: strictly more than the configured minimum deck size.
func (s *Service) CanStudy(ctx context.Context, userID int64) (bool, error) {
	count, err := s.userCards.Count(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("count user cards: %w", err)
	}
	return count > s.cfg.MinDeckSize, nil
}

// ChooseRound selects the cards for one quiz round and builds the plan
// the conversation layer keeps until the answer arrives.
//
// Cards are drawn without replacement with weight
//
//	(now - lastStudy) in days / (score + 1)
//
// so low-scoring and long-untouched cards are favored; a never-studied
// card (last_study at the epoch) dominates the draw. A zero weight total
// falls back to a uniform draw. The first drawn card is the focus card;
// the rest supply distractor answers.
func (s *Service) ChooseRound(ctx context.Context, userID int64) (*domain.RoundPlan, error) {
	cards, err := s.userCards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	if len(cards) <= s.cfg.MinDeckSize {
		return nil, fmt.Errorf("user %d owns %d cards: %w", userID, len(cards), domain.ErrNotEnoughCards)
	}

	now := s.now()
	weights := make([]float64, len(cards))
	for i, uc := range cards {
		days := now.Sub(uc.LastStudy).Hours() / 24
		if days < 0 {
			// Clock anomaly: a last_study in the future contributes nothing.
			days = 0
		}
		weights[i] = days / float64(uc.Score+1)
	}

	s.mu.Lock()
	idxs := weightedSample(s.rng, weights, s.cfg.ChoicesPerRound)

	direction := domain.DirectionWord
	if s.rng.Intn(2) == 1 {
		direction = domain.DirectionTranslation
	}

	focus := cards[idxs[0]]
	choices := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		choices = append(choices, answerFor(cards[idx], direction))
	}
	// The correct answer must not be findable by position.
	s.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	s.mu.Unlock()

	plan := &domain.RoundPlan{
		ID:            uuid.New(),
		FocusCardID:   focus.CardID,
		Direction:     direction,
		Prompt:        promptFor(focus, direction),
		CorrectAnswer: answerFor(focus, direction),
		Choices:       choices,
	}

	s.log.DebugContext(ctx, "round chosen",
		slog.Int64("user_id", userID),
		slog.String("round_id", plan.ID.String()),
		slog.Int64("focus_card_id", plan.FocusCardID),
		slog.String("direction", plan.Direction.String()),
	)

	return plan, nil
}

// promptFor returns the side of the card shown to the user.
func promptFor(uc domain.UserCard, d domain.QuizDirection) string {
	if d == domain.DirectionWord {
		return uc.Word
	}
	return uc.Translation
}

// answerFor returns the side of the card the user must supply.
func answerFor(uc domain.UserCard, d domain.QuizDirection) string {
	if d == domain.DirectionWord {
		return uc.Translation
	}
	return uc.Word
}
