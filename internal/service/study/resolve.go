package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

// ResolveAnswerInput carries everything the scheduler needs to score one
// answer: the focus card of the round, what the user typed (or tapped),
// and the answer the round plan recorded as correct.
type ResolveAnswerInput struct {
	FocusCardID   int64
	Submitted     string
	CorrectAnswer string
}

// ResolveAnswer grades the submitted answer against the round plan and
// persists the resulting card and user progress in one transaction.
//
// The comparison is normalized and case-insensitive. The user-card row is
// locked for the duration of the transaction so two in-flight answers for
// the same card cannot interleave. The user level never regresses: it only
// moves when the score-derived level exceeds the stored one, and LeveledUp
// is reported only on a strict increase.
func (s *Service) ResolveAnswer(ctx context.Context, userID int64, in ResolveAnswerInput) (*domain.StudyOutcome, error) {
	success := domain.AnswersEqual(in.Submitted, in.CorrectAnswer)

	outcome := &domain.StudyOutcome{
		Success:       success,
		CorrectAnswer: in.CorrectAnswer,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		uc, err := s.userCards.GetByCardIDForUpdate(ctx, userID, in.FocusCardID)
		if err != nil {
			return fmt.Errorf("get user card: %w", err)
		}

		user, err := s.users.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		newCardScore, newUserScore := domain.ApplyStudyOutcome(uc.Score, user.Score, success)

		newLevel := domain.LevelForScore(newUserScore)
		if newLevel < user.Level {
			newLevel = user.Level
		}

		if err := s.userCards.UpdateStudy(ctx, userID, in.FocusCardID, newCardScore, s.now()); err != nil {
			return fmt.Errorf("update card study: %w", err)
		}

		if err := s.users.UpdateProgress(ctx, userID, newUserScore, newLevel); err != nil {
			return fmt.Errorf("update user progress: %w", err)
		}

		outcome.NewLevel = newLevel
		outcome.LeveledUp = newLevel > user.Level

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve answer: %w", err)
	}

	s.log.InfoContext(ctx, "answer resolved",
		slog.Int64("user_id", userID),
		slog.Int64("card_id", in.FocusCardID),
		slog.Bool("success", outcome.Success),
		slog.Int("level", outcome.NewLevel),
		slog.Bool("leveled_up", outcome.LeveledUp),
	)

	return outcome, nil
}
