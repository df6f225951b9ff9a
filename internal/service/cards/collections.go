package cards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

// ListCollections returns every shared collection, ordered by name.
func (s *Service) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.collections.List(ctx)
}

// ResolveCollection finds a collection by the reference a user typed or
// tapped: a numeric id or a case-insensitive name.
func (s *Service) ResolveCollection(ctx context.Context, ref string) (*domain.Collection, error) {
	ref = domain.NormalizeText(ref)
	if ref == "" {
		return nil, domain.NewValidationError("collection", "must not be empty")
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		col, err := s.collections.GetByID(ctx, id)
		if err == nil {
			return col, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get collection by id: %w", err)
		}
		// A purely numeric name is unusual but allowed; fall through.
	}

	return s.collections.GetByName(ctx, ref)
}

// ImportCollection copies every card of the collection the user does not
// own yet, with the canonical translation, and returns how many cards
// were added. Importing twice is safe and adds nothing the second time.
func (s *Service) ImportCollection(ctx context.Context, userID, collectionID int64) (int, error) {
	// Confirm the collection exists so a dangling id maps to ErrNotFound
	// rather than a silent zero-row import.
	if _, err := s.collections.GetByID(ctx, collectionID); err != nil {
		return 0, err
	}

	count, err := s.userCards.ImportCollection(ctx, userID, collectionID)
	if err != nil {
		return 0, fmt.Errorf("import collection: %w", err)
	}

	s.log.InfoContext(ctx, "collection imported",
		slog.Int64("user_id", userID),
		slog.Int64("collection_id", collectionID),
		slog.Int("added", count),
	)

	return count, nil
}
