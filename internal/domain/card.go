package domain

import (
	"time"
)

// Card is a canonical word/translation pair shared by all users.
// Word is unique case-insensitively. Translation may accumulate several
// comma-joined alternatives as different users add the same word.
type Card struct {
	ID          int64
	Word        string
	Translation string
}

// HasTranslation reports whether the given translation is already one of
// the card's comma-joined alternatives (case-insensitive).
func (c Card) HasTranslation(translation string) bool {
	want := NormalizeText(translation)
	for _, t := range SplitTranslations(c.Translation) {
		if NormalizeText(t) == want {
			return true
		}
	}
	return false
}

// Collection is a named bundle of cards available for bulk import.
type Collection struct {
	ID   int64
	Name string
}

// UserCard binds a user to a card they study. It carries a per-user
// translation override and the study statistics the scheduler mutates.
// Key is (UserID, CardID).
type UserCard struct {
	UserID      int64
	CardID      int64
	Translation string
	Score       int
	LastStudy   time.Time

	// Word is joined in from the card row for display and answer
	// building; it is not a column of user_cards.
	Word string
}
