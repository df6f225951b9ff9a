package domain

import (
	"github.com/google/uuid"
)

// QuizDirection selects which side of the card is shown as the prompt.
type QuizDirection string

const (
	// DirectionWord shows the word; the correct answer is its translation.
	DirectionWord QuizDirection = "WORD"
	// DirectionTranslation shows the translation; the correct answer is the word.
	DirectionTranslation QuizDirection = "TRANSLATION"
)

func (d QuizDirection) String() string { return string(d) }

func (d QuizDirection) IsValid() bool {
	switch d {
	case DirectionWord, DirectionTranslation:
		return true
	}
	return false
}

// RoundPlan is everything the conversation layer needs to remember
// between presenting a quiz and receiving the answer.
type RoundPlan struct {
	ID            uuid.UUID
	FocusCardID   int64
	Direction     QuizDirection
	Prompt        string
	CorrectAnswer string
	Choices       []string
}

// StudyOutcome is the result of resolving a quiz answer.
type StudyOutcome struct {
	Success       bool
	CorrectAnswer string
	NewLevel      int
	// LeveledUp is set only when the stored level strictly increased.
	LeveledUp bool
}
