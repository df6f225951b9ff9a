// Package conversation implements the per-user dialog state machine: it
// turns inbound chat text into service calls and abstract replies, keeping
// whatever scratch state a multi-step flow needs between messages.
package conversation

// State identifies where a user is inside a multi-step flow.
type State string

const (
	StateIdle                 State = "IDLE"
	StateAwaitingWord         State = "AWAITING_WORD"
	StateAwaitingTranslation  State = "AWAITING_TRANSLATION"
	StateAwaitingDeleteTarget State = "AWAITING_DELETE_TARGET"
	StateAwaitingImportChoice State = "AWAITING_IMPORT_CHOICE"
	StateAwaitingStudyAnswer  State = "AWAITING_STUDY_ANSWER"
)

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// IsValid reports whether the state is one of the defined values.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateAwaitingWord, StateAwaitingTranslation,
		StateAwaitingDeleteTarget, StateAwaitingImportChoice, StateAwaitingStudyAnswer:
		return true
	}
	return false
}

// Context is the scratch state of one user's in-flight flow. The zero
// value means idle with nothing remembered.
type Context struct {
	State State

	// Add flow.
	Word       string
	Suggestion string // canonical translations offered as prefill

	// Study flow.
	FocusCardID   int64
	CorrectAnswer string
}

// Reply is an abstract outbound payload. The transport renders Choices as
// whatever pick-one affordance it has (keyboard buttons on Telegram);
// ClearChoices tells it to drop any affordance shown earlier.
type Reply struct {
	Text         string
	Choices      []string
	ClearChoices bool
}
