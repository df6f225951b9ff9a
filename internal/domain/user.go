package domain

// User is an application user identified by the opaque id the chat
// transport supplies (a Telegram chat id). Score only ever grows; Level is
// derived from Score and never decreases.
type User struct {
	ID    int64
	Score int
	Level int
}

// NewUser returns a user at the starting score and level.
func NewUser(id int64) User {
	return User{ID: id, Score: 0, Level: LevelForScore(0)}
}
