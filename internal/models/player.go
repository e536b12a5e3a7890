package models

// PlayerID identifies a registered player for the life of a game
type PlayerID string

// Player represents someone seated at the table
type Player struct {
	// ID is the stable identifier handed out on registration
	ID PlayerID

	// Name is the display name, unique within a roster
	Name string

	// Score is the total of every pot share the player has banked
	Score uint
}
