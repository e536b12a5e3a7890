package models

import (
	"time"
)

// GameStatus represents where a stored game is in its lifecycle
type GameStatus string

const (
	// GameStatusWaiting indicates a game is waiting for players to join
	GameStatusWaiting GameStatus = "waiting"

	// GameStatusActive indicates a game is in progress
	GameStatusActive GameStatus = "active"

	// GameStatusCompleted indicates a game has been completed
	GameStatusCompleted GameStatus = "completed"
)

// Game is a stored table: one engine state bound to a channel
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// ChannelID is the channel the game is played in
	ChannelID string

	// CreatorID is the user who opened the table
	CreatorID string

	// MessageID is the ID of the message showing the keypad
	MessageID string

	// State is the engine snapshot
	State *GameState

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// Status derives the lifecycle status from the engine state
func (g *Game) Status() GameStatus {
	switch {
	case g.State == nil || g.State.Phase().IsSetup():
		return GameStatusWaiting
	case g.State.GameOver:
		return GameStatusCompleted
	default:
		return GameStatusActive
	}
}
