package models

import (
	"time"
)

// BankEntry is one player's share of a finished round
type BankEntry struct {
	PlayerID   PlayerID
	PlayerName string
	Amount     uint
}

// RoundRecord is the history entry written when a round ends
type RoundRecord struct {
	// ID is the unique identifier for the record
	ID string

	// GameID is the game the round was played in
	GameID string

	// Number is the round number
	Number int

	// Outcome is busted or round_complete
	Outcome Outcome

	// Pot is what was at stake when the round ended; for a bust, what was lost
	Pot uint

	// Rolls is the round's roll log
	Rolls []Roll

	// Banks lists who banked and for how much, in order
	Banks []BankEntry

	// Timestamp is when the round ended
	Timestamp time.Time
}
