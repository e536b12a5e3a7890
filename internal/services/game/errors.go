package game

import (
	"github.com/sotrh/bank/internal/roster"
	"github.com/sotrh/bank/internal/round"
)

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNotEnoughPlayers  GameError = "at least two players are needed to start"
	ErrInvalidSettings   GameError = "invalid game settings"
	ErrNilState          GameError = "game state cannot be nil"
	ErrGameNotFound      GameError = "game not found"
	ErrGameAlreadyExists GameError = "game already exists for this channel"
	ErrGameNotStarted    GameError = "game has not started"
	ErrInvalidInput      GameError = "invalid input"
	ErrNotInGame         GameError = "player is not seated at this table"
	ErrNotYourTurn       GameError = "it is another player's turn"
	ErrNilConfig         GameError = "config cannot be nil"
	ErrNilGameRepo       GameError = "game repository cannot be nil"
	ErrNilLedgerRepo     GameError = "round ledger repository cannot be nil"
	ErrNilClock          GameError = "clock cannot be nil"
	ErrNilUUIDGenerator  GameError = "UUID generator cannot be nil"

	// Engine errors, re-exported so callers need only this package
	ErrInvalidRoll   = round.ErrInvalidRoll
	ErrWrongPhase    = round.ErrWrongPhase
	ErrEmptyName     = roster.ErrEmptyName
	ErrDuplicateName = roster.ErrDuplicateName
)
