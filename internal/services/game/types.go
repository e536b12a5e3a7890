package game

import (
	"github.com/sotrh/bank/internal/common/clock"
	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/models"
	gameRepo "github.com/sotrh/bank/internal/repositories/game"
	ledgerRepo "github.com/sotrh/bank/internal/repositories/round_ledger"
)

// Config holds configuration for the game service
type Config struct {
	// DefaultSettings are used when CreateGame is given none.
	// Nil means models.DefaultSettings().
	DefaultSettings *models.Settings

	// Repository dependencies
	GameRepo   gameRepo.Repository
	LedgerRepo ledgerRepo.Repository

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.Generator
}

// CreateGameInput contains parameters for creating a new game
type CreateGameInput struct {
	// ChannelID is the channel where the game is being played
	ChannelID string

	// CreatorID is the user ID of the person opening the table
	CreatorID string

	// Settings overrides the service defaults when set
	Settings *models.Settings
}

// CreateGameOutput contains the result of creating a new game
type CreateGameOutput struct {
	Game *models.Game
}

// RegisterPlayerInput contains parameters for joining a game
type RegisterPlayerInput struct {
	GameID string

	// PlayerName is the display name; it must be unique at the table
	PlayerName string
}

// RegisterPlayerOutput contains the result of joining a game
type RegisterPlayerOutput struct {
	Game     *models.Game
	PlayerID models.PlayerID
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	GameID string
}

// StartGameOutput contains the started game
type StartGameOutput struct {
	Game *models.Game
}

// SubmitRollInput contains the roll for the current roller
type SubmitRollInput struct {
	GameID string
	Roll   models.Roll

	// PlayerName is who is rolling. When set, the roll is rejected unless
	// it is that player's turn.
	PlayerName string
}

// SubmitRollOutput contains the result of a roll
type SubmitRollOutput struct {
	Game *models.Game

	// Roller is the player who rolled
	Roller models.Player

	// Outcome is continuing or busted
	Outcome models.Outcome

	// Record is set when the roll ended the round
	Record *models.RoundRecord
}

// SubmitBankInput contains parameters for banking
type SubmitBankInput struct {
	GameID string

	// PlayerName is who is banking. When set, the bank is rejected unless
	// it is that player's turn.
	PlayerName string
}

// SubmitBankOutput contains the result of a bank
type SubmitBankOutput struct {
	Game *models.Game

	// Banks lists who was paid by this call, in order
	Banks []models.BankEntry

	// Outcome is banked or round_complete
	Outcome models.Outcome

	// Record is set when the bank ended the round
	Record *models.RoundRecord
}

// AdvanceRoundInput contains parameters for advancing a round
type AdvanceRoundInput struct {
	GameID string

	// PlayerName, when set, must be seated at the table
	PlayerName string
}

// AdvanceRoundOutput contains the game after advancing
type AdvanceRoundOutput struct {
	Game *models.Game

	// Advanced is false when the round had not ended, leaving the game as it was
	Advanced bool
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	GameID string
}

// GetGameOutput contains the requested game
type GetGameOutput struct {
	Game *models.Game
}

// GetGameByChannelInput contains parameters for retrieving a channel's game
type GetGameByChannelInput struct {
	ChannelID string
}

// GetGameByChannelOutput contains the channel's game
type GetGameByChannelOutput struct {
	Game *models.Game
}

// AbandonGameInput contains parameters for abandoning a game
type AbandonGameInput struct {
	GameID string
}

// AbandonGameOutput contains the result of abandoning a game
type AbandonGameOutput struct {
	Success bool
}

// GetRoundHistoryInput contains parameters for retrieving round history
type GetRoundHistoryInput struct {
	GameID string
}

// GetRoundHistoryOutput contains finished rounds, oldest first
type GetRoundHistoryOutput struct {
	Records []*models.RoundRecord
}

// UpdateGameMessageInput contains parameters for recording the keypad message
type UpdateGameMessageInput struct {
	GameID    string
	MessageID string
}

// UpdateGameMessageOutput contains the result of recording the message
type UpdateGameMessageOutput struct {
	Success bool
}
