package messaging

import (
	"github.com/sotrh/bank/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// ErrorType names a rejection the player should hear about
type ErrorType string

const (
	ErrorTypeNoGame           ErrorType = "no_game"
	ErrorTypeGameActive       ErrorType = "game_active"
	ErrorTypeGameCompleted    ErrorType = "game_completed"
	ErrorTypeGameExists       ErrorType = "game_exists"
	ErrorTypeNotStarted       ErrorType = "not_started"
	ErrorTypeNotEnoughPlayers ErrorType = "not_enough_players"
	ErrorTypeDuplicateName    ErrorType = "duplicate_name"
	ErrorTypeNotYourTurn      ErrorType = "not_your_turn"
	ErrorTypeNotInGame        ErrorType = "not_in_game"
	ErrorTypeInvalidRoll      ErrorType = "invalid_roll"
	ErrorTypeRoundOver        ErrorType = "round_over"
)

// GetJoinGameMessageInput contains parameters for getting a join game message
type GetJoinGameMessageInput struct {
	// PlayerName is the name of the player joining
	PlayerName string

	// GameStatus is the current status of the game
	GameStatus models.GameStatus

	// AlreadyJoined indicates if the player was already in the game
	AlreadyJoined bool

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetJoinGameMessageOutput contains the result of getting a join game message
type GetJoinGameMessageOutput struct {
	// Message is the generated message
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// GetGameStatusMessageInput contains parameters for getting a game status message
type GetGameStatusMessageInput struct {
	GameStatus models.GameStatus
}

// GetGameStatusMessageOutput contains the result of getting a game status message
type GetGameStatusMessageOutput struct {
	Message string
}

// GetRollResultMessageInput contains parameters for getting a roll result message
type GetRollResultMessageInput struct {
	// PlayerName is the name of the player who rolled
	PlayerName string

	// Roll is what was submitted
	Roll models.Roll

	// Outcome is continuing or busted
	Outcome models.Outcome

	// Pot is the pot after the roll, or the pot that was lost on a bust
	Pot uint
}

// GetRollResultMessageOutput contains the result of getting a roll result message
type GetRollResultMessageOutput struct {
	Title   string
	Message string
}

// GetBankMessageInput contains parameters for getting a bank message
type GetBankMessageInput struct {
	// PlayerName is the name of the player who banked
	PlayerName string

	// Amount is what they banked
	Amount uint

	// LastPlayerName is set when the bank left one player, who took the pot too
	LastPlayerName string
}

// GetBankMessageOutput contains the result of getting a bank message
type GetBankMessageOutput struct {
	Title   string
	Message string
}

// GetGameOverMessageInput contains parameters for getting a game over message
type GetGameOverMessageInput struct {
	// WinnerNames lists the top scorers
	WinnerNames []string

	// Score is the winning score
	Score uint
}

// GetGameOverMessageOutput contains the result of getting a game over message
type GetGameOverMessageOutput struct {
	Title   string
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// ErrorType is the type of error
	ErrorType ErrorType

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	// Message is the generated message
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed makes message selection repeatable. Zero seeds from the clock.
	Seed int64
}
