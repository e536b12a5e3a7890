package game

import "context"

// Service defines the interface for game operations
type Service interface {
	// CreateGame opens a table in a channel
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// RegisterPlayer seats a player at a table that has not started
	RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error)

	// StartGame opens round 1
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// SubmitRoll records the current roller's roll
	SubmitRoll(ctx context.Context, input *SubmitRollInput) (*SubmitRollOutput, error)

	// SubmitBank banks the current roller
	SubmitBank(ctx context.Context, input *SubmitBankInput) (*SubmitBankOutput, error)

	// AdvanceRound opens the next round once the current one has ended
	AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error)

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameByChannel retrieves the game bound to a channel
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error)

	// AbandonGame removes a game and its round history
	AbandonGame(ctx context.Context, input *AbandonGameInput) (*AbandonGameOutput, error)

	// GetRoundHistory returns every finished round of a game
	GetRoundHistory(ctx context.Context, input *GetRoundHistoryInput) (*GetRoundHistoryOutput, error)

	// UpdateGameMessage records which message shows the game's keypad
	UpdateGameMessage(ctx context.Context, input *UpdateGameMessageInput) (*UpdateGameMessageOutput, error)
}
