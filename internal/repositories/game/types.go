package game

import "github.com/sotrh/bank/internal/models"

// SaveGameInput carries the game to write; its ID is required
type SaveGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
}

type GetGameByChannelInput struct {
	ChannelID string
}

type DeleteGameInput struct {
	GameID string
}

// GetActiveGamesInput pages the active index
type GetActiveGamesInput struct {
	// Limit caps how many games are returned. Zero returns all of them.
	Limit int64
}

// GetActiveGamesOutput lists games with a round in play, newest first
type GetActiveGamesOutput struct {
	Games []*models.Game
}
