package round_ledger

import "github.com/sotrh/bank/internal/models"

// AddRoundRecordInput contains parameters for adding a round record
type AddRoundRecordInput struct {
	Record *models.RoundRecord

	// Final marks the record that ended the game. The game's whole ledger
	// then expires after the repository's CompletedTTL.
	Final bool
}

// GetRoundRecordsForGameInput contains parameters for retrieving a game's rounds
type GetRoundRecordsForGameInput struct {
	GameID string
}

// GetRoundRecordsForGameOutput contains a game's rounds, oldest first
type GetRoundRecordsForGameOutput struct {
	Records []*models.RoundRecord
}

// DeleteRoundRecordsInput contains parameters for deleting a game's rounds
type DeleteRoundRecordsInput struct {
	GameID string
}
