package round_ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/sotrh/bank/internal/repositories/round_ledger Repository

import (
	"context"
)

// Repository defines the interface for round history persistence
type Repository interface {
	// AddRoundRecord appends a finished round to a game's history
	AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error

	// GetRoundRecordsForGame retrieves a game's history, oldest round first
	GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error)

	// DeleteRoundRecords deletes all round records for a game
	DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error
}
