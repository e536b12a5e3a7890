package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sotrh/bank/internal/common/clock"
	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/models"
	gameRepo "github.com/sotrh/bank/internal/repositories/game"
	ledgerRepo "github.com/sotrh/bank/internal/repositories/round_ledger"
)

// service implements the Service interface on top of the Controller,
// persisting every snapshot through the game repository
type service struct {
	defaults   models.Settings
	gameRepo   gameRepo.Repository
	ledgerRepo ledgerRepo.Repository
	clock      clock.Clock
	uuid       uuid.Generator
	controller *Controller

	// locks holds one *sync.Mutex per game ID, and one per channel key
	// for CreateGame
	locks sync.Map
}

const channelLockPrefix = "channel:"

// NewService creates a new game service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}
	if cfg.LedgerRepo == nil {
		return nil, ErrNilLedgerRepo
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	defaults := models.DefaultSettings()
	if cfg.DefaultSettings != nil {
		defaults = *cfg.DefaultSettings
	}

	return &service{
		defaults:   defaults,
		gameRepo:   cfg.GameRepo,
		ledgerRepo: cfg.LedgerRepo,
		clock:      cfg.Clock,
		uuid:       cfg.UUIDGenerator,
		controller: NewController(&ControllerConfig{IDs: cfg.UUIDGenerator}),
	}, nil
}

// CreateGame opens a table in a channel. A channel whose previous game is
// over can host a new one.
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(channelLockPrefix + input.ChannelID)
	defer unlock()

	existing, err := s.gameRepo.GetGameByChannel(ctx, &gameRepo.GetGameByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil && !errors.Is(err, gameRepo.ErrGameNotFound) {
		return nil, err
	}
	if err == nil && existing != nil && existing.Status() != models.GameStatusCompleted {
		return nil, ErrGameAlreadyExists
	}

	settings := s.defaults
	if input.Settings != nil {
		settings = *input.Settings
	}

	state, err := s.controller.NewGame(settings)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	game := &models.Game{
		ID:        s.uuid.NewID(),
		ChannelID: input.ChannelID,
		CreatorID: input.CreatorID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	log.Printf("CreateGame: game %s opened in channel %s (target %d, rounds %d)",
		game.ID, game.ChannelID, settings.TargetScore, settings.MaxRounds)

	return &CreateGameOutput{
		Game: game,
	}, nil
}

// RegisterPlayer seats a player at a table that has not started
func (s *service) RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.load(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	next, id, err := s.controller.Register(game.State, input.PlayerName)
	if err != nil {
		return nil, err
	}

	game.State = next
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	return &RegisterPlayerOutput{
		Game:     game,
		PlayerID: id,
	}, nil
}

// StartGame opens round 1
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.load(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	next, err := s.controller.Begin(game.State)
	if err != nil {
		return nil, err
	}

	game.State = next
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	log.Printf("StartGame: game %s started with %d players", game.ID, len(next.Players))

	return &StartGameOutput{
		Game: game,
	}, nil
}

// SubmitRoll records the current roller's roll
func (s *service) SubmitRoll(ctx context.Context, input *SubmitRollInput) (*SubmitRollOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadPlaying(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	prev := game.State
	if err := checkTurn(prev, input.PlayerName); err != nil {
		return nil, err
	}
	roller, _ := prev.CurrentPlayer()

	next, err := s.controller.SubmitRoll(prev, input.Roll)
	if err != nil {
		return nil, err
	}

	game.State = next
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	return &SubmitRollOutput{
		Game:    game,
		Roller:  roller,
		Outcome: next.Round.LastOutcome,
		Record:  s.recordIfEnded(ctx, game, prev),
	}, nil
}

// SubmitBank banks the current roller
func (s *service) SubmitBank(ctx context.Context, input *SubmitBankInput) (*SubmitBankOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadPlaying(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	prev := game.State
	if err := checkTurn(prev, input.PlayerName); err != nil {
		return nil, err
	}
	next, err := s.controller.SubmitBank(prev)
	if err != nil {
		return nil, err
	}

	game.State = next
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	return &SubmitBankOutput{
		Game:    game,
		Banks:   bankEntries(next, next.Round.Payouts[len(prev.Round.Payouts):]),
		Outcome: next.Round.LastOutcome,
		Record:  s.recordIfEnded(ctx, game, prev),
	}, nil
}

// AdvanceRound opens the next round. Calling it before the round has ended
// is not an error; the game comes back unchanged with Advanced unset.
func (s *service) AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadPlaying(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if input.PlayerName != "" && !seated(game.State, input.PlayerName) {
		return nil, ErrNotInGame
	}

	next, err := s.controller.AdvanceRoundStrict(game.State)
	if errors.Is(err, ErrWrongPhase) {
		return &AdvanceRoundOutput{Game: game}, nil
	}
	if err != nil {
		return nil, err
	}

	game.State = next
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	return &AdvanceRoundOutput{
		Game:     game,
		Advanced: true,
	}, nil
}

// GetGame retrieves a game by ID
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.load(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// GetGameByChannel retrieves the game bound to a channel
func (s *service) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameByChannelOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrInvalidInput
	}

	game, err := s.gameRepo.GetGameByChannel(ctx, &gameRepo.GetGameByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return &GetGameByChannelOutput{
		Game: game,
	}, nil
}

// AbandonGame removes a game and its round history
func (s *service) AbandonGame(ctx context.Context, input *AbandonGameInput) (*AbandonGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	if _, err := s.load(ctx, input.GameID); err != nil {
		return nil, err
	}

	if err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: input.GameID}); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.DeleteRoundRecords(ctx, &ledgerRepo.DeleteRoundRecordsInput{GameID: input.GameID}); err != nil {
		log.Printf("AbandonGame: failed to delete round history for game %s: %v", input.GameID, err)
	}

	s.locks.Delete(input.GameID)
	log.Printf("AbandonGame: game %s abandoned", input.GameID)

	return &AbandonGameOutput{
		Success: true,
	}, nil
}

// GetRoundHistory returns every finished round of a game, oldest first
func (s *service) GetRoundHistory(ctx context.Context, input *GetRoundHistoryInput) (*GetRoundHistoryOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, ErrInvalidInput
	}

	out, err := s.ledgerRepo.GetRoundRecordsForGame(ctx, &ledgerRepo.GetRoundRecordsForGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get round history: %w", err)
	}

	return &GetRoundHistoryOutput{
		Records: out.Records,
	}, nil
}

// UpdateGameMessage records which message shows the game's keypad
func (s *service) UpdateGameMessage(ctx context.Context, input *UpdateGameMessageInput) (*UpdateGameMessageOutput, error) {
	if input == nil || input.GameID == "" || input.MessageID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.load(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	game.MessageID = input.MessageID
	if err := s.save(ctx, game); err != nil {
		return nil, err
	}

	return &UpdateGameMessageOutput{
		Success: true,
	}, nil
}

// lock serializes load, transition and save for one game
func (s *service) lock(gameID string) func() {
	m, _ := s.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *service) load(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{GameID: gameID})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if game.State == nil {
		return nil, ErrNilState
	}
	return game, nil
}

// loadPlaying loads a game and rejects tables still taking registrations
func (s *service) loadPlaying(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status() == models.GameStatusWaiting {
		return nil, ErrGameNotStarted
	}
	return game, nil
}

func (s *service) save(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = s.clock.Now()
	return s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game})
}

// recordIfEnded appends the round to the ledger when the transition from prev
// ended it, either by reaching a terminal phase or by ending the game. A
// ledger failure is logged and does not fail the move, which is already saved.
func (s *service) recordIfEnded(ctx context.Context, game *models.Game, prev *models.GameState) *models.RoundRecord {
	next := game.State
	roundEnded := next.Phase().IsTerminal() && !prev.Phase().IsTerminal()
	gameEnded := next.GameOver && !prev.GameOver
	if !roundEnded && !gameEnded {
		return nil
	}

	pot := next.Round.Pot
	if next.Phase() == models.PhaseBusted {
		pot = prev.Round.Pot
	}

	record := &models.RoundRecord{
		ID:        s.uuid.NewID(),
		GameID:    game.ID,
		Number:    next.Round.Number,
		Outcome:   next.Round.LastOutcome,
		Pot:       pot,
		Rolls:     append([]models.Roll(nil), next.Round.Rolls...),
		Banks:     bankEntries(next, next.Round.Payouts),
		Timestamp: s.clock.Now(),
	}

	if err := s.ledgerRepo.AddRoundRecord(ctx, &ledgerRepo.AddRoundRecordInput{
		Record: record,
		Final:  gameEnded,
	}); err != nil {
		log.Printf("recordIfEnded: failed to record round %d of game %s: %v", record.Number, game.ID, err)
	}

	if gameEnded {
		log.Printf("Game %s is over after round %d, winners: %v", game.ID, next.Round.Number, next.Winners)
	}

	return record
}

// checkTurn rejects a move by anyone but the current roller. It runs under
// the game lock so a repeated click sees the state the first one left. An
// empty name skips the check; phase errors are left to the controller.
func checkTurn(state *models.GameState, name string) error {
	if name == "" {
		return nil
	}
	if !seated(state, name) {
		return ErrNotInGame
	}
	if state.GameOver || !state.Phase().IsAwaitingRoll() {
		return nil
	}
	if current, ok := state.CurrentPlayer(); !ok || current.Name != name {
		return ErrNotYourTurn
	}
	return nil
}

func seated(state *models.GameState, name string) bool {
	for _, p := range state.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

func bankEntries(state *models.GameState, payouts []models.Payout) []models.BankEntry {
	entries := make([]models.BankEntry, 0, len(payouts))
	for _, p := range payouts {
		if p.Seat < 0 || p.Seat >= len(state.Players) {
			continue
		}
		player := state.Players[p.Seat]
		entries = append(entries, models.BankEntry{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Amount:     p.Amount,
		})
	}
	return entries
}
