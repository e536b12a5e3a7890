package game

import (
	"fmt"

	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/common/validate"
	"github.com/sotrh/bank/internal/models"
	"github.com/sotrh/bank/internal/roster"
	"github.com/sotrh/bank/internal/round"
)

// ControllerConfig holds the controller's collaborators
type ControllerConfig struct {
	// IDs hands out player identifiers. Defaults to random UUIDs.
	IDs uuid.Generator
}

// Controller sequences rounds across a roster and pays out banks.
//
// Every operation takes the current snapshot and returns the next one. The
// snapshot passed in is never modified, so a rejected call leaves the
// caller's state exactly as it was. The controller holds no game state and
// does not roll dice; it is not safe for concurrent use on the same game.
type Controller struct {
	ids uuid.Generator
}

// NewController creates a controller
func NewController(cfg *ControllerConfig) *Controller {
	var ids uuid.Generator = uuid.New()
	if cfg != nil && cfg.IDs != nil {
		ids = cfg.IDs
	}
	return &Controller{ids: ids}
}

// NewGame returns an empty table in setup, ready for registrations
func (c *Controller) NewGame(settings models.Settings) (*models.GameState, error) {
	if err := validate.Struct(settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return &models.GameState{
		Round:    models.Round{Phase: models.PhaseSetup},
		Settings: settings,
	}, nil
}

// Register adds a player to a table that has not started yet
func (c *Controller) Register(state *models.GameState, name string) (*models.GameState, models.PlayerID, error) {
	if state == nil {
		return nil, "", ErrNilState
	}
	if !state.Phase().IsSetup() {
		return state, "", ErrWrongPhase
	}

	r, err := c.roster(state)
	if err != nil {
		return state, "", err
	}
	id, err := r.Register(name)
	if err != nil {
		return state, "", err
	}

	next := state.Clone()
	next.Players = r.List()
	return next, id, nil
}

// StartGame opens round 1 for the roster. The first player to join rolls first.
func (c *Controller) StartGame(r *roster.Roster, settings models.Settings) (*models.GameState, error) {
	if r == nil || !r.CanStart() {
		return nil, ErrNotEnoughPlayers
	}
	if err := validate.Struct(settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return &models.GameState{
		Players:  r.List(),
		Round:    round.Start(1, r.Len(), 0),
		Settings: settings,
	}, nil
}

// Begin starts a table that was filled with Register, using its settings
func (c *Controller) Begin(state *models.GameState) (*models.GameState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if !state.Phase().IsSetup() {
		return state, ErrWrongPhase
	}

	r, err := c.roster(state)
	if err != nil {
		return state, err
	}
	next, err := c.StartGame(r, state.Settings)
	if err != nil {
		return state, err
	}
	return next, nil
}

// SubmitRoll records the current roller's dice sum or the doubles sentinel
func (c *Controller) SubmitRoll(state *models.GameState, roll models.Roll) (*models.GameState, error) {
	if err := checkPlaying(state); err != nil {
		return state, err
	}

	rnd, err := round.Record(state.Round, roll, state.Settings.Policy)
	if err != nil {
		return state, err
	}

	next := state.Clone()
	next.Round = rnd
	c.checkGameOver(next)
	return next, nil
}

// SubmitBank banks the current roller's share of the pot
func (c *Controller) SubmitBank(state *models.GameState) (*models.GameState, error) {
	if err := checkPlaying(state); err != nil {
		return state, err
	}

	rnd, paid, err := round.Bank(state.Round)
	if err != nil {
		return state, err
	}

	next := state.Clone()
	next.Round = rnd
	for _, p := range paid {
		next.Players[p.Seat].Score += p.Amount
	}
	c.checkGameOver(next)
	return next, nil
}

// AdvanceRound opens the next round after a bust or a completed round. In
// any other phase, or once the game is over, it returns an unchanged copy.
func (c *Controller) AdvanceRound(state *models.GameState) *models.GameState {
	next, err := c.AdvanceRoundStrict(state)
	if err != nil {
		return state.Clone()
	}
	return next
}

// AdvanceRoundStrict is AdvanceRound, reporting ErrWrongPhase instead of
// doing nothing
func (c *Controller) AdvanceRoundStrict(state *models.GameState) (*models.GameState, error) {
	if err := checkPlaying(state); err != nil {
		return state, err
	}

	rnd, err := round.Next(state.Round)
	if err != nil {
		return state, err
	}

	next := state.Clone()
	next.Round = rnd
	return next, nil
}

func (c *Controller) roster(state *models.GameState) (*roster.Roster, error) {
	return roster.FromPlayers(&roster.Config{IDs: c.ids}, state.Players)
}

// checkGameOver ends the game once a score reaches the target, or when the
// last allowed round has ended
func (c *Controller) checkGameOver(state *models.GameState) {
	settings := state.Settings

	over := false
	if settings.TargetScore > 0 {
		for _, p := range state.Players {
			if p.Score >= settings.TargetScore {
				over = true
				break
			}
		}
	}
	if settings.MaxRounds > 0 && state.Round.Phase.IsTerminal() && state.Round.Number >= settings.MaxRounds {
		over = true
	}
	if !over {
		return
	}

	state.GameOver = true
	state.Winners = winners(state.Players)
}

func checkPlaying(state *models.GameState) error {
	if state == nil {
		return ErrNilState
	}
	if state.GameOver || state.Phase().IsSetup() {
		return ErrWrongPhase
	}
	return nil
}

// winners returns every player sharing the top score, in turn order
func winners(players []models.Player) []models.PlayerID {
	var best uint
	for _, p := range players {
		if p.Score > best {
			best = p.Score
		}
	}

	var ids []models.PlayerID
	for _, p := range players {
		if p.Score == best {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
