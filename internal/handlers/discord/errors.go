package discord

import (
	"errors"

	"github.com/sotrh/bank/internal/models"
	"github.com/sotrh/bank/internal/services/game"
	"github.com/sotrh/bank/internal/services/messaging"
)

// errorTypeFor maps an error to the message players see. The bool is false
// for errors players cannot act on, which the caller should log.
func errorTypeFor(err error, g *models.Game) (messaging.ErrorType, bool) {
	switch {
	case errors.Is(err, game.ErrNotInGame):
		return messaging.ErrorTypeNotInGame, true
	case errors.Is(err, game.ErrNotYourTurn):
		return messaging.ErrorTypeNotYourTurn, true
	case errors.Is(err, game.ErrGameNotFound):
		return messaging.ErrorTypeNoGame, true
	case errors.Is(err, game.ErrGameAlreadyExists):
		return messaging.ErrorTypeGameExists, true
	case errors.Is(err, game.ErrGameNotStarted):
		return messaging.ErrorTypeNotStarted, true
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return messaging.ErrorTypeNotEnoughPlayers, true
	case errors.Is(err, game.ErrDuplicateName):
		return messaging.ErrorTypeDuplicateName, true
	case errors.Is(err, game.ErrInvalidRoll):
		return messaging.ErrorTypeInvalidRoll, true
	case errors.Is(err, game.ErrWrongPhase):
		return wrongPhaseType(g), true
	default:
		return "", false
	}
}

// wrongPhaseType explains a rejected action from where the game stands
func wrongPhaseType(g *models.Game) messaging.ErrorType {
	if g == nil || g.State == nil {
		return ""
	}
	switch {
	case g.Status() == models.GameStatusCompleted:
		return messaging.ErrorTypeGameCompleted
	case g.Status() == models.GameStatusWaiting:
		return messaging.ErrorTypeNotStarted
	case g.State.Phase().IsTerminal():
		return messaging.ErrorTypeRoundOver
	default:
		return messaging.ErrorTypeGameActive
	}
}
