// Package round is the state machine for a single round of Bank: the shared
// pot, the roll log, whose turn it is and who has banked.
//
// Every function takes a round by value and returns a new one; the input is
// left untouched, including when an error is returned.
package round

import (
	"fmt"

	"github.com/sotrh/bank/internal/models"
)

// Start returns a fresh round with every seat active and opener to roll
func Start(number, seats, opener int) models.Round {
	active := make([]bool, seats)
	for i := range active {
		active[i] = true
	}

	return models.Round{
		Number:        number,
		Opener:        opener,
		CurrentRoller: opener,
		Active:        active,
		Phase:         models.PhaseAwaitingRoll,
	}
}

// Record applies the current roller's roll and hands the turn on, unless
// the roll busts the round
func Record(r models.Round, roll models.Roll, policy models.Policy) (models.Round, error) {
	if !r.Phase.IsAwaitingRoll() {
		return r, ErrWrongPhase
	}
	if !roll.Valid() {
		if roll.Doubles {
			return r, fmt.Errorf("%w: doubles cannot carry a sum", ErrInvalidRoll)
		}
		return r, fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidRoll, roll.Value, models.MinRollValue, models.MaxRollValue)
	}

	n := r.RollCount() + 1
	if roll.Doubles && !policy.DoublesAllowed(n) {
		return r, fmt.Errorf("%w: doubles not allowed on roll %d", ErrInvalidRoll, n)
	}

	next := r.Clone()
	next.Rolls = append(next.Rolls, roll)

	switch {
	case roll.Doubles:
		next.Pot *= policy.DoublesMultiplier
	case roll.Value == policy.BustValue && !policy.IsSafe(n):
		next.Pot = 0
		next.Phase = models.PhaseBusted
		next.LastOutcome = models.OutcomeBusted
		return next, nil
	case roll.Value == policy.BustValue && policy.SafeBustBonus > 0:
		next.Pot += policy.SafeBustBonus
	default:
		next.Pot += uint(roll.Value)
	}

	next.CurrentRoller = nextActive(next, next.CurrentRoller)
	next.LastOutcome = models.OutcomeContinuing
	return next, nil
}

// Bank takes the current roller out of the round. The pot is left as it
// is for the players still rolling. When only one player is left they are
// paid the full pot and the round is complete.
//
// The returned payouts are the ones created by this call, in order.
func Bank(r models.Round) (models.Round, []models.Payout, error) {
	if !r.Phase.IsAwaitingRoll() || !r.IsActive(r.CurrentRoller) {
		return r, nil, ErrWrongPhase
	}

	next := r.Clone()
	seat := next.CurrentRoller
	next.Active[seat] = false
	paid := []models.Payout{{Seat: seat, Amount: next.Pot}}

	if next.ActiveCount() == 1 {
		last := nextActive(next, seat)
		paid = append(paid, models.Payout{Seat: last, Amount: next.Pot})
		next.CurrentRoller = last
		next.Phase = models.PhaseRoundComplete
		next.LastOutcome = models.OutcomeRoundComplete
	} else {
		next.CurrentRoller = nextActive(next, seat)
		next.LastOutcome = models.OutcomeBanked
	}

	next.Payouts = append(next.Payouts, paid...)
	return next, paid, nil
}

// Next opens the following round once the current one has ended. The
// opening roll moves one seat along each round.
func Next(r models.Round) (models.Round, error) {
	if !r.Phase.IsTerminal() {
		return r, ErrWrongPhase
	}

	seats := len(r.Active)
	if seats == 0 {
		return r, ErrWrongPhase
	}
	return Start(r.Number+1, seats, (r.Opener+1)%seats), nil
}

// nextActive returns the first active seat after from, wrapping. It returns
// from when no other seat is active.
func nextActive(r models.Round, from int) int {
	seats := len(r.Active)
	for i := 1; i <= seats; i++ {
		seat := (from + i) % seats
		if r.Active[seat] {
			return seat
		}
	}
	return from
}
