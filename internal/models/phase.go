package models

// Phase is where the current round sits in its state machine
type Phase string

const (
	// PhaseSetup indicates the roster is still open and no round exists yet
	PhaseSetup Phase = "setup"

	// PhaseAwaitingRoll indicates the current roller has not acted yet
	PhaseAwaitingRoll Phase = "awaiting_roll"

	// PhaseBusted indicates the round ended on the bust value
	PhaseBusted Phase = "busted"

	// PhaseRoundComplete indicates all but one player banked out
	PhaseRoundComplete Phase = "round_complete"
)

// IsSetup returns true if the game has not started
func (p Phase) IsSetup() bool {
	return p == PhaseSetup
}

// IsAwaitingRoll returns true if the current roller may roll or bank
func (p Phase) IsAwaitingRoll() bool {
	return p == PhaseAwaitingRoll
}

// IsTerminal returns true if the round is over and must be advanced
func (p Phase) IsTerminal() bool {
	return p == PhaseBusted || p == PhaseRoundComplete
}

// Outcome describes what the most recent action did to the round
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeContinuing    Outcome = "continuing"
	OutcomeBanked        Outcome = "banked"
	OutcomeBusted        Outcome = "busted"
	OutcomeRoundComplete Outcome = "round_complete"
)
