package models

// Payout is a share of the pot credited to a seat during a round
type Payout struct {
	// Seat is the player's index in the roster
	Seat int

	// Amount is the pot value at the moment the seat was paid
	Amount uint
}

// Round holds the shared pot and turn order for one round of play
type Round struct {
	// Number starts at 1 and grows by one each time a round is advanced
	Number int

	// Pot is the shared, not-yet-banked total
	Pot uint

	// Rolls is the roll log for this round, oldest first
	Rolls []Roll

	// Opener is the seat that rolled first this round
	Opener int

	// CurrentRoller is the seat whose turn it is
	CurrentRoller int

	// Active is parallel to the roster; false once a seat has banked
	Active []bool

	// Payouts lists every bank made this round, in order
	Payouts []Payout

	// Phase is the round's state machine position
	Phase Phase

	// LastOutcome is what the most recent roll or bank did
	LastOutcome Outcome
}

// Clone returns a deep copy of the round
func (r Round) Clone() Round {
	out := r
	if r.Rolls != nil {
		out.Rolls = append([]Roll(nil), r.Rolls...)
	}
	if r.Active != nil {
		out.Active = append([]bool(nil), r.Active...)
	}
	if r.Payouts != nil {
		out.Payouts = append([]Payout(nil), r.Payouts...)
	}
	return out
}

// ActiveCount returns how many seats have not banked this round
func (r Round) ActiveCount() int {
	n := 0
	for _, a := range r.Active {
		if a {
			n++
		}
	}
	return n
}

// IsActive returns true if the seat is still rolling this round
func (r Round) IsActive(seat int) bool {
	return seat >= 0 && seat < len(r.Active) && r.Active[seat]
}

// RollCount returns how many rolls have been recorded this round
func (r Round) RollCount() int {
	return len(r.Rolls)
}
