package models

// DoublesWindow controls when the doubles sentinel is accepted
type DoublesWindow string

const (
	// DoublesOpening accepts doubles only during the safe opening rolls
	DoublesOpening DoublesWindow = "opening"

	// DoublesAfterOpening accepts doubles only once the safe rolls are over
	DoublesAfterOpening DoublesWindow = "after_opening"

	// DoublesAnytime accepts doubles on every roll
	DoublesAnytime DoublesWindow = "anytime"
)

const (
	PolicyDefault = "default"
	PolicyClassic = "classic"
)

// Policy holds the scoring thresholds a round is evaluated against
type Policy struct {
	// SafeRolls is how many opening rolls of a round cannot bust
	SafeRolls int `validate:"gte=0,lte=20"`

	// BustValue is the sum that ends the round once the safe rolls are over
	BustValue int `validate:"gte=2,lte=12"`

	// SafeBustBonus is added instead of the face value when the bust value
	// comes up during the safe rolls. Zero adds the face value.
	SafeBustBonus uint `validate:"lte=1000"`

	// Doubles is when the doubles sentinel is accepted
	Doubles DoublesWindow `validate:"oneof=opening after_opening anytime"`

	// DoublesMultiplier is what the pot is multiplied by on doubles
	DoublesMultiplier uint `validate:"gte=1,lte=10"`
}

// DefaultPolicy returns the rules used when nothing else is configured:
// two safe rolls, 7 busts from the third roll, doubles double the pot.
func DefaultPolicy() Policy {
	return Policy{
		SafeRolls:         2,
		BustValue:         7,
		Doubles:           DoublesAnytime,
		DoublesMultiplier: 2,
	}
}

// ClassicPolicy returns the table rules of the printed game: a 7 is worth
// 70 during the first three rolls and doubles only count after them.
func ClassicPolicy() Policy {
	return Policy{
		SafeRolls:         3,
		BustValue:         7,
		SafeBustBonus:     70,
		Doubles:           DoublesAfterOpening,
		DoublesMultiplier: 2,
	}
}

// PolicyByName looks up a preset by its configuration name
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", PolicyDefault:
		return DefaultPolicy(), true
	case PolicyClassic:
		return ClassicPolicy(), true
	default:
		return Policy{}, false
	}
}

// IsSafe returns true if the given 1-based roll number cannot bust
func (p Policy) IsSafe(rollNumber int) bool {
	return rollNumber <= p.SafeRolls
}

// DoublesAllowed returns true if doubles may be submitted as the given
// 1-based roll number of a round
func (p Policy) DoublesAllowed(rollNumber int) bool {
	switch p.Doubles {
	case DoublesAnytime:
		return true
	case DoublesOpening:
		return p.IsSafe(rollNumber)
	case DoublesAfterOpening:
		return !p.IsSafe(rollNumber)
	default:
		return false
	}
}
