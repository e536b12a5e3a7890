package models

import "strconv"

const (
	// MinRollValue is the lowest sum two dice can show
	MinRollValue = 2

	// MaxRollValue is the highest sum two dice can show
	MaxRollValue = 12
)

// Roll is a single keypad entry: either a dice sum or the doubles sentinel
type Roll struct {
	// Value is the dice sum, 2 through 12. Zero for the doubles sentinel.
	Value int

	// Doubles marks the "Doubles!" control
	Doubles bool
}

// DoublesRoll is what the "Doubles!" control submits
var DoublesRoll = Roll{Doubles: true}

// Sum returns the roll for a numeric keypad button
func Sum(value int) Roll {
	return Roll{Value: value}
}

// Valid reports whether the roll is an in-range sum or the bare doubles sentinel
func (r Roll) Valid() bool {
	if r.Doubles {
		return r.Value == 0
	}
	return r.Value >= MinRollValue && r.Value <= MaxRollValue
}

func (r Roll) String() string {
	if r.Doubles {
		return "doubles"
	}
	return strconv.Itoa(r.Value)
}
