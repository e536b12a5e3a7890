package round

// RoundError is returned when a transition is rejected
type RoundError string

// Error implements the error interface
func (e RoundError) Error() string {
	return string(e)
}

const (
	ErrInvalidRoll RoundError = "invalid roll"
	ErrWrongPhase  RoundError = "action not allowed in this phase"
)
