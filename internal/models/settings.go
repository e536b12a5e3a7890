package models

const (
	// DefaultTargetScore is the winning score when none is configured
	DefaultTargetScore uint = 500

	// MinPlayers is the smallest roster a game can start with
	MinPlayers = 2
)

// Settings are supplied by the presentation layer when a game starts
type Settings struct {
	// TargetScore ends the game as soon as a player reaches it. Zero
	// disables the check, in which case MaxRounds must be set.
	TargetScore uint `validate:"required_without=MaxRounds"`

	// MaxRounds ends the game when that round finishes. Zero is unlimited.
	MaxRounds int `validate:"gte=0,lte=100"`

	// Policy is the rule set each roll is evaluated against
	Policy Policy
}

// DefaultSettings returns the default target score with the default policy
func DefaultSettings() Settings {
	return Settings{
		TargetScore: DefaultTargetScore,
		Policy:      DefaultPolicy(),
	}
}
