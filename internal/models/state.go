package models

import (
	"fmt"
	"strings"
)

// GameState is the snapshot handed to the presentation layer after every call.
// A snapshot is never modified once returned; transitions produce a new one.
type GameState struct {
	// Players is the roster in join order, which is also turn order
	Players []Player

	// Round is the round currently in play
	Round Round

	// Settings are the target score, round limit and rules for this game
	Settings Settings

	// GameOver is set once an ending condition is met
	GameOver bool

	// Winners holds the top scorers once the game is over
	Winners []PlayerID
}

// Clone returns a deep copy of the state
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := *g
	if g.Players != nil {
		out.Players = append([]Player(nil), g.Players...)
	}
	if g.Winners != nil {
		out.Winners = append([]PlayerID(nil), g.Winners...)
	}
	out.Round = g.Round.Clone()
	return &out
}

// Phase returns the round phase
func (g *GameState) Phase() Phase {
	return g.Round.Phase
}

// CurrentPlayer returns the player whose turn it is
func (g *GameState) CurrentPlayer() (Player, bool) {
	if g.Round.Phase.IsSetup() {
		return Player{}, false
	}
	seat := g.Round.CurrentRoller
	if seat < 0 || seat >= len(g.Players) {
		return Player{}, false
	}
	return g.Players[seat], true
}

// ActivePlayers returns the players still in the current round, in turn order
func (g *GameState) ActivePlayers() []Player {
	players := make([]Player, 0, len(g.Players))
	for i, p := range g.Players {
		if g.Round.IsActive(i) {
			players = append(players, p)
		}
	}
	return players
}

// Player looks up a player by ID
func (g *GameState) Player(id PlayerID) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// String dumps the state for debugging
func (g *GameState) String() string {
	var b strings.Builder
	if g.GameOver {
		b.WriteString("game over\n")
	} else {
		fmt.Fprintf(&b, "round %d (%s), pot %d\n", g.Round.Number, g.Round.Phase, g.Round.Pot)
	}
	for i, p := range g.Players {
		marker := " "
		if !g.GameOver && !g.Round.Phase.IsSetup() && i == g.Round.CurrentRoller {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s: %d", marker, p.Name, p.Score)
		if !g.Round.Phase.IsSetup() && !g.Round.IsActive(i) {
			b.WriteString(" (banked)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
