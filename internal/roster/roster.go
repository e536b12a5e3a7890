// Package roster owns the set of players registered before a game starts.
package roster

import (
	"strings"

	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/models"
)

// Config holds the roster's collaborators
type Config struct {
	// IDs hands out player identifiers. Defaults to random UUIDs.
	IDs uuid.Generator
}

// Roster is the ordered list of players; join order is turn order.
// Names are unique, compared case-sensitively.
type Roster struct {
	ids     uuid.Generator
	players []models.Player
	names   map[string]struct{}
}

// New creates an empty roster
func New(cfg *Config) *Roster {
	var ids uuid.Generator = uuid.New()
	if cfg != nil && cfg.IDs != nil {
		ids = cfg.IDs
	}

	return &Roster{
		ids:   ids,
		names: make(map[string]struct{}),
	}
}

// FromPlayers rebuilds a roster around players that were registered earlier
func FromPlayers(cfg *Config, players []models.Player) (*Roster, error) {
	r := New(cfg)
	for _, p := range players {
		if _, taken := r.names[p.Name]; taken {
			return nil, ErrDuplicatePlayers
		}
		r.names[p.Name] = struct{}{}
		r.players = append(r.players, p)
	}
	return r, nil
}

// Register adds a player with a score of zero. Empty or whitespace-only
// names and exact duplicates are rejected and leave the roster unchanged.
func (r *Roster) Register(name string) (models.PlayerID, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	if r.Contains(name) {
		return "", ErrDuplicateName
	}

	id := models.PlayerID(r.ids.NewID())
	r.players = append(r.players, models.Player{
		ID:   id,
		Name: name,
	})
	r.names[name] = struct{}{}

	return id, nil
}

// List returns a copy of the players in join order
func (r *Roster) List() []models.Player {
	return append([]models.Player(nil), r.players...)
}

// Contains reports whether the exact name is already registered
func (r *Roster) Contains(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Len returns the number of registered players
func (r *Roster) Len() int {
	return len(r.players)
}

// CanStart returns true once enough players have joined
func (r *Roster) CanStart() bool {
	return len(r.players) >= models.MinPlayers
}
