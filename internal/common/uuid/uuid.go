package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/sotrh/bank/internal/common/uuid Generator

// Generator hands out identifiers for games, players and round records
type Generator interface {
	NewID() string
}

// Random implements Generator with random (v4) UUIDs
type Random struct{}

// New returns a random UUID generator
func New() *Random {
	return &Random{}
}

// NewID returns a new UUID string
func (r *Random) NewID() string {
	return uuid.New().String()
}

// Sequence hands out prefix-1, prefix-2, ... so replays of the same
// registrations produce the same IDs. Not safe for concurrent use.
type Sequence struct {
	prefix string
	next   int
}

// NewSequence returns a counter-backed generator
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next ID in the sequence
func (s *Sequence) NewID() string {
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}
