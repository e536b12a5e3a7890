package dice

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sotrh/bank/internal/models"
)

// Roller provides dice rolling functionality
type Roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// Throw is the result of rolling two six-sided dice
type Throw struct {
	First  int
	Second int
}

// Pair returns true if both dice show the same face
func (t Throw) Pair() bool {
	return t.First == t.Second
}

// Sum returns the total of both dice
func (t Throw) Sum() int {
	return t.First + t.Second
}

// New creates a new dice roller
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)
	random := rand.New(source)

	return &Roller{
		random: random,
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *Roller) Roll(sides int) int {
	if sides < 1 {
		sides = 6 // Default to 6-sided die
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(sides) + 1
}

// Throw rolls two six-sided dice
func (r *Roller) Throw() Throw {
	return Throw{First: r.Roll(6), Second: r.Roll(6)}
}

// RollFor throws two dice for the given roll number of a round (1-based) and
// reports what should be submitted. A pair becomes doubles only where the
// policy allows it; otherwise the face sum is used.
func (r *Roller) RollFor(policy models.Policy, rollNumber int) (models.Roll, Throw) {
	t := r.Throw()
	return ToRoll(t, policy, rollNumber), t
}

// ToRoll maps a throw to the roll the engine expects
func ToRoll(t Throw, policy models.Policy, rollNumber int) models.Roll {
	if t.Pair() && policy.DoublesAllowed(rollNumber) {
		return models.DoublesRoll
	}
	return models.Sum(t.Sum())
}
