package dice

import (
	"testing"

	"github.com/sotrh/bank/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRollStaysInRange(t *testing.T) {
	r := New(&Config{Seed: 42})
	for i := 0; i < 500; i++ {
		v := r.Roll(6)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
	assert.LessOrEqual(t, r.Roll(0), 6)
}

func TestSeededRollerIsRepeatable(t *testing.T) {
	a := New(&Config{Seed: 7})
	b := New(&Config{Seed: 7})
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Throw(), b.Throw())
	}
}

func TestToRoll(t *testing.T) {
	classic := models.ClassicPolicy()

	tests := []struct {
		name       string
		throw      Throw
		policy     models.Policy
		rollNumber int
		want       models.Roll
	}{
		{"plain sum", Throw{2, 5}, models.DefaultPolicy(), 1, models.Sum(7)},
		{"pair counts as doubles", Throw{3, 3}, models.DefaultPolicy(), 4, models.DoublesRoll},
		{"pair during classic opening is a sum", Throw{3, 3}, classic, 2, models.Sum(6)},
		{"pair after classic opening is doubles", Throw{3, 3}, classic, 4, models.DoublesRoll},
		{"snake eyes", Throw{1, 1}, classic, 1, models.Sum(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRoll(tt.throw, tt.policy, tt.rollNumber)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestRollForAlwaysProducesValidRolls(t *testing.T) {
	r := New(&Config{Seed: 99})
	for n := 1; n <= 200; n++ {
		roll, throw := r.RollFor(models.ClassicPolicy(), n%6+1)
		assert.True(t, roll.Valid(), "throw %+v gave %v", throw, roll)
		if !roll.Doubles {
			assert.Equal(t, throw.Sum(), roll.Value)
		}
	}
}
