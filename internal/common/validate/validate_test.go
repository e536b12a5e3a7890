package validate

import (
	"testing"

	"github.com/sotrh/bank/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructAcceptsDefaults(t *testing.T) {
	require.NoError(t, Struct(models.DefaultSettings()))

	classic := models.DefaultSettings()
	classic.Policy = models.ClassicPolicy()
	classic.MaxRounds = 10
	require.NoError(t, Struct(classic))
}

func TestStructRejectsNoEndCondition(t *testing.T) {
	settings := models.DefaultSettings()
	settings.TargetScore = 0

	err := Struct(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TargetScore")

	settings.MaxRounds = 10
	assert.NoError(t, Struct(settings))
}

func TestStructRejectsBadPolicy(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Policy.BustValue = 13
	settings.Policy.Doubles = "sometimes"

	err := Struct(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Settings.Policy.BustValue")
	assert.Contains(t, err.Error(), "Settings.Policy.Doubles")
}
