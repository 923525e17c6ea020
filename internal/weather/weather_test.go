package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentprog/internal/agent"
)

func TestStartupTableOpensOnSunnyDay(t *testing.T) {
	controller, err := agent.NewTableDriven(StartupTable())
	require.NoError(t, err)

	action, err := controller.Run(Sunny)
	require.NoError(t, err)
	assert.Equal(t, Open, action)

	_, err = controller.Run(Rainy)
	require.ErrorIs(t, err, agent.ErrNotFound)
}

func TestLifetimeTableSize(t *testing.T) {
	table, err := LifetimeTable(3, 100)
	require.NoError(t, err)
	assert.Equal(t, 2+4+8, table.Len())

	_, err = LifetimeTable(40, 1<<20)
	require.ErrorIs(t, err, agent.ErrTableTooLarge)
}

func TestLifetimeTableAgreesWithReflex(t *testing.T) {
	table, err := LifetimeTable(4, 100)
	require.NoError(t, err)
	controller, err := agent.NewTableDriven(table)
	require.NoError(t, err)
	reflex := ReflexProgram()

	for _, w := range []Weather{Rainy, Sunny, Sunny, Rainy} {
		fromTable, err := controller.Run(w)
		require.NoError(t, err)
		fromReflex, err := reflex.Run(w)
		require.NoError(t, err)
		assert.Equal(t, fromReflex, fromTable, "weather=%s", w)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, w := range Percepts {
		got, err := ParseWeather(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
	for _, w := range []Window{Open, Close} {
		got, err := ParseWindow(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err := ParseWeather("tornado")
	assert.Error(t, err)
	_, err = ParseWindow("ajar")
	assert.Error(t, err)
	assert.Equal(t, "weather(7)", Weather(7).String())
}
