package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWeather int

const (
	sunny testWeather = iota
	rainy
)

type testWindow string

const (
	windowOpen  testWindow = "open"
	windowClose testWindow = "close"
)

func weatherTable(t *testing.T) *Table[testWeather, testWindow] {
	t.Helper()
	table := NewTable[testWeather, testWindow]()
	require.NoError(t, table.Insert([]testWeather{sunny}, windowOpen))
	require.NoError(t, table.Insert([]testWeather{rainy}, windowClose))
	return table
}

func TestTableDrivenRunLooksUpSinglePercept(t *testing.T) {
	agent, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)

	action, err := agent.Run(sunny)
	require.NoError(t, err)
	assert.Equal(t, windowOpen, action)
	assert.Equal(t, []testWeather{sunny}, agent.History())
}

func TestTableDrivenRunLooksUpWholeHistory(t *testing.T) {
	agent, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)

	_, err = agent.Run(sunny)
	require.NoError(t, err)

	action, err := agent.Run(rainy)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
	assert.Equal(t, testWindow(""), action, "missing history must not produce an action")

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, 2, lookupErr.HistoryLength)
	assert.Equal(t, []testWeather{sunny, rainy}, agent.History())
}

func TestTableDrivenRunMultiStepHistory(t *testing.T) {
	table := weatherTable(t)
	require.NoError(t, table.Insert([]testWeather{sunny, rainy}, windowClose))
	require.NoError(t, table.Insert([]testWeather{sunny, rainy, rainy}, windowClose))
	require.NoError(t, table.Insert([]testWeather{sunny, rainy, rainy, sunny}, windowOpen))

	agent, err := NewTableDriven(table)
	require.NoError(t, err)

	want := []testWindow{windowOpen, windowClose, windowClose, windowOpen}
	for i, percept := range []testWeather{sunny, rainy, rainy, sunny} {
		action, err := agent.Run(percept)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, want[i], action, "step %d", i)
	}
	assert.Equal(t, 4, agent.Len())
}

func TestTableDrivenMissKeepsGrowingHistory(t *testing.T) {
	agent, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)

	_, err = agent.Run(rainy)
	require.NoError(t, err)
	_, err = agent.Run(rainy)
	require.ErrorIs(t, err, ErrNotFound)

	// [rainy] is in the table, but the agent now holds three percepts.
	_, err = agent.Run(rainy)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, 3, lookupErr.HistoryLength)
}

func TestTableDrivenResetClearsHistory(t *testing.T) {
	agent, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)

	_, _ = agent.Run(sunny)
	_, _ = agent.Run(sunny)
	agent.Reset()
	assert.Equal(t, 0, agent.Len())

	action, err := agent.Run(rainy)
	require.NoError(t, err)
	assert.Equal(t, windowClose, action)
}

func TestTableDrivenHistoryReturnsCopy(t *testing.T) {
	agent, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)
	_, _ = agent.Run(sunny)

	history := agent.History()
	history[0] = rainy
	assert.Equal(t, []testWeather{sunny}, agent.History())
}

func TestNewTableDrivenRequiresTable(t *testing.T) {
	_, err := NewTableDriven[testWeather, testWindow](nil)
	require.ErrorIs(t, err, ErrNilTable)
}

func TestTableDrivenEmptyTableNeverDefaults(t *testing.T) {
	agent, err := NewTableDriven(NewTable[string, int]())
	require.NoError(t, err)

	action, err := agent.Run("anything")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, action)
}

func TestLookupErrorMessage(t *testing.T) {
	err := &LookupError{HistoryLength: 4}
	assert.Equal(t, "percept history not found in table: history length=4", err.Error())
}
