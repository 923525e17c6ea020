package agent

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSizeGrowthLaw(t *testing.T) {
	cases := []struct {
		percepts int
		lifetime int
		want     int64
	}{
		{percepts: 2, lifetime: 1, want: 2},
		{percepts: 2, lifetime: 3, want: 14},
		{percepts: 3, lifetime: 2, want: 12},
		{percepts: 1, lifetime: 5, want: 5},
		{percepts: 10, lifetime: 3, want: 1110},
		{percepts: 0, lifetime: 3, want: 0},
		{percepts: 2, lifetime: 0, want: 0},
	}
	for _, tc := range cases {
		got := TableSize(tc.percepts, tc.lifetime)
		assert.Equal(t, 0, got.Cmp(big.NewInt(tc.want)), "percepts=%d lifetime=%d got=%s", tc.percepts, tc.lifetime, got)
	}
}

func TestTableSizeUint64Overflow(t *testing.T) {
	size, err := TableSizeUint64(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), size)

	_, err = TableSizeUint64(2, 64)
	require.ErrorIs(t, err, ErrTableSizeOverflow)
}

func TestBuildTableMatchesGrowthLaw(t *testing.T) {
	alphabet := []testWeather{sunny, rainy}
	table, err := BuildTable(alphabet, 3, func(history []testWeather) testWindow {
		if history[len(history)-1] == sunny {
			return windowOpen
		}
		return windowClose
	}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 14, table.Len())
	assert.Equal(t, 0, TableSize(len(alphabet), 3).Cmp(big.NewInt(int64(table.Len()))))

	agent, err := NewTableDriven(table)
	require.NoError(t, err)
	for _, percept := range []testWeather{rainy, sunny, sunny} {
		_, err := agent.Run(percept)
		require.NoError(t, err)
	}
	_, err = agent.Run(sunny)
	require.ErrorIs(t, err, ErrNotFound, "a fourth percept outlives the table")
}

func TestBuildTablePolicySeesFullHistory(t *testing.T) {
	table, err := BuildTable([]string{"a", "b"}, 2, func(history []string) int {
		return len(history)
	}, 100)
	require.NoError(t, err)

	action, ok := table.Lookup([]string{"b", "a"})
	require.True(t, ok)
	assert.Equal(t, 2, action)
	action, ok = table.Lookup([]string{"a"})
	require.True(t, ok)
	assert.Equal(t, 1, action)
}

func TestBuildTableRejectsUnboundedOrOversizedTables(t *testing.T) {
	policy := func([]int) int { return 0 }

	_, err := BuildTable([]int{1, 2}, 0, policy, 100)
	require.ErrorIs(t, err, ErrInvalidLifetime)

	_, err = BuildTable([]int{}, 2, policy, 100)
	require.ErrorIs(t, err, ErrEmptyAlphabet)

	_, err = BuildTable([]int{1, 1}, 2, policy, 100)
	require.ErrorIs(t, err, ErrDuplicatePercept)

	_, err = BuildTable([]int{1, 2}, 3, policy, 13)
	require.ErrorIs(t, err, ErrTableTooLarge)

	_, err = BuildTable([]int{1, 2}, 100, policy, ^uint64(0))
	require.ErrorIs(t, err, ErrTableTooLarge)

	_, err = BuildTable[int, int]([]int{1, 2}, 2, nil, 100)
	require.ErrorIs(t, err, ErrNilFunc)
}
