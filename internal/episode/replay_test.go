package episode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentprog/internal/agent"
	"agentprog/internal/model"
)

func testReplayer() *Replayer {
	clock := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	r := NewReplayer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	r.NewID = func() string { return "episode-1" }
	return r
}

func weatherProgram(t *testing.T) agent.Program[string, string] {
	t.Helper()
	table := agent.NewTable[string, string]()
	require.NoError(t, table.Insert([]string{"sunny"}, "open"))
	require.NoError(t, table.Insert([]string{"sunny", "rainy"}, "close"))
	program, err := agent.NewTableDriven(table)
	require.NoError(t, err)
	return program
}

func TestReplayCompleted(t *testing.T) {
	record, err := testReplayer().Replay(context.Background(), "weather", weatherProgram(t), []string{"sunny", "rainy"})
	require.NoError(t, err)
	assert.Equal(t, "episode-1", record.ID)
	assert.Equal(t, model.OutcomeCompleted, record.Outcome)
	assert.Equal(t, []string{"open", "close"}, record.Actions)
	assert.Equal(t, -1, record.FailedStep)
	assert.True(t, record.FinishedAt.After(record.StartedAt))
}

func TestReplayStopsAtMissingHistory(t *testing.T) {
	record, err := testReplayer().Replay(context.Background(), "weather", weatherProgram(t), []string{"sunny", "sunny", "rainy"})
	require.ErrorIs(t, err, agent.ErrNotFound)
	assert.Equal(t, model.OutcomeNotFound, record.Outcome)
	assert.Equal(t, 1, record.FailedStep)
	assert.Equal(t, []string{"sunny", "sunny"}, record.Percepts, "percepts after the failure are not delivered")
	assert.Equal(t, []string{"open"}, record.Actions)
	assert.NotEmpty(t, record.Error)
}

func TestReplayRecordsOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	program := agent.ProgramFunc[string, string](func(string) (string, error) { return "", boom })

	record, err := testReplayer().Replay(context.Background(), "f", program, []string{"x"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, model.OutcomeError, record.Outcome)
	assert.Equal(t, 0, record.FailedStep)
}

func TestReplayHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := testReplayer().Replay(ctx, "weather", weatherProgram(t), []string{"sunny"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.OutcomeError, record.Outcome)
	assert.Empty(t, record.Percepts)
}

func TestReplayDefaultIDsAreUnique(t *testing.T) {
	r := NewReplayer(nil)
	reflex, err := agent.NewReflex[string, string, string](agent.Identity[string], func(s string) string { return s })
	require.NoError(t, err)

	a, err := r.Replay(context.Background(), "echo", reflex, []string{"x"})
	require.NoError(t, err)
	b, err := r.Replay(context.Background(), "echo", reflex, []string{"x"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
