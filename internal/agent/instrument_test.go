package agent

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	steps   int
	errors  int
	lengths []int
}

func (r *fakeRecorder) ObserveStep(_ string, _ time.Duration, err error) {
	r.steps++
	if err != nil {
		r.errors++
	}
}

func (r *fakeRecorder) SetHistoryLength(_ string, length int) {
	r.lengths = append(r.lengths, length)
}

func TestInstrumentPassesResultsThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	recorder := &fakeRecorder{}

	inner, err := NewTableDriven(weatherTable(t))
	require.NoError(t, err)
	program := Instrument[testWeather, testWindow]("weather", inner, recorder, logger)

	action, err := program.Run(sunny)
	require.NoError(t, err)
	assert.Equal(t, windowOpen, action)

	_, err = program.Run(sunny)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, recorder.steps)
	assert.Equal(t, 1, recorder.errors)
	assert.Equal(t, []int{1, 2}, recorder.lengths)
	assert.Contains(t, buf.String(), "history not in table")
	assert.Contains(t, buf.String(), "program=weather")
}

func TestInstrumentWithoutRecorderOrLogger(t *testing.T) {
	reflex, err := NewReflex[testWeather, testWeather, testWindow](Identity[testWeather], weatherRules())
	require.NoError(t, err)
	program := Instrument[testWeather, testWindow]("reflex", reflex, nil, nil)

	action, err := program.Run(rainy)
	require.NoError(t, err)
	assert.Equal(t, windowClose, action)
}
