package agent

import (
	"errors"
	"log/slog"
	"time"
)

// Recorder receives per-step measurements from an instrumented program.
type Recorder interface {
	ObserveStep(program string, duration time.Duration, err error)
	SetHistoryLength(program string, length int)
}

// Instrument wraps program so that every Run is measured and logged. Results
// pass through unchanged. recorder and logger may be nil.
func Instrument[P, A any](name string, program Program[P, A], recorder Recorder, logger *slog.Logger) Program[P, A] {
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumented[P, A]{
		name:     name,
		program:  program,
		recorder: recorder,
		logger:   logger.With("program", name),
	}
}

type instrumented[P, A any] struct {
	name     string
	program  Program[P, A]
	recorder Recorder
	logger   *slog.Logger
}

func (i *instrumented[P, A]) Run(percept P) (A, error) {
	start := time.Now()
	action, err := i.program.Run(percept)
	elapsed := time.Since(start)

	if i.recorder != nil {
		i.recorder.ObserveStep(i.name, elapsed, err)
		if h, ok := i.program.(interface{ Len() int }); ok {
			i.recorder.SetHistoryLength(i.name, h.Len())
		}
	}

	var lookupErr *LookupError
	switch {
	case errors.As(err, &lookupErr):
		i.logger.Warn("agent step: history not in table", "percept", percept, "history_length", lookupErr.HistoryLength)
	case err != nil:
		i.logger.Error("agent step failed", "percept", percept, "error", err)
	default:
		i.logger.Debug("agent step", "percept", percept, "action", action, "elapsed", elapsed)
	}
	return action, err
}
