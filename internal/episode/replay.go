// Package episode replays an explicit percept sequence through an agent
// program and records what happened.
package episode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"agentprog/internal/agent"
	"agentprog/internal/model"
	"agentprog/internal/storage"
)

// Replayer feeds percepts to a program one at a time, in order, and stops at
// the first failed step. Percepts after a failure are never delivered.
type Replayer struct {
	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

func NewReplayer(logger *slog.Logger) *Replayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		Now:    time.Now,
		NewID:  uuid.NewString,
		Logger: logger,
	}
}

// Replay runs percepts through program. The returned record is always
// populated; the error is the failing step's error, if any.
func (r *Replayer) Replay(ctx context.Context, table string, program agent.Program[string, string], percepts []string) (model.EpisodeRecord, error) {
	record := model.EpisodeRecord{
		VersionedRecord: storage.Versioned(),
		ID:              r.NewID(),
		Table:           table,
		Percepts:        make([]string, 0, len(percepts)),
		Actions:         make([]string, 0, len(percepts)),
		Outcome:         model.OutcomeCompleted,
		FailedStep:      -1,
		StartedAt:       r.Now().UTC(),
	}
	logger := r.Logger.With("episode", record.ID, "table", table)

	next := 0
	sensor := agent.SensorFunc[string](func(context.Context) (string, error) {
		percept := percepts[next]
		next++
		record.Percepts = append(record.Percepts, percept)
		return percept, nil
	})
	actuator := agent.ActuatorFunc[string](func(_ context.Context, action string) error {
		record.Actions = append(record.Actions, action)
		return nil
	})

	var runErr error
	for step := range percepts {
		if _, err := agent.Tick[string, string](ctx, sensor, program, actuator); err != nil {
			runErr = err
			record.FailedStep = step
			break
		}
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, agent.ErrNotFound):
		record.Outcome = model.OutcomeNotFound
		record.Error = runErr.Error()
	default:
		record.Outcome = model.OutcomeError
		record.Error = runErr.Error()
	}
	record.FinishedAt = r.Now().UTC()

	logger.Info("episode finished",
		"outcome", record.Outcome,
		"steps", len(record.Actions),
		"failed_step", record.FailedStep,
	)
	return record, runErr
}
