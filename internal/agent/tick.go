package agent

import (
	"context"
	"fmt"
	"sync"
)

// Sensor supplies the next percept.
type Sensor[P any] interface {
	Read(ctx context.Context) (P, error)
}

// Actuator carries an action out.
type Actuator[A any] interface {
	Write(ctx context.Context, action A) error
}

// SensorFunc adapts an ordinary function to Sensor.
type SensorFunc[P any] func(ctx context.Context) (P, error)

func (f SensorFunc[P]) Read(ctx context.Context) (P, error) {
	return f(ctx)
}

// ActuatorFunc adapts an ordinary function to Actuator.
type ActuatorFunc[A any] func(ctx context.Context, action A) error

func (f ActuatorFunc[A]) Write(ctx context.Context, action A) error {
	return f(ctx, action)
}

// Tick performs one read, run, write step. The caller owns the loop; a failed
// Run leaves the actuator untouched.
func Tick[P, A any](ctx context.Context, sensor Sensor[P], program Program[P, A], actuator Actuator[A]) (A, error) {
	var zero A
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	percept, err := sensor.Read(ctx)
	if err != nil {
		return zero, fmt.Errorf("read percept: %w", err)
	}
	action, err := program.Run(percept)
	if err != nil {
		return zero, err
	}
	if actuator != nil {
		if err := actuator.Write(ctx, action); err != nil {
			return zero, fmt.Errorf("write action: %w", err)
		}
	}
	return action, nil
}

// Serialized guards program with a mutex so several goroutines can share one
// instance. Calls are applied one at a time in lock order.
func Serialized[P, A any](program Program[P, A]) Program[P, A] {
	return &serialized[P, A]{program: program}
}

type serialized[P, A any] struct {
	mu      sync.Mutex
	program Program[P, A]
}

func (s *serialized[P, A]) Run(percept P) (A, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program.Run(percept)
}
