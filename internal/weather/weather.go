// Package weather holds the window-controller example: the agent perceives
// the weather outside and opens or closes a window.
package weather

import (
	"fmt"

	"agentprog/internal/agent"
	"agentprog/internal/symbol"
)

type Weather int

const (
	Sunny Weather = iota
	Rainy
)

// Percepts lists every Weather value.
var Percepts = []Weather{Sunny, Rainy}

func (w Weather) String() string {
	switch w {
	case Sunny:
		return "sunny"
	case Rainy:
		return "rainy"
	default:
		return fmt.Sprintf("weather(%d)", int(w))
	}
}

func ParseWeather(s string) (Weather, error) {
	switch symbol.Normalize(s) {
	case "sunny":
		return Sunny, nil
	case "rainy":
		return Rainy, nil
	default:
		return 0, fmt.Errorf("unknown weather: %q", s)
	}
}

type Window int

const (
	Open Window = iota
	Close
)

func (w Window) String() string {
	switch w {
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

func ParseWindow(s string) (Window, error) {
	switch symbol.Normalize(s) {
	case "open":
		return Open, nil
	case "close":
		return Close, nil
	default:
		return 0, fmt.Errorf("unknown window action: %q", s)
	}
}

// RuleMatch opens the window when it is sunny and closes it when it rains.
func RuleMatch(w Weather) Window {
	if w == Sunny {
		return Open
	}
	return Close
}

// ReflexProgram is the reflex window controller.
func ReflexProgram() *agent.Reflex[Weather, Weather, Window] {
	program, err := agent.NewReflex[Weather, Weather, Window](agent.Identity[Weather], RuleMatch)
	if err != nil {
		panic(err)
	}
	return program
}

// StartupTable is the single-step table: it covers the first percept only.
func StartupTable() *agent.Table[Weather, Window] {
	table := agent.NewTable[Weather, Window]()
	for _, w := range Percepts {
		_ = table.Insert([]Weather{w}, RuleMatch(w))
	}
	return table
}

// LifetimeTable covers every weather history up to lifetime percepts, acting
// on the latest percept. It fails once the table would exceed maxEntries.
func LifetimeTable(lifetime int, maxEntries uint64) (*agent.Table[Weather, Window], error) {
	return agent.BuildTable(Percepts, lifetime, func(history []Weather) Window {
		return RuleMatch(history[len(history)-1])
	}, maxEntries)
}
