package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

const (
	KindTable  = "table"
	KindReflex = "reflex"
)

// TableRecord is a stored agent program definition: either a lookup table of
// percept histories or a reflex rule set.
type TableRecord struct {
	VersionedRecord
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Percepts []string     `json:"percepts,omitempty"`
	Entries  []TableEntry `json:"entries,omitempty"`
	Rules    []ReflexRule `json:"rules,omitempty"`
	Default  string       `json:"default,omitempty"`
	Created  time.Time    `json:"created"`
}

type TableEntry struct {
	History []string `json:"history"`
	Action  string   `json:"action"`
}

type ReflexRule struct {
	When string `json:"when"`
	Do   string `json:"do"`
}

const (
	OutcomeCompleted = "completed"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// EpisodeRecord is one replay of a percept sequence through a stored program.
type EpisodeRecord struct {
	VersionedRecord
	ID         string    `json:"id"`
	Table      string    `json:"table"`
	Percepts   []string  `json:"percepts"`
	Actions    []string  `json:"actions"`
	Outcome    string    `json:"outcome"`
	FailedStep int       `json:"failed_step"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
