package storage

import (
	"context"

	"agentprog/internal/model"
)

// Store defines persistence operations for agent program definitions and the
// episodes replayed through them.
type Store interface {
	Init(ctx context.Context) error
	SaveTable(ctx context.Context, table model.TableRecord) error
	GetTable(ctx context.Context, name string) (model.TableRecord, bool, error)
	ListTables(ctx context.Context) ([]model.TableRecord, error)
	DeleteTable(ctx context.Context, name string) error
	SaveEpisode(ctx context.Context, episode model.EpisodeRecord) error
	GetEpisode(ctx context.Context, id string) (model.EpisodeRecord, bool, error)
	ListEpisodes(ctx context.Context, table string) ([]model.EpisodeRecord, error)
}
