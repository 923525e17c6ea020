package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"agentprog/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	tables      map[string]model.TableRecord
	episodes    map[string]model.EpisodeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.tables = make(map[string]model.TableRecord)
	s.episodes = make(map[string]model.EpisodeRecord)
	return nil
}

func (s *MemoryStore) SaveTable(_ context.Context, table model.TableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.tables[table.Name] = copyTable(table)
	return nil
}

func (s *MemoryStore) GetTable(_ context.Context, name string) (model.TableRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.TableRecord{}, false, errNotInitialized
	}
	table, ok := s.tables[name]
	if !ok {
		return model.TableRecord{}, false, nil
	}
	return copyTable(table), true, nil
}

func (s *MemoryStore) ListTables(_ context.Context) ([]model.TableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	tables := make([]model.TableRecord, 0, len(s.tables))
	for _, table := range s.tables {
		tables = append(tables, copyTable(table))
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

func (s *MemoryStore) DeleteTable(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	delete(s.tables, name)
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, episode model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.episodes[episode.ID] = copyEpisode(episode)
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, id string) (model.EpisodeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.EpisodeRecord{}, false, errNotInitialized
	}
	episode, ok := s.episodes[id]
	if !ok {
		return model.EpisodeRecord{}, false, nil
	}
	return copyEpisode(episode), true, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, table string) ([]model.EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	episodes := make([]model.EpisodeRecord, 0)
	for _, episode := range s.episodes {
		if table != "" && episode.Table != table {
			continue
		}
		episodes = append(episodes, copyEpisode(episode))
	}
	sortEpisodes(episodes)
	return episodes, nil
}

func sortEpisodes(episodes []model.EpisodeRecord) {
	sort.Slice(episodes, func(i, j int) bool {
		if !episodes[i].StartedAt.Equal(episodes[j].StartedAt) {
			return episodes[i].StartedAt.Before(episodes[j].StartedAt)
		}
		return episodes[i].ID < episodes[j].ID
	})
}

func copyTable(table model.TableRecord) model.TableRecord {
	table.Percepts = append([]string(nil), table.Percepts...)
	if table.Entries != nil {
		entries := make([]model.TableEntry, len(table.Entries))
		for i, entry := range table.Entries {
			entries[i] = model.TableEntry{
				History: append([]string(nil), entry.History...),
				Action:  entry.Action,
			}
		}
		table.Entries = entries
	}
	table.Rules = append([]model.ReflexRule(nil), table.Rules...)
	return table
}

func copyEpisode(episode model.EpisodeRecord) model.EpisodeRecord {
	episode.Percepts = append([]string(nil), episode.Percepts...)
	episode.Actions = append([]string(nil), episode.Actions...)
	return episode
}
