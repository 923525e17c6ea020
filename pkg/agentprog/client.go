package agentprog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"agentprog/internal/agent"
	"agentprog/internal/episode"
	"agentprog/internal/metrics"
	"agentprog/internal/model"
	"agentprog/internal/storage"
	"agentprog/internal/symbol"
	"agentprog/internal/tablefile"
)

const (
	defaultDBPath     = "agentprog.db"
	DefaultMaxEntries = 1 << 16
)

var ErrUnknownTable = errors.New("unknown table")

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *slog.Logger
	// Registerer receives the agent metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

type Client struct {
	store    storage.Store
	logger   *slog.Logger
	recorder agent.Recorder
	replayer *episode.Replayer
	now      func() time.Time
}

type TableSummary struct {
	Name     string
	Kind     string
	Percepts []string
	Entries  int
	Rules    int
	Default  string
	Created  time.Time
}

type BuildRequest struct {
	Name     string
	Percepts []string
	Lifetime int
	// Action is the action of every entry. Ignored when FromRules is set.
	Action string
	// FromRules names a stored reflex document; each entry gets the reflex
	// action for the last percept of its history. Without Percepts the rule
	// document's alphabet is used.
	FromRules  string
	MaxEntries uint64
}

type RunRequest struct {
	Table    string
	Percepts []string
}

type RunSummary struct {
	EpisodeID  string
	Table      string
	Actions    []string
	Outcome    string
	FailedStep int
}

type EpisodeItem struct {
	ID         string
	Table      string
	Percepts   []string
	Actions    []string
	Outcome    string
	FailedStep int
	Error      string
	StartedAt  time.Time
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	var recorder agent.Recorder
	if opts.Registerer != nil {
		recorder, err = metrics.NewPrometheusRecorder(opts.Registerer)
		if err != nil {
			_ = storage.CloseIfSupported(store)
			return nil, err
		}
	}

	return &Client{
		store:    store,
		logger:   logger,
		recorder: recorder,
		replayer: episode.NewReplayer(logger),
		now:      time.Now,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// ImportTable validates the YAML document at path and stores it under its
// name, replacing any previous definition.
func (c *Client) ImportTable(ctx context.Context, path string) (TableSummary, error) {
	doc, err := tablefile.Load(path)
	if err != nil {
		return TableSummary{}, err
	}
	return c.saveDocument(ctx, doc)
}

func (c *Client) saveDocument(ctx context.Context, doc tablefile.Document) (TableSummary, error) {
	if err := doc.Validate(); err != nil {
		return TableSummary{}, err
	}
	record := doc.Record(c.now())
	if err := c.store.SaveTable(ctx, record); err != nil {
		return TableSummary{}, err
	}
	c.logger.Info("table stored", "table", record.Name, "kind", record.Kind, "entries", len(record.Entries), "rules", len(record.Rules))
	return summarize(record), nil
}

func (c *Client) Table(ctx context.Context, name string) (TableSummary, error) {
	record, err := c.tableRecord(ctx, name)
	if err != nil {
		return TableSummary{}, err
	}
	return summarize(record), nil
}

// ExportTable returns the stored definition as a YAML document.
func (c *Client) ExportTable(ctx context.Context, name string) ([]byte, error) {
	record, err := c.tableRecord(ctx, name)
	if err != nil {
		return nil, err
	}
	return tablefile.FromRecord(record).Marshal()
}

func (c *Client) Tables(ctx context.Context) ([]TableSummary, error) {
	records, err := c.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TableSummary, 0, len(records))
	for _, record := range records {
		out = append(out, summarize(record))
	}
	return out, nil
}

func (c *Client) DeleteTable(ctx context.Context, name string) error {
	return c.store.DeleteTable(ctx, name)
}

// BuildTable enumerates a complete table for a finite lifetime and stores
// it. The table size is checked against MaxEntries before anything is built.
func (c *Client) BuildTable(ctx context.Context, req BuildRequest) (TableSummary, error) {
	if req.Name == "" {
		return TableSummary{}, errors.New("table name is required")
	}
	if req.MaxEntries == 0 {
		req.MaxEntries = DefaultMaxEntries
	}
	percepts := symbol.NormalizeAll(req.Percepts)

	var policy func([]string) string
	switch {
	case req.FromRules != "":
		record, err := c.tableRecord(ctx, req.FromRules)
		if err != nil {
			return TableSummary{}, err
		}
		rules := tablefile.FromRecord(record)
		match, err := rules.MatchFn()
		if err != nil {
			return TableSummary{}, err
		}
		if len(percepts) == 0 {
			percepts = rules.Alphabet()
		}
		policy = func(history []string) string {
			return match(history[len(history)-1])
		}
	case symbol.Normalize(req.Action) != "":
		action := symbol.Normalize(req.Action)
		policy = func([]string) string { return action }
	default:
		return TableSummary{}, errors.New("an action or a rule set is required")
	}

	table, err := agent.BuildTable(percepts, req.Lifetime, policy, req.MaxEntries)
	if err != nil {
		return TableSummary{}, err
	}
	return c.saveDocument(ctx, tablefile.FromTable(req.Name, percepts, table))
}

// Run replays req.Percepts through a fresh program built from the stored
// table and stores the episode. A percept history missing from the table
// stops the replay; the returned error then matches ErrNotFound and the
// summary still describes the stored episode.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	record, err := c.tableRecord(ctx, req.Table)
	if err != nil {
		return RunSummary{}, err
	}
	program, err := tablefile.FromRecord(record).Program()
	if err != nil {
		return RunSummary{}, err
	}
	program = agent.Instrument(record.Name, program, c.recorder, c.logger)

	ep, runErr := c.replayer.Replay(ctx, record.Name, program, symbol.NormalizeAll(req.Percepts))
	if err := c.store.SaveEpisode(ctx, ep); err != nil {
		return RunSummary{}, fmt.Errorf("save episode %s: %w", ep.ID, err)
	}
	return RunSummary{
		EpisodeID:  ep.ID,
		Table:      ep.Table,
		Actions:    append([]string(nil), ep.Actions...),
		Outcome:    ep.Outcome,
		FailedStep: ep.FailedStep,
	}, runErr
}

func (c *Client) Episodes(ctx context.Context, table string) ([]EpisodeItem, error) {
	records, err := c.store.ListEpisodes(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]EpisodeItem, 0, len(records))
	for _, record := range records {
		out = append(out, episodeItem(record))
	}
	return out, nil
}

func (c *Client) Episode(ctx context.Context, id string) (EpisodeItem, bool, error) {
	record, ok, err := c.store.GetEpisode(ctx, id)
	if err != nil || !ok {
		return EpisodeItem{}, ok, err
	}
	return episodeItem(record), true, nil
}

func (c *Client) tableRecord(ctx context.Context, name string) (model.TableRecord, error) {
	record, ok, err := c.store.GetTable(ctx, name)
	if err != nil {
		return model.TableRecord{}, err
	}
	if !ok {
		return model.TableRecord{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return record, nil
}

func summarize(record model.TableRecord) TableSummary {
	return TableSummary{
		Name:     record.Name,
		Kind:     record.Kind,
		Percepts: tablefile.FromRecord(record).Alphabet(),
		Entries:  len(record.Entries),
		Rules:    len(record.Rules),
		Default:  record.Default,
		Created:  record.Created,
	}
}

func episodeItem(record model.EpisodeRecord) EpisodeItem {
	return EpisodeItem{
		ID:         record.ID,
		Table:      record.Table,
		Percepts:   append([]string(nil), record.Percepts...),
		Actions:    append([]string(nil), record.Actions...),
		Outcome:    record.Outcome,
		FailedStep: record.FailedStep,
		Error:      record.Error,
		StartedAt:  record.StartedAt,
	}
}
