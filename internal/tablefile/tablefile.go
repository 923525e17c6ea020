// Package tablefile reads agent program definitions from YAML documents.
//
// A document either lists percept histories with their actions (kind
// "table") or condition-action rules keyed by the current percept (kind
// "reflex"):
//
//	name: weather-window
//	kind: table
//	percepts: [sunny, rainy]
//	entries:
//	  - history: [sunny]
//	    action: open
//	  - history: [rainy]
//	    action: close
//
// Percept and action symbols are normalized with symbol.Normalize.
package tablefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"agentprog/internal/agent"
	"agentprog/internal/model"
	"agentprog/internal/storage"
	"agentprog/internal/symbol"
)

// DefaultAction is the reflex fallback used when a document sets none.
const DefaultAction = "noop"

var ErrInvalidDocument = errors.New("invalid table document")

type Document struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind,omitempty"`
	Percepts []string `yaml:"percepts,omitempty"`
	Entries  []Entry  `yaml:"entries,omitempty"`
	Rules    []Rule   `yaml:"rules,omitempty"`
	Default  string   `yaml:"default,omitempty"`
}

type Entry struct {
	History []string `yaml:"history"`
	Action  string   `yaml:"action"`
}

type Rule struct {
	When string `yaml:"when"`
	Do   string `yaml:"do"`
}

func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates one document. Unknown fields and input holding
// more than one YAML document are rejected.
func Parse(data []byte) (Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return Document{}, fmt.Errorf("%w: expected a single YAML document", ErrInvalidDocument)
		}
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.normalize()
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

func (d *Document) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Kind = symbol.Normalize(d.Kind)
	if d.Kind == "" {
		if len(d.Rules) > 0 && len(d.Entries) == 0 {
			d.Kind = model.KindReflex
		} else {
			d.Kind = model.KindTable
		}
	}
	d.Percepts = symbol.NormalizeAll(d.Percepts)
	for i := range d.Entries {
		d.Entries[i].History = symbol.NormalizeAll(d.Entries[i].History)
		d.Entries[i].Action = symbol.Normalize(d.Entries[i].Action)
	}
	for i := range d.Rules {
		d.Rules[i].When = symbol.Normalize(d.Rules[i].When)
		d.Rules[i].Do = symbol.Normalize(d.Rules[i].Do)
	}
	d.Default = symbol.Normalize(d.Default)
}

func (d Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDocument)
	}

	declared := make(map[string]struct{}, len(d.Percepts))
	for _, p := range d.Percepts {
		if p == "" {
			return fmt.Errorf("%w: empty percept in percepts", ErrInvalidDocument)
		}
		if _, dup := declared[p]; dup {
			return fmt.Errorf("%w: duplicate percept %q", ErrInvalidDocument, p)
		}
		declared[p] = struct{}{}
	}
	checkPercept := func(p string) error {
		if p == "" {
			return fmt.Errorf("%w: empty percept", ErrInvalidDocument)
		}
		if len(declared) == 0 {
			return nil
		}
		if _, ok := declared[p]; !ok {
			return fmt.Errorf("%w: undeclared percept %q", ErrInvalidDocument, p)
		}
		return nil
	}

	switch d.Kind {
	case model.KindTable:
		if len(d.Entries) == 0 {
			return fmt.Errorf("%w: table %s has no entries", ErrInvalidDocument, d.Name)
		}
		if len(d.Rules) > 0 {
			return fmt.Errorf("%w: table %s must not define rules", ErrInvalidDocument, d.Name)
		}
		seen := agent.NewTable[string, int]()
		for i, entry := range d.Entries {
			if len(entry.History) == 0 {
				return fmt.Errorf("%w: entry %d has an empty history", ErrInvalidDocument, i)
			}
			if entry.Action == "" {
				return fmt.Errorf("%w: entry %d has no action", ErrInvalidDocument, i)
			}
			for _, p := range entry.History {
				if err := checkPercept(p); err != nil {
					return fmt.Errorf("entry %d: %w", i, err)
				}
			}
			if prev, dup := seen.Lookup(entry.History); dup {
				return fmt.Errorf("%w: entries %d and %d share history %v", ErrInvalidDocument, prev, i, entry.History)
			}
			if err := seen.Insert(entry.History, i); err != nil {
				return fmt.Errorf("%w: entry %d: %v", ErrInvalidDocument, i, err)
			}
		}
	case model.KindReflex:
		if len(d.Rules) == 0 {
			return fmt.Errorf("%w: reflex %s has no rules", ErrInvalidDocument, d.Name)
		}
		if len(d.Entries) > 0 {
			return fmt.Errorf("%w: reflex %s must not define entries", ErrInvalidDocument, d.Name)
		}
		seen := make(map[string]int, len(d.Rules))
		for i, rule := range d.Rules {
			if err := checkPercept(rule.When); err != nil {
				return fmt.Errorf("rule %d: %w", i, err)
			}
			if rule.Do == "" {
				return fmt.Errorf("%w: rule %d has no action", ErrInvalidDocument, i)
			}
			if prev, dup := seen[rule.When]; dup {
				return fmt.Errorf("%w: rules %d and %d both match %q", ErrInvalidDocument, prev, i, rule.When)
			}
			seen[rule.When] = i
		}
	default:
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidDocument, d.Kind)
	}
	return nil
}

// Alphabet returns the declared percepts, or the sorted set of percepts the
// document mentions when none are declared.
func (d Document) Alphabet() []string {
	if len(d.Percepts) > 0 {
		return append([]string(nil), d.Percepts...)
	}
	set := make(map[string]struct{})
	for _, entry := range d.Entries {
		for _, p := range entry.History {
			set[p] = struct{}{}
		}
	}
	for _, rule := range d.Rules {
		set[rule.When] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Table builds the lookup table of a table document.
func (d Document) Table() (*agent.Table[string, string], error) {
	if d.Kind != model.KindTable {
		return nil, fmt.Errorf("%w: %s is a %s document", ErrInvalidDocument, d.Name, d.Kind)
	}
	table := agent.NewTable[string, string]()
	for _, entry := range d.Entries {
		if err := table.Insert(entry.History, entry.Action); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// MatchFn returns the rule matcher of a reflex document.
func (d Document) MatchFn() (agent.MatchFn[string, string], error) {
	if d.Kind != model.KindReflex {
		return nil, fmt.Errorf("%w: %s is a %s document", ErrInvalidDocument, d.Name, d.Kind)
	}
	rules := make([]agent.Rule[string, string], 0, len(d.Rules))
	for _, rule := range d.Rules {
		rules = append(rules, agent.Rule[string, string]{Condition: agent.Equals(rule.When), Action: rule.Do})
	}
	fallback := d.Default
	if fallback == "" {
		fallback = DefaultAction
	}
	return agent.MatchRules(rules, fallback), nil
}

// Reflex builds the reflex program of a reflex document. Percepts are
// normalized before rule matching.
func (d Document) Reflex() (*agent.Reflex[string, string, string], error) {
	match, err := d.MatchFn()
	if err != nil {
		return nil, err
	}
	return agent.NewReflex[string, string, string](symbol.Normalize, match)
}

// Program builds whichever agent program the document describes.
func (d Document) Program() (agent.Program[string, string], error) {
	switch d.Kind {
	case model.KindTable:
		table, err := d.Table()
		if err != nil {
			return nil, err
		}
		program, err := agent.NewTableDriven(table)
		if err != nil {
			return nil, err
		}
		return program, nil
	case model.KindReflex:
		program, err := d.Reflex()
		if err != nil {
			return nil, err
		}
		return program, nil
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrInvalidDocument, d.Kind)
	}
}

// Record converts the document into its stored form.
func (d Document) Record(now time.Time) model.TableRecord {
	record := model.TableRecord{
		VersionedRecord: storage.Versioned(),
		Name:            d.Name,
		Kind:            d.Kind,
		Percepts:        append([]string(nil), d.Percepts...),
		Default:         d.Default,
		Created:         now.UTC(),
	}
	for _, entry := range d.Entries {
		record.Entries = append(record.Entries, model.TableEntry{
			History: append([]string(nil), entry.History...),
			Action:  entry.Action,
		})
	}
	for _, rule := range d.Rules {
		record.Rules = append(record.Rules, model.ReflexRule{When: rule.When, Do: rule.Do})
	}
	return record
}

// FromRecord rebuilds a document from its stored form.
func FromRecord(record model.TableRecord) Document {
	doc := Document{
		Name:     record.Name,
		Kind:     record.Kind,
		Percepts: append([]string(nil), record.Percepts...),
		Default:  record.Default,
	}
	for _, entry := range record.Entries {
		doc.Entries = append(doc.Entries, Entry{History: append([]string(nil), entry.History...), Action: entry.Action})
	}
	for _, rule := range record.Rules {
		doc.Rules = append(doc.Rules, Rule{When: rule.When, Do: rule.Do})
	}
	return doc
}

// FromTable converts a string table into a table document with entries
// sorted by history.
func FromTable(name string, percepts []string, table *agent.Table[string, string]) Document {
	doc := Document{Name: name, Kind: model.KindTable, Percepts: append([]string(nil), percepts...)}
	for history, action := range table.All() {
		doc.Entries = append(doc.Entries, Entry{History: history, Action: action})
	}
	sort.Slice(doc.Entries, func(i, j int) bool {
		return lessHistory(doc.Entries[i].History, doc.Entries[j].History)
	})
	return doc
}

func lessHistory(a, b []string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
