package diag

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/quarto-dev/q2-sub016/source"
)

//go:embed data/autogen_table.json
var tableFS embed.FS

// ErrorEvent is what the scanner/lifter reports on a parse-recovery event:
// the parser state and lookahead symbol name the spec's grammar exposes,
// plus the source region the error anchors to. For this hand-written
// scanner, State names a construct-in-progress ("inline.emphasis.open")
// rather than a numeric LR state, and Symbol names the lookahead condition
// ("eof", "quote-char", ...) - the same (state, symbol) keying principle
// spec.md §4.6 describes for a tree-sitter-generated parser, adapted to a
// scanner that has no LR table of its own.
type ErrorEvent struct {
	State  string
	Symbol string
	Info   source.Info
	// Captures maps a recipe's requested capture labels to the resolved
	// region for this particular occurrence (e.g. "opening-marker" -> the
	// specific '_' that never closed).
	Captures map[string]source.Info
}

// Recipe is one compiled (state, symbol) -> diagnostic template entry.
type Recipe struct {
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	CaptureLabels  []string `json:"captures"`
}

type tableEntry struct {
	State   string `json:"state"`
	Symbol  string `json:"symbol"`
	Recipe
}

// Table is the compiled (state, symbol) -> Recipe map the diagnostic
// engine looks error events up in at runtime.
type Table struct {
	BuildID uuid.UUID
	entries map[string]map[string]Recipe
}

// Lookup finds the recipe for (state, symbol), if the table has one.
func (t *Table) Lookup(state, symbol string) (Recipe, bool) {
	if t == nil {
		return Recipe{}, false
	}
	m, ok := t.entries[state]
	if !ok {
		return Recipe{}, false
	}
	r, ok := m[symbol]
	return r, ok
}

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// DefaultTable returns the process-wide table compiled into this binary
// from _autogen-table.json (spec.md §6). It is read-only and safe to share
// across concurrent parses.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		t, err := loadTable(tableFS, "data/autogen_table.json")
		if err != nil {
			t = &Table{entries: map[string]map[string]Recipe{}}
		}
		defaultTable = t
	})
	return defaultTable
}

func loadTable(fsys embed.FS, path string) (*Table, error) {
	b, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTable(b)
}

// ParseTable decodes a _autogen-table.json payload, used both for the
// embedded default and by errtable.Build's freshly compiled output.
func ParseTable(b []byte) (*Table, error) {
	var doc struct {
		BuildID string       `json:"build_id"`
		Entries []tableEntry `json:"entries"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	t := &Table{entries: map[string]map[string]Recipe{}}
	if id, err := uuid.Parse(doc.BuildID); err == nil {
		t.BuildID = id
	}
	for _, e := range doc.Entries {
		if t.entries[e.State] == nil {
			t.entries[e.State] = map[string]Recipe{}
		}
		t.entries[e.State][e.Symbol] = e.Recipe
	}
	return t, nil
}

// Report builds a Message from an ErrorEvent via table lookup, falling
// back to a generic parse-error diagnostic when the table has no entry -
// diagnostic construction itself must never fail (spec.md §7).
func Report(table *Table, ev ErrorEvent) Message {
	recipe, ok := table.Lookup(ev.State, ev.Symbol)
	if !ok {
		return Generic(ev.Info)
	}
	msg := New(recipe.Title, KindError).WithCode(recipe.Code).WithProblem(recipe.Message).WithPrimary(ev.Info)
	for _, label := range recipe.CaptureLabels {
		if info, ok := ev.Captures[label]; ok {
			msg = msg.AddCapture(label, info)
		}
	}
	return msg
}
