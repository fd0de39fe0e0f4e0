// Package errtable compiles the (state, symbol) -> diagnostic Recipe table
// from a corpus of example documents, the spec.md §6 "autogen table" build
// step. Each corpus entry is a txtar archive (github.com/rogpeppe/go-internal
// /txtar) bundling the malformed qmd snippet alongside a JSON sidecar that
// names the recipe; gjson reads the sidecar without requiring a full struct
// decode. This package is the module's only gjson user; the diag package
// decodes its JSON data files with encoding/json.
package errtable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rogpeppe/go-internal/txtar"
	"github.com/tidwall/gjson"

	"github.com/quarto-dev/q2-sub016/diag"
)

// Entry is one corpus-derived (state, symbol) -> recipe row, the same shape
// diag.ParseTable decodes from JSON.
type Entry struct {
	State  string
	Symbol string
	Recipe diag.Recipe
}

// Build walks corpusDir for "*.txtar" archives, each expected to contain a
// "sidecar.json" file (decoded with gjson) describing the recipe this
// snippet exercises, and returns the compiled Table plus the Entry list used
// to produce it (callers that want to persist a fresh _autogen-table.json
// use Entries via MarshalTable).
func Build(corpusDir string) (*diag.Table, []Entry, error) {
	matches, err := filepath.Glob(filepath.Join(corpusDir, "*.txtar"))
	if err != nil {
		return nil, nil, fmt.Errorf("errtable: glob %s: %w", corpusDir, err)
	}

	var entries []Entry
	for _, path := range matches {
		e, err := readArchive(path)
		if err != nil {
			return nil, nil, fmt.Errorf("errtable: %s: %w", path, err)
		}
		entries = append(entries, e)
	}

	b, err := MarshalTable(entries)
	if err != nil {
		return nil, nil, err
	}
	table, err := diag.ParseTable(b)
	if err != nil {
		return nil, nil, err
	}
	return table, entries, nil
}

func readArchive(path string) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	ar := txtar.Parse(raw)

	var sidecar []byte
	for _, f := range ar.Files {
		if f.Name == "sidecar.json" {
			sidecar = f.Data
			break
		}
	}
	if sidecar == nil {
		return Entry{}, fmt.Errorf("missing sidecar.json")
	}

	res := gjson.ParseBytes(sidecar)
	state := res.Get("state").String()
	symbol := res.Get("symbol").String()
	if state == "" || symbol == "" {
		return Entry{}, fmt.Errorf("sidecar.json missing state/symbol")
	}

	var captures []string
	for _, c := range res.Get("captures").Array() {
		captures = append(captures, c.String())
	}

	return Entry{
		State:  state,
		Symbol: symbol,
		Recipe: diag.Recipe{
			Code:          res.Get("code").String(),
			Title:         res.Get("title").String(),
			Message:       res.Get("message").String(),
			CaptureLabels: captures,
		},
	}, nil
}

// MarshalTable renders entries in the exact _autogen-table.json shape
// diag.ParseTable expects, stamping a fresh build id via google/uuid so
// every compiled table is traceable to the Build invocation that produced
// it (spec.md §6's "build_id" field).
func MarshalTable(entries []Entry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("{\n")
	fmt.Fprintf(&sb, "  \"build_id\": %q,\n", uuid.New().String())
	sb.WriteString("  \"entries\": [\n")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("    {\n")
		fmt.Fprintf(&sb, "      \"state\": %q,\n", e.State)
		fmt.Fprintf(&sb, "      \"symbol\": %q,\n", e.Symbol)
		fmt.Fprintf(&sb, "      \"code\": %q,\n", e.Recipe.Code)
		fmt.Fprintf(&sb, "      \"title\": %q,\n", e.Recipe.Title)
		fmt.Fprintf(&sb, "      \"message\": %q,\n", e.Recipe.Message)
		sb.WriteString("      \"captures\": [")
		for j, c := range e.Recipe.CaptureLabels {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", c)
		}
		sb.WriteString("]\n    }")
	}
	sb.WriteString("\n  ]\n}\n")
	return []byte(sb.String()), nil
}
