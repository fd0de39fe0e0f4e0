package errtable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

func writeArchive(t *testing.T, dir, name, snippet, sidecar string) {
	t.Helper()
	content := "-- snippet.qmd --\n" + snippet + "\n-- sidecar.json --\n" + sidecar + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildCompilesCorpusIntoTable(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "emphasis-open.txtar",
		"a *dangling emphasis",
		`{"state":"inline.emphasis.open","symbol":"eof","code":"Q-1-1","title":"Unterminated Emphasis","message":"this emphasis marker is never closed","captures":["opening-marker"]}`,
	)
	writeArchive(t, dir, "code-open.txtar",
		"text with `dangling code",
		`{"state":"inline.code.open","symbol":"eof","code":"Q-1-2","title":"Unterminated Code Span","message":"this code span is never closed","captures":["opening-backticks"]}`,
	)

	table, entries, err := Build(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	recipe, ok := table.Lookup("inline.emphasis.open", "eof")
	require.True(t, ok)
	assert.Equal(t, "Q-1-1", recipe.Code)
	assert.Equal(t, "Unterminated Emphasis", recipe.Title)
	assert.Equal(t, []string{"opening-marker"}, recipe.CaptureLabels)

	recipe2, ok := table.Lookup("inline.code.open", "eof")
	require.True(t, ok)
	assert.Equal(t, "Q-1-2", recipe2.Code)
}

func TestBuildMissingSidecarErrors(t *testing.T) {
	dir := t.TempDir()
	content := "-- snippet.qmd --\nsome text\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.txtar"), []byte(content), 0o644))

	_, _, err := Build(dir)
	assert.Error(t, err)
}

func TestBuildEmptyCorpusProducesEmptyTable(t *testing.T) {
	dir := t.TempDir()
	table, entries, err := Build(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, ok := table.Lookup("anything", "eof")
	assert.False(t, ok)
}

func TestReportUsesCompiledRecipe(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "div-open.txtar",
		":::{.note}\nunterminated",
		`{"state":"block.div.open","symbol":"eof","code":"Q-1-9","title":"Unterminated Div","message":"this fenced div is never closed","captures":["opening-fence"]}`,
	)
	table, _, err := Build(dir)
	require.NoError(t, err)

	info := source.NewOriginal(0, 0, 5)
	msg := diag.Report(table, diag.ErrorEvent{
		State: "block.div.open", Symbol: "eof", Info: info,
		Captures: map[string]source.Info{"opening-fence": info},
	})
	assert.Equal(t, "Q-1-9", msg.Code)
	assert.Equal(t, "Unterminated Div", msg.Title)
	require.Len(t, msg.Captures, 1)
	assert.Equal(t, "opening-fence", msg.Captures[0].Label)
}

func TestMarshalTableRoundTripsThroughParseTable(t *testing.T) {
	entries := []Entry{
		{State: "s1", Symbol: "sym1", Recipe: diag.Recipe{Code: "Q-9-1", Title: "T1", Message: "M1", CaptureLabels: []string{"a", "b"}}},
	}
	b, err := MarshalTable(entries)
	require.NoError(t, err)
	table, err := diag.ParseTable(b)
	require.NoError(t, err)
	recipe, ok := table.Lookup("s1", "sym1")
	require.True(t, ok)
	assert.Equal(t, "Q-9-1", recipe.Code)
	assert.Equal(t, []string{"a", "b"}, recipe.CaptureLabels)
}
