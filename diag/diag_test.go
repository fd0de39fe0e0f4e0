package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/source"
)

type fakeResolver struct {
	path string
	line int
	col  int
}

func (f fakeResolver) MapOffset(info source.Info, offset int) (source.Position, bool) {
	if info == nil {
		return source.Position{}, false
	}
	return source.Position{File: 0, Line: f.line, Col: f.col}, true
}

func (f fakeResolver) Path(file source.FileId) string { return f.path }

func TestMessageBuilderChain(t *testing.T) {
	info := source.NewOriginal(0, 0, 5)
	msg := New("Unterminated Emphasis", KindError).
		WithCode("Q-1-1").
		WithProblem("this emphasis marker is never closed").
		WithPrimary(info).
		AddDetail(KindNote, "emphasis runs must be closed on the same line").
		AddHint("did you forget a closing *?").
		AddCapture("opening-marker", info)

	assert.Equal(t, "Unterminated Emphasis", msg.Title)
	assert.Equal(t, "Q-1-1", msg.Code)
	assert.Equal(t, KindError, msg.Kind)
	require.Len(t, msg.Details, 1)
	assert.Equal(t, KindNote, msg.Details[0].Kind)
	require.Len(t, msg.Hints, 1)
	require.Len(t, msg.Captures, 1)
	assert.Equal(t, "opening-marker", msg.Captures[0].Label)
}

func TestInternalAlwaysUsesQ01(t *testing.T) {
	info := source.NewOriginal(0, 0, 1)
	msg := Internal("postprocess.validate", info)
	assert.Equal(t, "Q-0-1", msg.Code)
	assert.Equal(t, "an AST invariant was violated after parsing", msg.Problem)
	assert.Contains(t, msg.Title, "postprocess.validate")
}

func TestGenericFallsBackToQ20(t *testing.T) {
	info := source.NewOriginal(0, 0, 1)
	msg := Generic(info)
	assert.Equal(t, "Q-2-0", msg.Code)
	assert.Equal(t, KindError, msg.Kind)
}

func TestKindStringValues(t *testing.T) {
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "warning", KindWarning.String())
	assert.Equal(t, "info", KindInfo.String())
	assert.Equal(t, "note", KindNote.String())
}

func TestRenderJSONEncodesCaptureLocations(t *testing.T) {
	info := source.NewOriginal(0, 0, 5)
	msg := New("Unterminated Code Span", KindError).
		WithCode("Q-1-2").
		WithPrimary(info).
		AddCapture("opening-backticks", info)

	var buf bytes.Buffer
	res := fakeResolver{path: "doc.qmd", line: 2, col: 4}
	require.NoError(t, RenderJSON(&buf, msg, res))

	out := buf.String()
	assert.Contains(t, out, `"title":"Unterminated Code Span"`)
	assert.Contains(t, out, `"code":"Q-1-2"`)
	assert.Contains(t, out, `"opening-backticks"`)
	assert.Contains(t, out, `"doc.qmd"`)
}

func TestRenderMarkdownIncludesCodeAndHints(t *testing.T) {
	msg := New("Unfinished Emphasis", KindWarning).
		WithCode("Q-2-27").
		WithProblem("this emphasis run was never closed").
		AddHint("close it before the paragraph ends?")

	var buf strings.Builder
	RenderMarkdown(&buf, msg, fakeResolver{path: "doc.qmd", line: 0, col: 0})

	out := buf.String()
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "`Q-2-27`")
	assert.Contains(t, out, "Unfinished Emphasis")
	assert.Contains(t, out, "close it before the paragraph ends?")
}

func TestRenderMarkdownOmitsLocationWhenPrimaryNil(t *testing.T) {
	msg := New("Parse Error", KindError)
	var buf strings.Builder
	RenderMarkdown(&buf, msg, fakeResolver{path: "doc.qmd"})
	assert.NotContains(t, buf.String(), "at `")
}

func TestReportFallsBackToGenericWhenNoRecipeMatches(t *testing.T) {
	table := DefaultTable()
	info := source.NewOriginal(0, 0, 1)
	msg := Report(table, ErrorEvent{State: "no.such.state", Symbol: "eof", Info: info})
	assert.Equal(t, "Q-2-0", msg.Code)
}

func TestDefaultTableIsSharedAndNonNil(t *testing.T) {
	a := DefaultTable()
	b := DefaultTable()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestLookupCodeFindsEmbeddedCatalogEntry(t *testing.T) {
	entry, ok := LookupCode("Q-2-27")
	require.True(t, ok)
	assert.Equal(t, "parser", entry.Subsystem)
	assert.Equal(t, "Unfinished Emphasis", entry.Title)
}

func TestLookupCodeMissingReturnsFalse(t *testing.T) {
	_, ok := LookupCode("Q-9-99")
	assert.False(t, ok)
}
