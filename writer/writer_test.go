package writer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/qmd"
)

func qmdParse(t *testing.T, src string) (*ast.Document, *qmd.ASTContext) {
	t.Helper()
	doc, actx, diags, err := qmd.Parse([]byte(src), "t.qmd", qmd.Options{})
	require.NoError(t, err)
	require.Empty(t, diags)
	return doc, actx
}

func TestWriteNativeBasicParagraph(t *testing.T) {
	doc, actx := qmdParse(t, "Hello *world*.\n")

	var buf bytes.Buffer
	diags, err := WriteNative(&buf, doc, actx)
	require.NoError(t, err)
	require.Empty(t, diags)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n"))
	assert.Contains(t, out, "Para")
	assert.Contains(t, out, "Emph")
	assert.Contains(t, out, "Str \"world\"")
}

func TestWriteNativeRefusesNoteDefinitions(t *testing.T) {
	doc, actx := qmdParse(t, "With caveats[^1].\n\n[^1]: A caveat.\n")

	var buf bytes.Buffer
	diags, err := WriteNative(&buf, doc, actx)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q-3-10", diags[0].Code)
	assert.NotContains(t, buf.String(), "NoteDefinitionPara")
}

func TestWriteJSONProducesLocPoolAndBlocks(t *testing.T) {
	doc, actx := qmdParse(t, "# Title\n\nBody text.\n")

	var buf bytes.Buffer
	diags, err := WriteJSON(&buf, doc, actx)
	require.NoError(t, err)
	require.Empty(t, diags)
	out := buf.String()
	assert.Contains(t, out, `"locPool"`)
	assert.Contains(t, out, `"Header"`)
	assert.Contains(t, out, `"Para"`)
}

func TestWriteHTMLEmbedsLocPoolScript(t *testing.T) {
	doc, actx := qmdParse(t, "# Title\n\nBody *text*.\n")

	var buf bytes.Buffer
	diags, err := WriteHTML(&buf, doc, actx)
	require.NoError(t, err)
	require.Empty(t, diags)
	out := buf.String()
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, `<em data-loc="`)
	assert.Contains(t, out, `id="quarto-source-map"`)

	var fileID, startLine, startCol, endLine, endCol int
	idx := strings.Index(out, "data-loc=\"")
	require.True(t, idx >= 0, "expected a data-loc attribute in %q", out)
	val := out[idx+len("data-loc=\"") : idx+len("data-loc=\"")+strings.Index(out[idx+len("data-loc=\""):], "\"")]
	n, err := fmt.Sscanf(val, "%d:%d:%d-%d:%d", &fileID, &startLine, &startCol, &endLine, &endCol)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.GreaterOrEqual(t, startLine, 1, "line numbers must be 1-based")
	assert.GreaterOrEqual(t, startCol, 1, "columns must be 1-based")
}

func TestWriteQMDRoundTripsShape(t *testing.T) {
	doc, actx := qmdParse(t, "# Title\n\nSome **bold** text.\n")

	var buf bytes.Buffer
	diags, err := WriteQMD(&buf, doc, actx)
	require.NoError(t, err)
	require.Empty(t, diags)
	out := buf.String()
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "**bold**")

	redoc, _ := qmdParse(t, out)
	if diff := cmp.Diff(doc.Blocks, redoc.Blocks, cmp.Comparer(func(a, b ast.Attr) bool {
		return a.ID == b.ID && cmp.Equal(a.Classes, b.Classes) && cmp.Equal(a.KeyVals, b.KeyVals)
	})); diff != "" {
		t.Fatalf("re-parsed document shape diverged (-want +got):\n%s", diff)
	}
}

// TestWriteQMDRoundTripIsStable feeds the writer's own output back through it
// a second time and requires byte-identical text - any divergence means the
// writer isn't a fixed point of parse+render, which a unified diff makes far
// easier to read than a raw string mismatch.
func TestWriteQMDRoundTripIsStable(t *testing.T) {
	const src = "# Title\n\nSome **bold** and *emph* text with `code`.\n\n- one\n- two\n"
	doc, actx := qmdParse(t, src)

	var first bytes.Buffer
	_, err := WriteQMD(&first, doc, actx)
	require.NoError(t, err)

	redoc, ractx := qmdParse(t, first.String())
	var second bytes.Buffer
	_, err = WriteQMD(&second, redoc, ractx)
	require.NoError(t, err)

	if first.String() != second.String() {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first.String()),
			B:        difflib.SplitLines(second.String()),
			FromFile: "first render",
			ToFile:   "second render",
			Context:  2,
		})
		t.Fatalf("qmd writer output not stable under a second round trip:\n%s", diff)
	}
}

func TestPoolInterningDedupsSharedSourceInfo(t *testing.T) {
	doc, _ := qmdParse(t, "one two three\n")

	pool := NewPool()
	info := doc.Blocks[0].SourceInfo()
	a := pool.Intern(info)
	b := pool.Intern(info)
	assert.Equal(t, a, b)
	assert.Len(t, pool.Entries(), 1)
}
