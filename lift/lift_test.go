package lift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/ast"
)

func TestLiftHeaderAndParagraph(t *testing.T) {
	res := Lift([]byte("# Title\n\nBody text here.\n"), 0, false)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Document.Blocks, 2)
	h, ok := res.Document.Blocks[0].(ast.Header)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	p, ok := res.Document.Blocks[1].(ast.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Inlines, 5) // Body,Space,text,Space,here.
}

func TestLiftFrontmatterSeparatedFromBody(t *testing.T) {
	res := Lift([]byte("---\ntitle: x\n---\n\nBody.\n"), 0, false)
	require.NotNil(t, res.Frontmatter)
	assert.Equal(t, "yaml-frontmatter", res.Frontmatter.Format)
	require.Len(t, res.Document.Blocks, 1)
}

func TestLiftEmphasisAndStrong(t *testing.T) {
	res := Lift([]byte("Some *emph* and **strong** text.\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var sawEmph, sawStrong bool
	for _, n := range p.Inlines {
		switch n.(type) {
		case ast.Emph:
			sawEmph = true
		case ast.Strong:
			sawStrong = true
		}
	}
	assert.True(t, sawEmph)
	assert.True(t, sawStrong)
}

func TestLiftUnterminatedEmphasisEmitsDiagnostic(t *testing.T) {
	res := Lift([]byte("a *dangling emphasis\n"), 0, false)
	require.NotEmpty(t, res.Diagnostics)
}

func TestLiftUnterminatedCodeSpanEmitsDiagnostic(t *testing.T) {
	res := Lift([]byte("text with `dangling code\n"), 0, false)
	require.NotEmpty(t, res.Diagnostics)
}

func TestLiftUnorderedListTight(t *testing.T) {
	res := Lift([]byte("- one\n- two\n- three\n"), 0, false)
	require.Len(t, res.Document.Blocks, 1)
	l, ok := res.Document.Blocks[0].(ast.List)
	require.True(t, ok)
	assert.Equal(t, ast.BulletListKind, l.Kind)
	require.Len(t, l.Items, 3)
	_, tight := l.Items[0].Blocks[0].(ast.Plain)
	assert.True(t, tight)
}

func TestLiftOrderedListLoose(t *testing.T) {
	res := Lift([]byte("1. one\n\n2. two\n"), 0, false)
	require.Len(t, res.Document.Blocks, 1)
	l, ok := res.Document.Blocks[0].(ast.List)
	require.True(t, ok)
	assert.Equal(t, ast.OrderedListKind, l.Kind)
	require.Len(t, l.Items, 2)
	_, loose := l.Items[0].Blocks[0].(ast.Paragraph)
	assert.True(t, loose)
}

func TestLiftBlockQuoteSplitsOnBlankLines(t *testing.T) {
	res := Lift([]byte("> first para\n>\n> second para\n"), 0, false)
	bq, ok := res.Document.Blocks[0].(ast.BlockQuote)
	require.True(t, ok)
	assert.Len(t, bq.Blocks, 2)
}

func TestLiftCodeBlockWithInfoString(t *testing.T) {
	res := Lift([]byte("```python\nprint(1)\n```\n"), 0, false)
	cb, ok := res.Document.Blocks[0].(ast.CodeBlock)
	require.True(t, ok)
	assert.Contains(t, cb.Attr.Classes, "python")
	assert.Equal(t, "print(1)\n", cb.Text)
}

func TestLiftUnterminatedCodeBlockEmitsDiagnostic(t *testing.T) {
	res := Lift([]byte("```python\nprint(1)\n"), 0, false)
	require.NotEmpty(t, res.Diagnostics)
}

func TestLiftFencedDivWithClass(t *testing.T) {
	res := Lift([]byte(":::{.outer}\ninner text\n:::\n"), 0, false)
	d, ok := res.Document.Blocks[0].(ast.Div)
	require.True(t, ok)
	assert.Contains(t, d.Attr.Classes, "outer")
	require.Len(t, d.Blocks, 1)
}

func TestLiftUnterminatedDivEmitsDiagnostic(t *testing.T) {
	res := Lift([]byte(":::{.outer}\ninner text\n"), 0, false)
	require.NotEmpty(t, res.Diagnostics)
}

func TestLiftFootnoteDefinition(t *testing.T) {
	res := Lift([]byte("[^note1]: the footnote text\n"), 0, false)
	fn, ok := res.Document.Blocks[0].(ast.NoteDefinitionPara)
	require.True(t, ok)
	assert.Equal(t, "note1", fn.ID)
}

func TestLiftPipeTable(t *testing.T) {
	res := Lift([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"), 0, false)
	tbl, ok := res.Document.Blocks[0].(ast.Table)
	require.True(t, ok)
	require.Len(t, tbl.Head.Rows, 1)
	require.Len(t, tbl.Head.Rows[0].Cells, 2)
	require.Len(t, tbl.Bodies, 1)
	require.Len(t, tbl.Bodies[0].Rows, 1)
}

func TestLiftSmartTypographyDashesAndEllipsis(t *testing.T) {
	res := Lift([]byte("em---dash en--dash ellipsis...\n"), 0, true)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var text string
	for _, n := range p.Inlines {
		if s, ok := n.(ast.Str); ok {
			text += s.Text
		}
	}
	assert.Contains(t, text, "—")
	assert.Contains(t, text, "–")
	assert.Contains(t, text, "…")
}

func TestLiftSmartTypographyDisabledLeavesLiteralDashes(t *testing.T) {
	res := Lift([]byte("em---dash\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var text string
	for _, n := range p.Inlines {
		if s, ok := n.(ast.Str); ok {
			text += s.Text
		}
	}
	assert.Contains(t, text, "---")
}

func TestLiftSmartQuoteClosingWithoutOpenEmitsDiagnostic(t *testing.T) {
	res := Lift([]byte("a' b.\n"), 0, true)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "Q-2-10", res.Diagnostics[0].Code)
	assert.Equal(t, "Closed Quote Without Matching Open Quote", res.Diagnostics[0].Title)
}

func TestLiftSmartQuoteBalancedPairEmitsNoDiagnostic(t *testing.T) {
	res := Lift([]byte("say \"hello\" now\n"), 0, true)
	assert.Empty(t, res.Diagnostics)
}

func TestLiftLinkAndImage(t *testing.T) {
	res := Lift([]byte("See [a link](http://example.com \"Title\") and ![alt](img.png).\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var sawLink, sawImage bool
	for _, n := range p.Inlines {
		switch v := n.(type) {
		case ast.Link:
			sawLink = true
			assert.Equal(t, "http://example.com", v.Target.URL)
			assert.Equal(t, "Title", v.Target.Title)
		case ast.Image:
			sawImage = true
			assert.Equal(t, "img.png", v.Target.URL)
		}
	}
	assert.True(t, sawLink)
	assert.True(t, sawImage)
}

func TestLiftNoteReferenceAndCite(t *testing.T) {
	res := Lift([]byte("Claim[^n1] and citation [@smith2020].\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var sawNoteRef, sawCite bool
	for _, n := range p.Inlines {
		switch v := n.(type) {
		case ast.NoteReference:
			sawNoteRef = true
			assert.Equal(t, "n1", v.ID)
		case ast.Cite:
			sawCite = true
			require.Len(t, v.Citations, 1)
			assert.Equal(t, "smith2020", v.Citations[0].ID)
		}
	}
	assert.True(t, sawNoteRef)
	assert.True(t, sawCite)
}

func TestLiftCodeSpanWithAttr(t *testing.T) {
	res := Lift([]byte("inline `code()`{.python} span.\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var found bool
	for _, n := range p.Inlines {
		if c, ok := n.(ast.Code); ok {
			found = true
			assert.Contains(t, c.Attr.Classes, "python")
		}
	}
	assert.True(t, found)
}

func TestLiftShortcode(t *testing.T) {
	res := Lift([]byte("Text {{< video file.mp4 width=400 >}} more.\n"), 0, false)
	p := res.Document.Blocks[0].(ast.Paragraph)
	var found bool
	for _, n := range p.Inlines {
		if s, ok := n.(ast.Shortcode); ok {
			found = true
			assert.Equal(t, "video", s.Name)
		}
	}
	assert.True(t, found)
}
