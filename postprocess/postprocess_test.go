package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/source"
)

func orig(start, end int) source.Info {
	return source.NewOriginal(0, start, end)
}

func TestRunCoalescesAdjacentStr(t *testing.T) {
	doc := &ast.Document{
		Blocks: []ast.Block{
			ast.Paragraph{
				Inlines: []ast.Inline{
					ast.Str{Text: "foo", Info: orig(0, 3)},
					ast.Str{Text: "bar", Info: orig(3, 6)},
				},
				Info: orig(0, 6),
			},
		},
		Info: orig(0, 6),
	}
	diags := Run(doc)
	assert.Empty(t, diags)
	p := doc.Blocks[0].(ast.Paragraph)
	require.Len(t, p.Inlines, 1)
	s := p.Inlines[0].(ast.Str)
	assert.Equal(t, "foobar", s.Text)
}

func TestRunDesugarsNoteReferenceAndStripsDefinition(t *testing.T) {
	doc := &ast.Document{
		Blocks: []ast.Block{
			ast.Paragraph{
				Inlines: []ast.Inline{
					ast.Str{Text: "claim", Info: orig(0, 5)},
					ast.NoteReference{ID: "n1", Info: orig(5, 10)},
				},
				Info: orig(0, 10),
			},
			ast.NoteDefinitionPara{
				ID:      "n1",
				Inlines: []ast.Inline{ast.Str{Text: "the note", Info: orig(11, 19)}},
				Info:    orig(11, 19),
			},
		},
		Info: orig(0, 19),
	}
	diags := Run(doc)
	assert.Empty(t, diags)

	require.Len(t, doc.Blocks, 1, "the note definition block is stripped from the main flow")
	p := doc.Blocks[0].(ast.Paragraph)
	require.Len(t, p.Inlines, 2)

	span, ok := p.Inlines[1].(ast.Span)
	require.True(t, ok, "NoteReference must be desugared into a Span")
	assert.Contains(t, span.Attr.Classes, "note-ref")
	require.Len(t, span.Attr.KeyVals, 1)
	assert.Equal(t, [2]string{"note-id", "n1"}, span.Attr.KeyVals[0])

	require.Len(t, span.Inlines, 1)
	note, ok := span.Inlines[0].(ast.Note)
	require.True(t, ok)
	require.Len(t, note.Blocks, 1)
	para := note.Blocks[0].(ast.Paragraph)
	str := para.Inlines[0].(ast.Str)
	assert.Equal(t, "the note", str.Text)
}

func TestRunResolvesNoteReferenceWithNoDefinition(t *testing.T) {
	doc := &ast.Document{
		Blocks: []ast.Block{
			ast.Paragraph{
				Inlines: []ast.Inline{ast.NoteReference{ID: "missing", Info: orig(0, 5)}},
				Info:    orig(0, 5),
			},
		},
		Info: orig(0, 5),
	}
	diags := Run(doc)
	assert.Empty(t, diags)
	p := doc.Blocks[0].(ast.Paragraph)
	span := p.Inlines[0].(ast.Span)
	note := span.Inlines[0].(ast.Note)
	require.Len(t, note.Blocks, 1)
}

func TestValidateCatchesTableRowWidthMismatch(t *testing.T) {
	cellA := ast.TableCell{Blocks: nil, Info: orig(0, 1)}
	cellB := ast.TableCell{Blocks: nil, Info: orig(1, 2)}
	doc := &ast.Document{
		Blocks: []ast.Block{
			ast.Table{
				ColSpec: []ast.ColSpec{{Align: ast.AlignDefault}, {Align: ast.AlignDefault}},
				Head: ast.TableHead{
					Rows: []ast.TableRow{{Cells: []ast.TableCell{cellA, cellB}, Info: orig(0, 2)}},
					Info: orig(0, 2),
				},
				Bodies: []ast.TableBody{{
					Rows: []ast.TableRow{{Cells: []ast.TableCell{cellA}, Info: orig(2, 3)}},
					Info: orig(2, 3),
				}},
				Info: orig(0, 3),
			},
		},
		Info: orig(0, 3),
	}
	diags := Run(doc)
	require.NotEmpty(t, diags)
	assert.Equal(t, "Q-2-50", diags[0].Code)
	assert.Equal(t, "Table Row Has Wrong Cell Count", diags[0].Title)
}

func TestValidatePassesConsistentTable(t *testing.T) {
	cellA := ast.TableCell{Blocks: nil, Info: orig(0, 1)}
	doc := &ast.Document{
		Blocks: []ast.Block{
			ast.Table{
				ColSpec: []ast.ColSpec{{Align: ast.AlignDefault}},
				Head: ast.TableHead{
					Rows: []ast.TableRow{{Cells: []ast.TableCell{cellA}, Info: orig(0, 1)}},
					Info: orig(0, 1),
				},
				Bodies: []ast.TableBody{{
					Rows: []ast.TableRow{{Cells: []ast.TableCell{cellA}, Info: orig(1, 2)}},
					Info: orig(1, 2),
				}},
				Info: orig(0, 2),
			},
		},
		Info: orig(0, 2),
	}
	diags := Run(doc)
	assert.Empty(t, diags)
}
