package writer

import (
	"encoding/json"
	"io"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

// locEntry is one pooled source.Info, referencing other pool entries by
// index rather than embedding them, so a deep Substring/Concat chain shared
// by many AST nodes is written once regardless of how many nodes use it -
// spec.md §8's pool_interning property.
type locEntry struct {
	Kind    string `json:"kind"` // "original" | "substring" | "concat" | "filter"
	File    int32  `json:"file,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
	Parent  *int   `json:"parent,omitempty"`
	Pieces  []piece `json:"pieces,omitempty"`
	Filter  string `json:"filter,omitempty"`
	FLine   int    `json:"line,omitempty"`
}

type piece struct {
	Ref    int `json:"ref"`
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// jctx carries the pool across one WriteJSON call.
type jctx struct {
	pool *Pool
}

func (j *jctx) loc(info source.Info) int {
	return j.pool.Intern(info)
}

func (j *jctx) buildLocPool() []locEntry {
	var out []locEntry
	for i := 0; i < len(j.pool.Entries()); i++ {
		out = append(out, j.encodeInfo(j.pool.Entries()[i]))
	}
	return out
}

func (j *jctx) encodeInfo(info source.Info) locEntry {
	switch v := info.(type) {
	case source.Original:
		return locEntry{Kind: "original", File: int32(v.File), Start: v.Start, End: v.End}
	case source.Substring:
		parentIdx := j.loc(v.Parent)
		return locEntry{Kind: "substring", Parent: &parentIdx, Start: v.Start, End: v.End}
	case source.Concat:
		pieces := make([]piece, len(v.Pieces))
		for i, p := range v.Pieces {
			pieces[i] = piece{Ref: j.loc(p.Info), Offset: p.OffsetInConcat, Length: p.Length}
		}
		return locEntry{Kind: "concat", Pieces: pieces}
	case source.FilterProvenance:
		return locEntry{Kind: "filter", Filter: v.FilterName, FLine: v.Line}
	default:
		return locEntry{Kind: "unknown"}
	}
}

type jAttr struct {
	ID      string      `json:"id,omitempty"`
	Classes []string    `json:"classes,omitempty"`
	KeyVals [][2]string `json:"kvs,omitempty"`
}

func jattr(a ast.Attr) jAttr {
	return jAttr{ID: a.ID, Classes: a.Classes, KeyVals: a.KeyVals}
}

type jNode struct {
	Type    string      `json:"t"`
	Loc     int         `json:"loc"`
	Text    string      `json:"text,omitempty"`
	Attr    *jAttr      `json:"attr,omitempty"`
	Inlines []jNode     `json:"inlines,omitempty"`
	Blocks  []jNode     `json:"blocks,omitempty"`
	Level   int         `json:"level,omitempty"`
	Format  string      `json:"format,omitempty"`
	URL     string      `json:"url,omitempty"`
	Title   string      `json:"title,omitempty"`
	Kind2   string      `json:"kind,omitempty"` // math/quote subkind
	ID2     string      `json:"id,omitempty"`   // note-reference/footnote id
	Items   [][]jNode   `json:"items,omitempty"`
	Rows    []jRow      `json:"rows,omitempty"`
	Caption []jNode     `json:"caption,omitempty"`
	ColSpec []ast.ColSpec `json:"colspec,omitempty"`
	Args    []string    `json:"args,omitempty"`
	KwArgs  [][2]string `json:"kwargs,omitempty"`
}

type jRow struct {
	Loc   int       `json:"loc"`
	Cells [][]jNode `json:"cells"`
}

func (j *jctx) block(b ast.Block) jNode {
	loc := j.loc(b.SourceInfo())
	switch v := b.(type) {
	case ast.Paragraph:
		return jNode{Type: "Para", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Plain:
		return jNode{Type: "Plain", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Header:
		a := jattr(v.Attr)
		return jNode{Type: "Header", Loc: loc, Level: v.Level, Attr: &a, Inlines: j.inlines(v.Inlines)}
	case ast.BlockQuote:
		return jNode{Type: "BlockQuote", Loc: loc, Blocks: j.blocks(v.Blocks)}
	case ast.CodeBlock:
		a := jattr(v.Attr)
		return jNode{Type: "CodeBlock", Loc: loc, Attr: &a, Text: v.Text}
	case ast.RawBlock:
		return jNode{Type: "RawBlock", Loc: loc, Format: v.Format, Text: v.Text}
	case ast.Div:
		a := jattr(v.Attr)
		return jNode{Type: "Div", Loc: loc, Attr: &a, Blocks: j.blocks(v.Blocks)}
	case ast.HorizontalRule:
		return jNode{Type: "HorizontalRule", Loc: loc}
	case ast.List:
		items := make([][]jNode, len(v.Items))
		for i, it := range v.Items {
			items[i] = j.blocks(it.Blocks)
		}
		kind := "BulletList"
		if v.Kind == ast.OrderedListKind {
			kind = "OrderedList"
		} else if v.Kind == ast.ExampleListKind {
			kind = "ExampleList"
		}
		return jNode{Type: kind, Loc: loc, Items: items}
	case ast.Table:
		a := jattr(v.Attr)
		rows := make([]jRow, 0, len(v.Head.Rows)+len(v.Bodies))
		rows = append(rows, j.tableRows(v.Head.Rows)...)
		for _, body := range v.Bodies {
			rows = append(rows, j.tableRows(body.Rows)...)
		}
		return jNode{Type: "Table", Loc: loc, Attr: &a, Caption: j.inlines(v.Caption), ColSpec: v.ColSpec, Rows: rows}
	case ast.LineBlock:
		items := make([][]jNode, len(v.Lines))
		for i, l := range v.Lines {
			items[i] = j.inlines(l)
		}
		return jNode{Type: "LineBlock", Loc: loc, Items: items}
	case ast.NoteDefinitionPara:
		return jNode{Type: "NoteDefinitionPara", Loc: loc, ID2: v.ID, Inlines: j.inlines(v.Inlines)}
	case ast.NoteDefinitionFencedBlock:
		return jNode{Type: "NoteDefinitionFencedBlock", Loc: loc, ID2: v.ID, Blocks: j.blocks(v.Blocks)}
	default:
		return jNode{Type: "Unknown", Loc: loc}
	}
}

func (j *jctx) tableRows(rows []ast.TableRow) []jRow {
	out := make([]jRow, len(rows))
	for i, r := range rows {
		cells := make([][]jNode, len(r.Cells))
		for k, c := range r.Cells {
			cells[k] = j.blocks(c.Blocks)
		}
		out[i] = jRow{Loc: j.loc(r.Info), Cells: cells}
	}
	return out
}

func (j *jctx) blocks(bs []ast.Block) []jNode {
	out := make([]jNode, len(bs))
	for i, b := range bs {
		out[i] = j.block(b)
	}
	return out
}

func (j *jctx) inline(n ast.Inline) jNode {
	loc := j.loc(n.SourceInfo())
	switch v := n.(type) {
	case ast.Str:
		return jNode{Type: "Str", Loc: loc, Text: v.Text}
	case ast.Space:
		return jNode{Type: "Space", Loc: loc}
	case ast.SoftBreak:
		return jNode{Type: "SoftBreak", Loc: loc}
	case ast.LineBreak:
		return jNode{Type: "LineBreak", Loc: loc}
	case ast.Emph:
		return jNode{Type: "Emph", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Strong:
		return jNode{Type: "Strong", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Underline:
		return jNode{Type: "Underline", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Strikeout:
		return jNode{Type: "Strikeout", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Subscript:
		return jNode{Type: "Subscript", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Superscript:
		return jNode{Type: "Superscript", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.SmallCaps:
		return jNode{Type: "SmallCaps", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Code:
		a := jattr(v.Attr)
		return jNode{Type: "Code", Loc: loc, Attr: &a, Text: v.Text}
	case ast.Math:
		kind := "InlineMath"
		if v.Kind == ast.DisplayMath {
			kind = "DisplayMath"
		}
		return jNode{Type: "Math", Loc: loc, Kind2: kind, Text: v.Text}
	case ast.Link:
		a := jattr(v.Attr)
		return jNode{Type: "Link", Loc: loc, Attr: &a, Inlines: j.inlines(v.Inlines), URL: v.Target.URL, Title: v.Target.Title}
	case ast.Image:
		a := jattr(v.Attr)
		return jNode{Type: "Image", Loc: loc, Attr: &a, Inlines: j.inlines(v.Inlines), URL: v.Target.URL, Title: v.Target.Title}
	case ast.Span:
		a := jattr(v.Attr)
		return jNode{Type: "Span", Loc: loc, Attr: &a, Inlines: j.inlines(v.Inlines)}
	case ast.Cite:
		return jNode{Type: "Cite", Loc: loc, Inlines: j.inlines(v.Inlines)}
	case ast.Quoted:
		kind := "SingleQuote"
		if v.Kind == ast.DoubleQuote {
			kind = "DoubleQuote"
		}
		return jNode{Type: "Quoted", Loc: loc, Kind2: kind, Inlines: j.inlines(v.Inlines)}
	case ast.Note:
		return jNode{Type: "Note", Loc: loc, Blocks: j.blocks(v.Blocks)}
	case ast.RawInline:
		return jNode{Type: "RawInline", Loc: loc, Format: v.Format, Text: v.Text}
	case ast.Shortcode:
		return jNode{Type: "Shortcode", Loc: loc, Text: v.Name, Args: v.Args, KwArgs: v.KwArgs}
	case ast.NoteReference:
		return jNode{Type: "NoteReference", Loc: loc, ID2: v.ID}
	default:
		return jNode{Type: "Unknown", Loc: loc}
	}
}

func (j *jctx) inlines(ns []ast.Inline) []jNode {
	out := make([]jNode, len(ns))
	for i, n := range ns {
		out[i] = j.inline(n)
	}
	return out
}

type jDocument struct {
	Blocks  []jNode    `json:"blocks"`
	LocPool []locEntry `json:"locPool"`
	DocLoc  int        `json:"docLoc"`
}

// WriteJSON encodes doc as a single JSON object, pooling every source.Info
// it touches into one flat "locPool" array and replacing each node's own
// location with an integer index into it. ctx is accepted for parity with
// the other writers' (doc, ctx, out) contract; every AST node has a JSON
// representation, so this writer never produces diagnostics itself.
func WriteJSON(w io.Writer, doc *ast.Document, ctx diag.Resolver) ([]diag.Message, error) {
	j := &jctx{pool: NewPool()}
	docLoc := j.loc(doc.Info)
	blocks := j.blocks(doc.Blocks)
	out := jDocument{Blocks: blocks, DocLoc: docLoc, LocPool: j.buildLocPool()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return nil, enc.Encode(out)
}
