package ast

import "github.com/quarto-dev/q2-sub016/source"

// Block is implemented by every block-level node.
type Block interface {
	Node
	isBlock()
}

type Paragraph struct {
	Inlines []Inline
	Info    source.Info
}

func (n Paragraph) isBlock()                 {}
func (n Paragraph) SourceInfo() source.Info  { return n.Info }
func (n Paragraph) Walk(f func(Node) bool)   { walkInlines(n.Inlines, f) }
func (n Paragraph) Copy() Node               { return Paragraph{Inlines: CopyInlines(n.Inlines), Info: n.Info} }

type Plain struct {
	Inlines []Inline
	Info    source.Info
}

func (n Plain) isBlock()                {}
func (n Plain) SourceInfo() source.Info { return n.Info }
func (n Plain) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Plain) Copy() Node              { return Plain{Inlines: CopyInlines(n.Inlines), Info: n.Info} }

type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
	Info    source.Info
}

func (n Header) isBlock()                {}
func (n Header) SourceInfo() source.Info { return n.Info }
func (n Header) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Header) Copy() Node {
	return Header{Level: n.Level, Attr: n.Attr.Copy(), Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

// ListKind distinguishes the three qmd list block forms.
type ListKind int

const (
	BulletListKind ListKind = iota
	OrderedListKind
	ExampleListKind
)

type ListItem struct {
	Blocks []Block
	Info   source.Info
}

func (n ListItem) isBlock()                {}
func (n ListItem) SourceInfo() source.Info { return n.Info }
func (n ListItem) Walk(f func(Node) bool)  { walkBlocks(n.Blocks, f) }
func (n ListItem) Copy() Node              { return ListItem{Blocks: CopyBlocks(n.Blocks), Info: n.Info} }

// List covers BulletList, OrderedList and ExampleList; Kind distinguishes
// them and ListAttrs is only meaningful for OrderedListKind. Tight reports
// whether items wrap Plain (tight) or Paragraph (loose) blocks.
type List struct {
	Kind     ListKind
	ListAttr ListAttributes
	Tight    bool
	Items    []ListItem
	Info     source.Info
}

func (n List) isBlock()                {}
func (n List) SourceInfo() source.Info { return n.Info }
func (n List) Walk(f func(Node) bool) {
	for _, it := range n.Items {
		if !f(it) {
			return
		}
	}
}
func (n List) Copy() Node {
	items := make([]ListItem, len(n.Items))
	for i, it := range n.Items {
		items[i] = it.Copy().(ListItem)
	}
	return List{Kind: n.Kind, ListAttr: n.ListAttr, Tight: n.Tight, Items: items, Info: n.Info}
}

type BlockQuote struct {
	Blocks []Block
	Info   source.Info
}

func (n BlockQuote) isBlock()                {}
func (n BlockQuote) SourceInfo() source.Info { return n.Info }
func (n BlockQuote) Walk(f func(Node) bool)  { walkBlocks(n.Blocks, f) }
func (n BlockQuote) Copy() Node              { return BlockQuote{Blocks: CopyBlocks(n.Blocks), Info: n.Info} }

type CodeBlock struct {
	Attr Attr
	Text string
	Info source.Info
}

func (n CodeBlock) isBlock()                {}
func (n CodeBlock) SourceInfo() source.Info { return n.Info }
func (n CodeBlock) Walk(f func(Node) bool)  {}
func (n CodeBlock) Copy() Node              { return CodeBlock{Attr: n.Attr.Copy(), Text: n.Text, Info: n.Info} }

type RawBlock struct {
	Format string
	Text   string
	Info   source.Info
}

func (n RawBlock) isBlock()                {}
func (n RawBlock) SourceInfo() source.Info { return n.Info }
func (n RawBlock) Walk(f func(Node) bool)  {}
func (n RawBlock) Copy() Node              { return RawBlock{Format: n.Format, Text: n.Text, Info: n.Info} }

type Div struct {
	Attr   Attr
	Blocks []Block
	Info   source.Info
}

func (n Div) isBlock()                {}
func (n Div) SourceInfo() source.Info { return n.Info }
func (n Div) Walk(f func(Node) bool)  { walkBlocks(n.Blocks, f) }
func (n Div) Copy() Node              { return Div{Attr: n.Attr.Copy(), Blocks: CopyBlocks(n.Blocks), Info: n.Info} }

type HorizontalRule struct {
	Info source.Info
}

func (n HorizontalRule) isBlock()                {}
func (n HorizontalRule) SourceInfo() source.Info { return n.Info }
func (n HorizontalRule) Walk(f func(Node) bool)  {}
func (n HorizontalRule) Copy() Node              { return HorizontalRule{Info: n.Info} }

// ColSpec is one table column's alignment plus optional relative width.
type ColSpec struct {
	Align Alignment
	Width *float64
}

// TableRow is one row of table cells, each cell a nested block list (qmd
// pipe-table cells are Plain-only but the AST keeps Pandoc's generality).
type TableRow struct {
	Cells []TableCell
	Info  source.Info
}

type TableCell struct {
	Blocks []Block
	Info   source.Info
}

type TableHead struct {
	Rows []TableRow
	Info source.Info
}

type TableBody struct {
	Rows []TableRow
	Info source.Info
}

type TableFoot struct {
	Rows []TableRow
	Info source.Info
}

type Table struct {
	Attr    Attr
	Caption []Inline
	ColSpec []ColSpec
	Head    TableHead
	Bodies  []TableBody
	Foot    TableFoot
	Info    source.Info
}

func (n Table) isBlock()                {}
func (n Table) SourceInfo() source.Info { return n.Info }
func (n Table) Walk(f func(Node) bool) {
	if !walkInlines(n.Caption, f) {
		return
	}
	for _, r := range n.Head.Rows {
		for _, c := range r.Cells {
			if !walkBlocks(c.Blocks, f) {
				return
			}
		}
	}
	for _, b := range n.Bodies {
		for _, r := range b.Rows {
			for _, c := range r.Cells {
				if !walkBlocks(c.Blocks, f) {
					return
				}
			}
		}
	}
}
func (n Table) Copy() Node {
	cap := CopyInlines(n.Caption)
	cols := make([]ColSpec, len(n.ColSpec))
	copy(cols, n.ColSpec)
	return Table{
		Attr: n.Attr.Copy(), Caption: cap, ColSpec: cols,
		Head: copyHead(n.Head), Bodies: copyBodies(n.Bodies), Foot: copyFoot(n.Foot), Info: n.Info,
	}
}

func copyRow(r TableRow) TableRow {
	cells := make([]TableCell, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = TableCell{Blocks: CopyBlocks(c.Blocks), Info: c.Info}
	}
	return TableRow{Cells: cells, Info: r.Info}
}

func copyRows(rows []TableRow) []TableRow {
	out := make([]TableRow, len(rows))
	for i, r := range rows {
		out[i] = copyRow(r)
	}
	return out
}

func copyHead(h TableHead) TableHead { return TableHead{Rows: copyRows(h.Rows), Info: h.Info} }
func copyFoot(f TableFoot) TableFoot { return TableFoot{Rows: copyRows(f.Rows), Info: f.Info} }
func copyBodies(bs []TableBody) []TableBody {
	out := make([]TableBody, len(bs))
	for i, b := range bs {
		out[i] = TableBody{Rows: copyRows(b.Rows), Info: b.Info}
	}
	return out
}

// NoteDefinitionPara and NoteDefinitionFencedBlock hold footnote/endnote
// definitions keyed by id; they are consumed by the postprocessor when it
// links a NoteReference to its text and never reach a writer directly.
type NoteDefinitionPara struct {
	ID      string
	Inlines []Inline
	Info    source.Info
}

func (n NoteDefinitionPara) isBlock()                {}
func (n NoteDefinitionPara) SourceInfo() source.Info { return n.Info }
func (n NoteDefinitionPara) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n NoteDefinitionPara) Copy() Node {
	return NoteDefinitionPara{ID: n.ID, Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type NoteDefinitionFencedBlock struct {
	ID     string
	Blocks []Block
	Info   source.Info
}

func (n NoteDefinitionFencedBlock) isBlock()                {}
func (n NoteDefinitionFencedBlock) SourceInfo() source.Info { return n.Info }
func (n NoteDefinitionFencedBlock) Walk(f func(Node) bool)  { walkBlocks(n.Blocks, f) }
func (n NoteDefinitionFencedBlock) Copy() Node {
	return NoteDefinitionFencedBlock{ID: n.ID, Blocks: CopyBlocks(n.Blocks), Info: n.Info}
}

// LineBlock is Pandoc's `| line\n| line` construct: each element is one
// line's inlines.
type LineBlock struct {
	Lines [][]Inline
	Info  source.Info
}

func (n LineBlock) isBlock()                {}
func (n LineBlock) SourceInfo() source.Info { return n.Info }
func (n LineBlock) Walk(f func(Node) bool) {
	for _, line := range n.Lines {
		if !walkInlines(line, f) {
			return
		}
	}
}
func (n LineBlock) Copy() Node {
	lines := make([][]Inline, len(n.Lines))
	for i, l := range n.Lines {
		lines[i] = CopyInlines(l)
	}
	return LineBlock{Lines: lines, Info: n.Info}
}
