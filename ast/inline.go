package ast

import "github.com/quarto-dev/q2-sub016/source"

// Inline is implemented by every inline-level node.
type Inline interface {
	Node
	isInline()
}

type Str struct {
	Text string
	Info source.Info
}

func (n Str) isInline()                {}
func (n Str) SourceInfo() source.Info { return n.Info }
func (n Str) Walk(f func(Node) bool)  {}
func (n Str) Copy() Node              { return Str{Text: n.Text, Info: n.Info} }

type Space struct{ Info source.Info }

func (n Space) isInline()                {}
func (n Space) SourceInfo() source.Info { return n.Info }
func (n Space) Walk(f func(Node) bool)  {}
func (n Space) Copy() Node              { return Space{Info: n.Info} }

type SoftBreak struct{ Info source.Info }

func (n SoftBreak) isInline()                {}
func (n SoftBreak) SourceInfo() source.Info { return n.Info }
func (n SoftBreak) Walk(f func(Node) bool)  {}
func (n SoftBreak) Copy() Node              { return SoftBreak{Info: n.Info} }

type LineBreak struct{ Info source.Info }

func (n LineBreak) isInline()                {}
func (n LineBreak) SourceInfo() source.Info { return n.Info }
func (n LineBreak) Walk(f func(Node) bool)  {}
func (n LineBreak) Copy() Node              { return LineBreak{Info: n.Info} }

// wrapper is the shared shape of Emph/Strong/Underline/Strikeout/Subscript/
// Superscript/SmallCaps - each just wraps a run of inlines.
type Emph struct {
	Inlines []Inline
	Info    source.Info
}

func (n Emph) isInline()                {}
func (n Emph) SourceInfo() source.Info { return n.Info }
func (n Emph) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Emph) Copy() Node              { return Emph{Inlines: CopyInlines(n.Inlines), Info: n.Info} }

type Strong struct {
	Inlines []Inline
	Info    source.Info
}

func (n Strong) isInline()                {}
func (n Strong) SourceInfo() source.Info { return n.Info }
func (n Strong) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Strong) Copy() Node              { return Strong{Inlines: CopyInlines(n.Inlines), Info: n.Info} }

type Underline struct {
	Inlines []Inline
	Info    source.Info
}

func (n Underline) isInline()                {}
func (n Underline) SourceInfo() source.Info { return n.Info }
func (n Underline) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Underline) Copy() Node {
	return Underline{Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Strikeout struct {
	Inlines []Inline
	Info    source.Info
}

func (n Strikeout) isInline()                {}
func (n Strikeout) SourceInfo() source.Info { return n.Info }
func (n Strikeout) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Strikeout) Copy() Node {
	return Strikeout{Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Subscript struct {
	Inlines []Inline
	Info    source.Info
}

func (n Subscript) isInline()                {}
func (n Subscript) SourceInfo() source.Info { return n.Info }
func (n Subscript) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Subscript) Copy() Node {
	return Subscript{Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Superscript struct {
	Inlines []Inline
	Info    source.Info
}

func (n Superscript) isInline()                {}
func (n Superscript) SourceInfo() source.Info { return n.Info }
func (n Superscript) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Superscript) Copy() Node {
	return Superscript{Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type SmallCaps struct {
	Inlines []Inline
	Info    source.Info
}

func (n SmallCaps) isInline()                {}
func (n SmallCaps) SourceInfo() source.Info { return n.Info }
func (n SmallCaps) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n SmallCaps) Copy() Node {
	return SmallCaps{Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Code struct {
	Attr Attr
	Text string
	Info source.Info
}

func (n Code) isInline()                {}
func (n Code) SourceInfo() source.Info { return n.Info }
func (n Code) Walk(f func(Node) bool)  {}
func (n Code) Copy() Node              { return Code{Attr: n.Attr.Copy(), Text: n.Text, Info: n.Info} }

type Math struct {
	Kind MathType
	Text string
	Info source.Info
}

func (n Math) isInline()                {}
func (n Math) SourceInfo() source.Info { return n.Info }
func (n Math) Walk(f func(Node) bool)  {}
func (n Math) Copy() Node              { return Math{Kind: n.Kind, Text: n.Text, Info: n.Info} }

type Link struct {
	Attr    Attr
	Inlines []Inline
	Target  Target
	Info    source.Info
}

func (n Link) isInline()                {}
func (n Link) SourceInfo() source.Info { return n.Info }
func (n Link) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Link) Copy() Node {
	return Link{Attr: n.Attr.Copy(), Inlines: CopyInlines(n.Inlines), Target: n.Target, Info: n.Info}
}

type Image struct {
	Attr    Attr
	Inlines []Inline
	Target  Target
	Info    source.Info
}

func (n Image) isInline()                {}
func (n Image) SourceInfo() source.Info { return n.Info }
func (n Image) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Image) Copy() Node {
	return Image{Attr: n.Attr.Copy(), Inlines: CopyInlines(n.Inlines), Target: n.Target, Info: n.Info}
}

type Span struct {
	Attr    Attr
	Inlines []Inline
	Info    source.Info
}

func (n Span) isInline()                {}
func (n Span) SourceInfo() source.Info { return n.Info }
func (n Span) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Span) Copy() Node {
	return Span{Attr: n.Attr.Copy(), Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Cite struct {
	Citations []Citation
	Inlines   []Inline
	Info      source.Info
}

func (n Cite) isInline()                {}
func (n Cite) SourceInfo() source.Info { return n.Info }
func (n Cite) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Cite) Copy() Node {
	cs := make([]Citation, len(n.Citations))
	for i, c := range n.Citations {
		cs[i] = Citation{ID: c.ID, Prefix: CopyInlines(c.Prefix), Suffix: CopyInlines(c.Suffix), Mode: c.Mode, NoteNum: c.NoteNum, Hash: c.Hash}
	}
	return Cite{Citations: cs, Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

type Quoted struct {
	Kind    QuoteType
	Inlines []Inline
	Info    source.Info
}

func (n Quoted) isInline()                {}
func (n Quoted) SourceInfo() source.Info { return n.Info }
func (n Quoted) Walk(f func(Node) bool)  { walkInlines(n.Inlines, f) }
func (n Quoted) Copy() Node {
	return Quoted{Kind: n.Kind, Inlines: CopyInlines(n.Inlines), Info: n.Info}
}

// Note is an inline footnote: its content is a sequence of blocks, almost
// always a single Para, exactly as Pandoc models it.
type Note struct {
	Blocks []Block
	Info   source.Info
}

func (n Note) isInline()                {}
func (n Note) SourceInfo() source.Info { return n.Info }
func (n Note) Walk(f func(Node) bool)  { walkBlocks(n.Blocks, f) }
func (n Note) Copy() Node              { return Note{Blocks: CopyBlocks(n.Blocks), Info: n.Info} }

type RawInline struct {
	Format string
	Text   string
	Info   source.Info
}

func (n RawInline) isInline()                {}
func (n RawInline) SourceInfo() source.Info { return n.Info }
func (n RawInline) Walk(f func(Node) bool)  {}
func (n RawInline) Copy() Node              { return RawInline{Format: n.Format, Text: n.Text, Info: n.Info} }

// Shortcode is qmd's `{{< name arg kwarg=val >}}` construct.
type Shortcode struct {
	Name   string
	Args   []string
	KwArgs [][2]string
	Info   source.Info
}

func (n Shortcode) isInline()                {}
func (n Shortcode) SourceInfo() source.Info { return n.Info }
func (n Shortcode) Walk(f func(Node) bool)  {}
func (n Shortcode) Copy() Node {
	args := make([]string, len(n.Args))
	copy(args, n.Args)
	kws := make([][2]string, len(n.KwArgs))
	copy(kws, n.KwArgs)
	return Shortcode{Name: n.Name, Args: args, KwArgs: kws, Info: n.Info}
}

// NoteReference is an intermediate inline produced by the lifter for `[^id]`
// footnote references; the postprocessor desugars every NoteReference into
// a Span before the AST is considered final (spec.md §3 invariant 3). It is
// exported (rather than package-private) solely so postprocess can match on
// it without an import cycle; writers must never see one.
type NoteReference struct {
	ID   string
	Info source.Info
}

func (n NoteReference) isInline()                {}
func (n NoteReference) SourceInfo() source.Info { return n.Info }
func (n NoteReference) Walk(f func(Node) bool)  {}
func (n NoteReference) Copy() Node              { return NoteReference{ID: n.ID, Info: n.Info} }
