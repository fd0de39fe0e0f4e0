// Package ast defines the Pandoc-isomorphic abstract syntax tree: every
// block and inline carries a source.Info alongside its Pandoc-shaped
// payload. Node types follow the teacher's (go-org) convention of a small
// shared interface plus one struct per variant.
package ast

import "github.com/quarto-dev/q2-sub016/source"

// Node is implemented by every Block and Inline. It mirrors org.Node's
// Position()/Range()/Copy() trio, renamed to this domain's vocabulary.
type Node interface {
	SourceInfo() source.Info
	Walk(func(Node) bool)
	Copy() Node
}

// Attr is Pandoc's (identifier, classes, key-value attributes) triple.
type Attr struct {
	ID      string
	Classes []string
	KeyVals [][2]string
}

func (a Attr) Copy() Attr {
	classes := make([]string, len(a.Classes))
	copy(classes, a.Classes)
	kvs := make([][2]string, len(a.KeyVals))
	copy(kvs, a.KeyVals)
	return Attr{ID: a.ID, Classes: classes, KeyVals: kvs}
}

// Get returns the value for key, and whether it was present.
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KeyVals {
		if kv[0] == key {
			return kv[1], true
		}
	}
	return "", false
}

// Alignment is a pipe-table column alignment.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// ListNumberStyle/Delim are reserved for OrderedList rendering; qmd only
// needs decimal-with-period today but Pandoc's AST carries the field.
type ListAttributes struct {
	Start int
	Style string // "Decimal", "LowerAlpha", "UpperAlpha", "LowerRoman", "UpperRoman"
	Delim string // "Period", "OneParen", "TwoParens"
}

// QuoteType distinguishes Quoted inlines.
type QuoteType int

const (
	SingleQuote QuoteType = iota
	DoubleQuote
)

// MathType distinguishes Math inlines.
type MathType int

const (
	InlineMath MathType = iota
	DisplayMath
)

// Target is a Link/Image's (url, title) pair.
type Target struct {
	URL   string
	Title string
}

// Citation is one entry inside a Cite inline.
type Citation struct {
	ID      string
	Prefix  []Inline
	Suffix  []Inline
	Mode    string // "NormalCitation", "AuthorInText", "SuppressAuthor"
	NoteNum int
	Hash    int
}

// Document is the root node.
type Document struct {
	Meta   ConfigValue
	Blocks []Block
	Info   source.Info
}

func (d *Document) SourceInfo() source.Info { return d.Info }
func (d *Document) Walk(f func(Node) bool) {
	for _, b := range d.Blocks {
		if !f(b) {
			return
		}
	}
}
func (d *Document) Copy() Node {
	blocks := make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = b.Copy().(Block)
	}
	return &Document{Meta: d.Meta, Blocks: blocks, Info: d.Info}
}

// CopyInlines deep-copies a slice of inlines, a helper every inline-bearing
// block/inline variant below uses, mirroring org.CopyNodes.
func CopyInlines(in []Inline) []Inline {
	if in == nil {
		return nil
	}
	out := make([]Inline, len(in))
	for i, n := range in {
		out[i] = n.Copy().(Inline)
	}
	return out
}

// CopyBlocks deep-copies a slice of blocks.
func CopyBlocks(in []Block) []Block {
	if in == nil {
		return nil
	}
	out := make([]Block, len(in))
	for i, n := range in {
		out[i] = n.Copy().(Block)
	}
	return out
}

func walkInlines(in []Inline, f func(Node) bool) bool {
	for _, n := range in {
		if !f(n) {
			return false
		}
	}
	return true
}

func walkBlocks(in []Block, f func(Node) bool) bool {
	for _, n := range in {
		if !f(n) {
			return false
		}
	}
	return true
}
