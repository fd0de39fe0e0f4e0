package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

// nctx carries the diagnostics accumulated across one WriteNative call - a
// node the native writer has no Pandoc syntax for (spec.md §4.7) is refused
// rather than printed, and the refusal becomes a Q-3-10 diagnostic here
// instead of a panic.
type nctx struct {
	diags []diag.Message
}

func unsupportedNative(info source.Info) diag.Message {
	if entry, ok := diag.LookupCode("Q-3-10"); ok {
		return diag.New(entry.Title, diag.KindError).WithCode("Q-3-10").WithProblem(entry.MessageTemplate).WithPrimary(info)
	}
	return diag.New("Unsupported construct", diag.KindError).WithCode("Q-3-10").WithPrimary(info)
}

func (n *nctx) refuse(info source.Info) {
	n.diags = append(n.diags, unsupportedNative(info))
}

// refusedNative reports whether b has no native rendering at all - currently
// just the two note-definition block kinds, which desugar into Span+Note
// elsewhere in the pipeline and have no bare Pandoc constructor of their own.
func refusedNative(b ast.Block) (source.Info, bool) {
	switch v := b.(type) {
	case ast.NoteDefinitionPara:
		return v.Info, true
	case ast.NoteDefinitionFencedBlock:
		return v.Info, true
	}
	return nil, false
}

// WriteNative renders doc in Pandoc's native (Lisp-like) syntax: one
// bracketed constructor per node, attributes as a (id,classes,kvs) triple.
// This is the format Pandoc itself emits for `-t native` and the simplest
// one to eyeball-diff in a round-trip test. ctx is accepted for parity with
// the other writers' (doc, ctx, out) contract; the native writer doesn't
// need to resolve any location itself.
func WriteNative(w io.Writer, doc *ast.Document, ctx diag.Resolver) ([]diag.Message, error) {
	n := &nctx{}
	var sb strings.Builder
	sb.WriteString("[\n")
	n.writeBlocksNative(&sb, doc.Blocks, 1)
	sb.WriteString("\n]\n")
	_, err := io.WriteString(w, sb.String())
	return n.diags, err
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func attrNative(a ast.Attr) string {
	classes := "[" + strings.Join(quoteAll(a.Classes), ",") + "]"
	var kvs []string
	for _, kv := range a.KeyVals {
		kvs = append(kvs, fmt.Sprintf("(%q,%q)", kv[0], kv[1]))
	}
	return fmt.Sprintf("(%q,%s,[%s])", a.ID, classes, strings.Join(kvs, ","))
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func (n *nctx) writeBlockNative(sb *strings.Builder, b ast.Block, depth int) {
	indent(sb, depth)
	switch v := b.(type) {
	case ast.Paragraph:
		sb.WriteString("Para ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Plain:
		sb.WriteString("Plain ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Header:
		fmt.Fprintf(sb, "Header %d %s ", v.Level, attrNative(v.Attr))
		n.writeInlinesNative(sb, v.Inlines)
	case ast.BlockQuote:
		sb.WriteString("BlockQuote [\n")
		n.writeBlocksNative(sb, v.Blocks, depth+1)
		sb.WriteString("\n")
		indent(sb, depth)
		sb.WriteString("]")
	case ast.CodeBlock:
		fmt.Fprintf(sb, "CodeBlock %s %q", attrNative(v.Attr), v.Text)
	case ast.RawBlock:
		fmt.Fprintf(sb, "RawBlock %q %q", v.Format, v.Text)
	case ast.Div:
		fmt.Fprintf(sb, "Div %s [\n", attrNative(v.Attr))
		n.writeBlocksNative(sb, v.Blocks, depth+1)
		sb.WriteString("\n")
		indent(sb, depth)
		sb.WriteString("]")
	case ast.HorizontalRule:
		sb.WriteString("HorizontalRule")
	case ast.List:
		n.writeListNative(sb, v, depth)
	case ast.Table:
		n.writeTableNative(sb, v, depth)
	case ast.LineBlock:
		sb.WriteString("LineBlock [\n")
		for i, line := range v.Lines {
			if i > 0 {
				sb.WriteString(",\n")
			}
			indent(sb, depth+1)
			n.writeInlinesNative(sb, line)
		}
		sb.WriteString("\n")
		indent(sb, depth)
		sb.WriteString("]")
	default:
		sb.WriteString("UnknownBlock")
	}
}

// writeBlocksNative joins blocks as a comma-separated Pandoc list, silently
// dropping (and reporting via n.diags) any block refusedNative rejects so a
// skipped node never leaves a stray leading/trailing comma behind.
func (n *nctx) writeBlocksNative(sb *strings.Builder, blocks []ast.Block, depth int) {
	first := true
	for _, b := range blocks {
		if info, refused := refusedNative(b); refused {
			n.refuse(info)
			continue
		}
		if !first {
			sb.WriteString(",\n")
		}
		n.writeBlockNative(sb, b, depth)
		first = false
	}
}

func (n *nctx) writeListNative(sb *strings.Builder, v ast.List, depth int) {
	kind := "BulletList"
	switch v.Kind {
	case ast.OrderedListKind:
		kind = fmt.Sprintf("OrderedList (%d,%s,%s)", v.ListAttr.Start, v.ListAttr.Style, v.ListAttr.Delim)
	case ast.ExampleListKind:
		kind = "ExampleList"
	}
	fmt.Fprintf(sb, "%s [\n", kind)
	for i, item := range v.Items {
		if i > 0 {
			sb.WriteString(",\n")
		}
		indent(sb, depth+1)
		sb.WriteString("[\n")
		n.writeBlocksNative(sb, item.Blocks, depth+2)
		sb.WriteString("\n")
		indent(sb, depth+1)
		sb.WriteString("]")
	}
	sb.WriteString("\n")
	indent(sb, depth)
	sb.WriteString("]")
}

func (n *nctx) writeTableNative(sb *strings.Builder, v ast.Table, depth int) {
	fmt.Fprintf(sb, "Table %s ", attrNative(v.Attr))
	sb.WriteString("Caption[")
	n.writeInlinesNative(sb, v.Caption)
	sb.WriteString("] ColSpec[")
	for i, cs := range v.ColSpec {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(sb, "%d", cs.Align)
	}
	sb.WriteString("]\n")
	indent(sb, depth+1)
	sb.WriteString("Head [\n")
	n.writeRowsNative(sb, v.Head.Rows, depth+2)
	sb.WriteString("\n")
	indent(sb, depth+1)
	sb.WriteString("]\n")
	for _, body := range v.Bodies {
		indent(sb, depth+1)
		sb.WriteString("Body [\n")
		n.writeRowsNative(sb, body.Rows, depth+2)
		sb.WriteString("\n")
		indent(sb, depth+1)
		sb.WriteString("]\n")
	}
	indent(sb, depth)
	sb.WriteString("Foot []")
}

func (n *nctx) writeRowsNative(sb *strings.Builder, rows []ast.TableRow, depth int) {
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(",\n")
		}
		indent(sb, depth)
		sb.WriteString("Row [")
		for j, c := range r.Cells {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("Cell [\n")
			n.writeBlocksNative(sb, c.Blocks, depth+1)
			sb.WriteString("\n")
			indent(sb, depth)
			sb.WriteString("]")
		}
		sb.WriteString("]")
	}
}

func (n *nctx) writeInlinesNative(sb *strings.Builder, inlines []ast.Inline) {
	sb.WriteString("[")
	for i, in := range inlines {
		if i > 0 {
			sb.WriteString(",")
		}
		n.writeInlineNative(sb, in)
	}
	sb.WriteString("]")
}

func (n *nctx) writeInlineNative(sb *strings.Builder, in ast.Inline) {
	switch v := in.(type) {
	case ast.Str:
		fmt.Fprintf(sb, "Str %q", v.Text)
	case ast.Space:
		sb.WriteString("Space")
	case ast.SoftBreak:
		sb.WriteString("SoftBreak")
	case ast.LineBreak:
		sb.WriteString("LineBreak")
	case ast.Emph:
		sb.WriteString("Emph ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Strong:
		sb.WriteString("Strong ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Underline:
		sb.WriteString("Underline ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Strikeout:
		sb.WriteString("Strikeout ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Subscript:
		sb.WriteString("Subscript ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Superscript:
		sb.WriteString("Superscript ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.SmallCaps:
		sb.WriteString("SmallCaps ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Code:
		fmt.Fprintf(sb, "Code %s %q", attrNative(v.Attr), v.Text)
	case ast.Math:
		kind := "InlineMath"
		if v.Kind == ast.DisplayMath {
			kind = "DisplayMath"
		}
		fmt.Fprintf(sb, "Math %s %q", kind, v.Text)
	case ast.Link:
		fmt.Fprintf(sb, "Link %s ", attrNative(v.Attr))
		n.writeInlinesNative(sb, v.Inlines)
		fmt.Fprintf(sb, " (%q,%q)", v.Target.URL, v.Target.Title)
	case ast.Image:
		fmt.Fprintf(sb, "Image %s ", attrNative(v.Attr))
		n.writeInlinesNative(sb, v.Inlines)
		fmt.Fprintf(sb, " (%q,%q)", v.Target.URL, v.Target.Title)
	case ast.Span:
		fmt.Fprintf(sb, "Span %s ", attrNative(v.Attr))
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Cite:
		sb.WriteString("Cite ")
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Quoted:
		kind := "SingleQuote"
		if v.Kind == ast.DoubleQuote {
			kind = "DoubleQuote"
		}
		fmt.Fprintf(sb, "Quoted %s ", kind)
		n.writeInlinesNative(sb, v.Inlines)
	case ast.Note:
		sb.WriteString("Note [\n")
		n.writeBlocksNative(sb, v.Blocks, 1)
		sb.WriteString("\n]")
	case ast.RawInline:
		fmt.Fprintf(sb, "RawInline %q %q", v.Format, v.Text)
	case ast.Shortcode:
		fmt.Fprintf(sb, "Shortcode %q %v %v", v.Name, v.Args, v.KwArgs)
	case ast.NoteReference:
		fmt.Fprintf(sb, "NoteReference %q", v.ID)
	default:
		sb.WriteString("UnknownInline")
	}
}
