package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
)

// WriteQMD renders doc back to qmd/Pandoc-Markdown source text. It does not
// attempt byte-for-byte round-tripping of the original input (smart
// typography and inline-emphasis normalization are lossy by design - see
// DESIGN.md); it guarantees only that re-parsing its output reproduces an
// AST with the same shape and text content. ctx is accepted for parity with
// the other writers' (doc, ctx, out) contract; every node has a qmd
// rendering, so this writer never produces diagnostics itself.
func WriteQMD(w io.Writer, doc *ast.Document, ctx diag.Resolver) ([]diag.Message, error) {
	var sb strings.Builder
	writeBlocksQMD(&sb, doc.Blocks, 0)
	_, err := io.WriteString(w, sb.String())
	return nil, err
}

func writeBlocksQMD(sb *strings.Builder, blocks []ast.Block, listDepth int) {
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeBlockQMD(sb, b, listDepth)
	}
}

func attrQMD(a ast.Attr) string {
	if a.ID == "" && len(a.Classes) == 0 && len(a.KeyVals) == 0 {
		return ""
	}
	var parts []string
	if a.ID != "" {
		parts = append(parts, "#"+a.ID)
	}
	for _, c := range a.Classes {
		parts = append(parts, "."+c)
	}
	for _, kv := range a.KeyVals {
		parts = append(parts, fmt.Sprintf("%s=%q", kv[0], kv[1]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func writeBlockQMD(sb *strings.Builder, b ast.Block, listDepth int) {
	switch v := b.(type) {
	case ast.Paragraph:
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("\n")
	case ast.Plain:
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("\n")
	case ast.Header:
		sb.WriteString(strings.Repeat("#", v.Level) + " ")
		writeInlinesQMD(sb, v.Inlines)
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(" " + a)
		}
		sb.WriteString("\n")
	case ast.BlockQuote:
		var inner strings.Builder
		writeBlocksQMD(&inner, v.Blocks, listDepth)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}
	case ast.CodeBlock:
		fence := "```"
		sb.WriteString(fence)
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(a)
		}
		sb.WriteString("\n")
		sb.WriteString(v.Text)
		if !strings.HasSuffix(v.Text, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(fence + "\n")
	case ast.RawBlock:
		sb.WriteString(v.Text)
		if !strings.HasSuffix(v.Text, "\n") {
			sb.WriteString("\n")
		}
	case ast.Div:
		sb.WriteString(":::")
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(a)
		}
		sb.WriteString("\n")
		writeBlocksQMD(sb, v.Blocks, listDepth)
		sb.WriteString(":::\n")
	case ast.HorizontalRule:
		sb.WriteString("---\n")
	case ast.List:
		writeListQMD(sb, v, listDepth)
	case ast.Table:
		writeTableQMD(sb, v)
	case ast.LineBlock:
		for _, line := range v.Lines {
			sb.WriteString("| ")
			writeInlinesQMD(sb, line)
			sb.WriteString("\n")
		}
	case ast.NoteDefinitionPara:
		sb.WriteString("[^" + v.ID + "]: ")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("\n")
	case ast.NoteDefinitionFencedBlock:
		sb.WriteString("[^" + v.ID + "]:\n")
		writeBlocksQMD(sb, v.Blocks, listDepth)
	}
}

func writeListQMD(sb *strings.Builder, v ast.List, depth int) {
	pad := strings.Repeat("  ", depth)
	for i, it := range v.Items {
		marker := "-"
		if v.Kind == ast.OrderedListKind {
			marker = fmt.Sprintf("%d.", v.ListAttr.Start+i)
		}
		var inner strings.Builder
		writeBlocksQMD(&inner, it.Blocks, depth+1)
		lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
		for j, line := range lines {
			if j == 0 {
				sb.WriteString(pad + marker + " " + line + "\n")
			} else {
				sb.WriteString(pad + "  " + line + "\n")
			}
		}
	}
}

func writeTableQMD(sb *strings.Builder, v ast.Table) {
	writeTableRowQMD(sb, v.Head.Rows)
	sb.WriteString("|")
	for _, cs := range v.ColSpec {
		switch cs.Align {
		case ast.AlignLeft:
			sb.WriteString(" :--- |")
		case ast.AlignRight:
			sb.WriteString(" ---: |")
		case ast.AlignCenter:
			sb.WriteString(" :---: |")
		default:
			sb.WriteString(" --- |")
		}
	}
	sb.WriteString("\n")
	for _, body := range v.Bodies {
		writeTableRowQMD(sb, body.Rows)
	}
	if len(v.Caption) > 0 {
		sb.WriteString(": ")
		writeInlinesQMD(sb, v.Caption)
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(" " + a)
		}
		sb.WriteString("\n")
	}
}

func writeTableRowQMD(sb *strings.Builder, rows []ast.TableRow) {
	for _, r := range rows {
		sb.WriteString("|")
		for _, c := range r.Cells {
			sb.WriteString(" ")
			var cell strings.Builder
			writeBlocksQMD(&cell, c.Blocks, 0)
			sb.WriteString(strings.TrimRight(cell.String(), "\n"))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
}

func writeInlinesQMD(sb *strings.Builder, inlines []ast.Inline) {
	for _, n := range inlines {
		writeInlineQMD(sb, n)
	}
}

func writeInlineQMD(sb *strings.Builder, n ast.Inline) {
	switch v := n.(type) {
	case ast.Str:
		sb.WriteString(v.Text)
	case ast.Space:
		sb.WriteString(" ")
	case ast.SoftBreak:
		sb.WriteString("\n")
	case ast.LineBreak:
		sb.WriteString("\\\n")
	case ast.Emph:
		sb.WriteString("*")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("*")
	case ast.Strong:
		sb.WriteString("**")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("**")
	case ast.Underline:
		sb.WriteString("[")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("]{.underline}")
	case ast.Strikeout:
		sb.WriteString("~~")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("~~")
	case ast.Subscript:
		sb.WriteString("~")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("~")
	case ast.Superscript:
		sb.WriteString("^")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("^")
	case ast.SmallCaps:
		sb.WriteString("[")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("]{.smallcaps}")
	case ast.Code:
		sb.WriteString("`" + v.Text + "`")
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(a)
		}
	case ast.Math:
		if v.Kind == ast.DisplayMath {
			sb.WriteString("$$" + v.Text + "$$")
		} else {
			sb.WriteString("$" + v.Text + "$")
		}
	case ast.Link:
		sb.WriteString("[")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString(fmt.Sprintf("](%s", v.Target.URL))
		if v.Target.Title != "" {
			sb.WriteString(fmt.Sprintf(" %q", v.Target.Title))
		}
		sb.WriteString(")")
	case ast.Image:
		sb.WriteString("![")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString(fmt.Sprintf("](%s", v.Target.URL))
		if v.Target.Title != "" {
			sb.WriteString(fmt.Sprintf(" %q", v.Target.Title))
		}
		sb.WriteString(")")
	case ast.Span:
		sb.WriteString("[")
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString("]")
		if a := attrQMD(v.Attr); a != "" {
			sb.WriteString(a)
		}
	case ast.Cite:
		for _, cit := range v.Citations {
			sb.WriteString("[@" + cit.ID + "]")
		}
	case ast.Quoted:
		open, close := "'", "'"
		if v.Kind == ast.DoubleQuote {
			open, close = `"`, `"`
		}
		sb.WriteString(open)
		writeInlinesQMD(sb, v.Inlines)
		sb.WriteString(close)
	case ast.Note:
		sb.WriteString("^[")
		var inner strings.Builder
		writeBlocksQMD(&inner, v.Blocks, 0)
		sb.WriteString(strings.TrimRight(inner.String(), "\n"))
		sb.WriteString("]")
	case ast.RawInline:
		sb.WriteString(v.Text)
	case ast.Shortcode:
		sb.WriteString("{{< " + v.Name)
		for _, a := range v.Args {
			sb.WriteString(" " + a)
		}
		for _, kv := range v.KwArgs {
			sb.WriteString(fmt.Sprintf(" %s=%q", kv[0], kv[1]))
		}
		sb.WriteString(" >}}")
	case ast.NoteReference:
		sb.WriteString("[^" + v.ID + "]")
	}
}
