// Package lift walks the scanner's token stream and builds the typed
// Pandoc-isomorphic AST, attaching source.Info to every node. There is one
// function per construct (liftHeader, liftParagraph, liftList, ...), the
// same division the spec's CST->AST Lifter names; since this scanner emits
// a flat classified-line stream rather than a separate concrete syntax
// tree (see SPEC_FULL.md §2), lift functions consume token.Token runs
// directly instead of CST nodes - the same shape as org.Document's
// token-to-Node parseFns.
package lift

import (
	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/scanner"
	"github.com/quarto-dev/q2-sub016/source"
	"github.com/quarto-dev/q2-sub016/token"
)

// ctx carries per-parse state: the source bytes, the file it belongs to,
// the full token stream, and the diagnostics lift accumulates along the
// way. It is analogous to org.Document during parsing.
type ctx struct {
	src          []byte
	file         source.FileId
	toks         []token.Token
	smart        bool
	diags        []diag.Message
	table        *diag.Table
	frontmatter  *ast.RawBlock
}

// Result is everything Lift produces for one document.
type Result struct {
	Document    *ast.Document
	Frontmatter *ast.RawBlock // nil if the source had no YAML frontmatter
	Diagnostics []diag.Message
}

// Lift scans src and builds the AST. smartTypography toggles the dash/
// quote/ellipsis rewrites of spec.md §4.3.
func Lift(src []byte, file source.FileId, smartTypography bool) Result {
	toks := scanner.Scan(src)
	c := &ctx{src: src, file: file, toks: toks, smart: smartTypography, table: diag.DefaultTable()}

	start := 0
	if len(toks) > 0 && toks[0].Kind == token.KindYAMLFence {
		if end, ok := c.findYAMLClose(); ok {
			fmInfo := source.NewOriginal(file, toks[0].Start, toks[end].End)
			raw := ast.RawBlock{Format: "yaml-frontmatter", Text: string(src[toks[0].Start:toks[end].End]), Info: fmInfo}
			c.frontmatter = &raw
			start = end + 1
		}
	}

	blocks := c.liftBlocks(start, len(toks))
	doc := &ast.Document{Blocks: blocks, Info: source.NewOriginal(file, 0, len(src))}
	return Result{Document: doc, Frontmatter: c.frontmatter, Diagnostics: c.diags}
}

func (c *ctx) emit(ev diag.ErrorEvent) {
	c.diags = append(c.diags, diag.Report(c.table, ev))
}

func (c *ctx) findYAMLClose() (int, bool) {
	for i := 1; i < len(c.toks); i++ {
		if c.toks[i].Kind == token.KindYAMLFence {
			return i, true
		}
	}
	return 0, false
}

// lineInfo returns the Info for tok's content, including its trailing
// newline byte when present so that Combine can merge consecutive lines
// into a single contiguous Original (spec.md §3 Concat/Original invariant).
func (c *ctx) lineInfo(tok token.Token) source.Info {
	end := tok.End
	if tok.HasNewline {
		end++
	}
	return source.NewOriginal(c.file, tok.ContentStart(), end)
}

// spanInfo covers tokens [start,end) via repeated Combine, which collapses
// contiguous same-file Original pieces and falls back to Concat otherwise.
func (c *ctx) spanInfo(start, end int) source.Info {
	info := c.lineInfo(c.toks[start])
	for i := start + 1; i < end; i++ {
		info = source.Combine(info, c.lineInfo(c.toks[i]))
	}
	return info
}

// liftBlocks consumes tokens [start,end) producing a block list, the
// top-level loop every container (document, block quote, list item,
// fenced div) shares.
func (c *ctx) liftBlocks(start, end int) []ast.Block {
	var blocks []ast.Block
	i := start
	for i < end {
		tok := c.toks[i]
		var consumed int
		var blk ast.Block
		switch tok.Kind {
		case token.KindBlank:
			i++
			continue
		case token.KindHeader:
			consumed, blk = c.liftHeader(i)
		case token.KindBlockquote:
			consumed, blk = c.liftBlockQuote(i, end)
		case token.KindFenceCode:
			consumed, blk = c.liftCodeBlock(i, end)
		case token.KindFenceDiv:
			consumed, blk = c.liftFencedDiv(i, end)
		case token.KindHRule:
			consumed, blk = 1, ast.HorizontalRule{Info: c.lineInfo(tok)}
		case token.KindFootnoteDef:
			consumed, blk = c.liftFootnoteDefinition(i, end)
		case token.KindUnordered, token.KindOrdered:
			consumed, blk = c.liftList(i, end)
		case token.KindPipeRow:
			consumed, blk = c.liftTable(i, end)
		default:
			consumed, blk = c.liftParagraph(i, end)
		}
		if consumed <= 0 {
			consumed = 1
		}
		blocks = append(blocks, blk)
		i += consumed
	}
	return blocks
}

// isBlockStart reports whether tok begins a new block construct, the stop
// condition paragraph/list/quote runs use to know where a text run ends.
func isBlockStart(k token.Kind) bool {
	switch k {
	case token.KindBlank, token.KindHeader, token.KindBlockquote, token.KindFenceCode,
		token.KindFenceDiv, token.KindHRule, token.KindFootnoteDef, token.KindUnordered,
		token.KindOrdered, token.KindPipeRow:
		return true
	default:
		return false
	}
}

func (c *ctx) liftHeader(i int) (int, ast.Block) {
	tok := c.toks[i]
	m := tok.Matches // [full, hashes, spaces, text]
	level := len(m[1])
	textStart := tok.Start + len(m[1]) + len(m[2])
	text := string(c.src[textStart:tok.End])
	rest, attr, _ := extractTrailingAttr(text)
	contentEnd := textStart + len(rest)
	inlines := c.parseInlineString(rest, textStart)
	info := source.NewOriginal(c.file, tok.Start, tok.End)
	_ = contentEnd
	return 1, ast.Header{Level: level, Attr: attr, Inlines: inlines, Info: info}
}

// liftParagraph groups a run of plain-text lines (and any stray lines that
// don't start a more specific block) into one Paragraph.
func (c *ctx) liftParagraph(start, end int) (int, ast.Block) {
	i := start
	for i < end && !isBlockStart(c.toks[i].Kind) {
		i++
	}
	if i == start {
		i = start + 1
	}
	inlines := c.parseInlineSpan(start, i)
	info := c.spanInfo(start, i)
	return i - start, ast.Paragraph{Inlines: inlines, Info: info}
}

// parseInlineSpan runs the inline scanner over each physical line in
// [start,end) independently (constructs never span a hard line break in
// this implementation - see DESIGN.md), joining consecutive lines with a
// SoftBreak anchored at the real newline byte.
func (c *ctx) parseInlineSpan(start, end int) []ast.Inline {
	var out []ast.Inline
	for i := start; i < end; i++ {
		tok := c.toks[i]
		out = append(out, c.parseInlineLine(tok)...)
		if i+1 < end && tok.HasNewline {
			out = append(out, ast.SoftBreak{Info: source.NewOriginal(c.file, tok.End, tok.End+1)})
		}
	}
	return out
}

func (c *ctx) parseInlineLine(tok token.Token) []ast.Inline {
	base := tok.ContentStart()
	if base > tok.End {
		base = tok.End
	}
	input := string(c.src[base:tok.End])
	return c.parseInlineString(input, base)
}
