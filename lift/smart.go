package lift

import (
	"strings"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

// hasUnbalancedSmartQuote reports whether s holds an odd number of '"'
// characters, i.e. a double quote left without its pair. Single quotes are
// not counted.
//
// Balance is checked only within the span it is given (an emphasis run's
// content) rather than across the whole document, which is sufficient
// since qmd smart quotes never span a hard line break either.
func hasUnbalancedSmartQuote(s string) bool {
	return strings.Count(s, `"`)%2 == 1
}

// quoteDepth counts unmatched opening quotes seen so far in one
// parseInlineString scan, kept separately per quote family so a stray '"'
// doesn't get paired against an open '.
type quoteDepth struct {
	double int
	single int
}

// trySmartQuote rewrites a literal ' or " into its curly glyph, emitting a
// Str that carries the glyph itself, and tracks open/close via a simple
// heuristic: a quote at the start of the input or after a space, tab, '(',
// '[' or '{' opens, otherwise it closes.
// A closing quote with no matching open in qd is reported as Q-2-10 rather
// than silently rendered, since it means the author's quoting is unbalanced.
func (c *ctx) trySmartQuote(input string, pos, base int, qd *quoteDepth) (int, ast.Inline) {
	ch := input[pos]
	opening := pos == 0 || isSmartQuoteBoundary(input[pos-1])
	info := source.NewOriginal(c.file, base+pos, base+pos+1)
	var glyph string
	switch {
	case ch == '"' && opening:
		qd.double++
		glyph = "“"
	case ch == '"':
		if qd.double == 0 {
			c.emit(diag.ErrorEvent{State: "inline.quote.close", Symbol: "quote-char", Info: info,
				Captures: map[string]source.Info{"quote": info}})
		} else {
			qd.double--
		}
		glyph = "”"
	case ch == '\'' && opening:
		qd.single++
		glyph = "‘"
	default:
		if qd.single == 0 {
			c.emit(diag.ErrorEvent{State: "inline.quote.close", Symbol: "quote-char", Info: info,
				Captures: map[string]source.Info{"quote": info}})
		} else {
			qd.single--
		}
		glyph = "’"
	}
	return 1, ast.Str{Text: glyph, Info: info}
}

func isSmartQuoteBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '(' || b == '[' || b == '{'
}

// trySmartDash rewrites '--' to an en dash and '---' to an em dash.
func (c *ctx) trySmartDash(input string, pos, base int) (int, ast.Inline) {
	if pos+2 < len(input) && input[pos:pos+3] == "---" {
		info := source.NewOriginal(c.file, base+pos, base+pos+3)
		return 3, ast.Str{Text: "—", Info: info}
	}
	if pos+1 < len(input) && input[pos:pos+2] == "--" {
		info := source.NewOriginal(c.file, base+pos, base+pos+2)
		return 2, ast.Str{Text: "–", Info: info}
	}
	return 0, nil
}

// trySmartEllipsis rewrites '...' to a single ellipsis glyph.
func (c *ctx) trySmartEllipsis(input string, pos, base int) (int, ast.Inline) {
	if pos+2 < len(input) && input[pos:pos+3] == "..." {
		info := source.NewOriginal(c.file, base+pos, base+pos+3)
		return 3, ast.Str{Text: "…", Info: info}
	}
	return 0, nil
}
