package lift

import (
	"strings"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

// parseInlineString is the character-dispatch inline scanner, directly
// modeled on org.parseInlineWithPos: scan left to right, and whenever a
// special character might start a construct, try to consume it; literal
// runs in between are split into Str/Space leaves by splitPlainText.
func (c *ctx) parseInlineString(input string, base int) []ast.Inline {
	var nodes []ast.Inline
	var qd quoteDepth
	previous, current := 0, 0
	for current < len(input) {
		consumed := 0
		var node ast.Inline
		switch input[current] {
		case '*', '_':
			consumed, node = c.tryEmphasisRun(input, current, base)
		case '~':
			consumed, node = c.tryTilde(input, current, base)
		case '=':
			consumed, node = c.tryHighlight(input, current, base)
		case '`':
			consumed, node = c.tryCodeSpan(input, current, base)
		case '$':
			consumed, node = c.tryMath(input, current, base)
		case '!':
			consumed, node = c.tryImage(input, current, base)
		case '[':
			consumed, node = c.tryBracket(input, current, base)
		case '^':
			consumed, node = c.tryCaret(input, current, base)
		case '{':
			consumed, node = c.tryShortcode(input, current, base)
		case '"', '\'':
			if c.smart {
				consumed, node = c.trySmartQuote(input, current, base, &qd)
			}
		case '-':
			if c.smart {
				consumed, node = c.trySmartDash(input, current, base)
			}
		case '.':
			if c.smart {
				consumed, node = c.trySmartEllipsis(input, current, base)
			}
		}
		if consumed != 0 {
			if current > previous {
				nodes = append(nodes, splitPlainText(c.file, input[previous:current], base+previous)...)
			}
			if node != nil {
				nodes = append(nodes, node)
			}
			current += consumed
			previous = current
		} else {
			current++
		}
	}
	if previous < len(input) {
		nodes = append(nodes, splitPlainText(c.file, input[previous:], base+previous)...)
	}
	return nodes
}

// splitPlainText splits literal text into Str/Space leaves: a run of plain
// ASCII spaces becomes one Space node regardless of run length (Pandoc
// collapses inline whitespace), matching spec.md §3's Str/Space variants.
func splitPlainText(file source.FileId, text string, base int) []ast.Inline {
	var out []ast.Inline
	i := 0
	last := 0
	for i < len(text) {
		if text[i] == ' ' || text[i] == '\t' {
			if i > last {
				out = append(out, ast.Str{Text: text[last:i], Info: source.NewOriginal(file, base+last, base+i)})
			}
			j := i
			for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			out = append(out, ast.Space{Info: source.NewOriginal(file, base+i, base+j)})
			i, last = j, j
			continue
		}
		i++
	}
	if last < len(text) {
		out = append(out, ast.Str{Text: text[last:], Info: source.NewOriginal(file, base+last, base+len(text))})
	}
	return out
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' }

// tryEmphasisRun implements a simplified left/right-flanking emphasis rule
// (not the full 17-case CommonMark algorithm - see DESIGN.md): a run of 1
// or 2 '*'/'_' not followed by whitespace opens; the first later run of the
// same marker that is at least as long and not preceded by whitespace
// closes.
func (c *ctx) tryEmphasisRun(input string, start, base int) (int, ast.Inline) {
	marker := input[start]
	runLen := 1
	for start+runLen < len(input) && input[start+runLen] == marker {
		runLen++
	}
	if runLen > 2 || start+runLen >= len(input) {
		return 0, nil
	}
	if isSpaceByte(input[start+runLen]) {
		return 0, nil
	}
	j := start + runLen
	for j < len(input) {
		if input[j] != marker {
			j++
			continue
		}
		closeLen := 1
		for j+closeLen < len(input) && input[j+closeLen] == marker {
			closeLen++
		}
		if closeLen >= runLen && !isSpaceByte(input[j-1]) {
			contentStart, contentEnd := start+runLen, j
			inner := input[contentStart:contentEnd]
			if hasUnbalancedSmartQuote(inner) {
				qi := source.NewOriginal(c.file, base+contentStart, base+contentEnd)
				c.emit(diag.ErrorEvent{State: "inline.emphasis.quote", Symbol: "eof", Info: qi,
					Captures: map[string]source.Info{"quote": qi}})
			}
			innerInlines := c.parseInlineString(inner, base+contentStart)
			total := (j + runLen) - start
			info := source.NewOriginal(c.file, base+start, base+start+total)
			if runLen == 2 {
				return total, ast.Strong{Inlines: innerInlines, Info: info}
			}
			return total, ast.Emph{Inlines: innerInlines, Info: info}
		}
		j += closeLen
	}
	openInfo := source.NewOriginal(c.file, base+start, base+start+runLen)
	c.emit(diag.ErrorEvent{State: "inline.emphasis.open", Symbol: "eof", Info: openInfo,
		Captures: map[string]source.Info{"opening-marker": openInfo}})
	return 0, nil
}

// tryTilde dispatches '~~strikeout~~' vs '~subscript~'.
func (c *ctx) tryTilde(input string, start, base int) (int, ast.Inline) {
	if start+1 < len(input) && input[start+1] == '~' {
		return c.wrapDelimited(input, start, base, "~~", func(inner []ast.Inline, info source.Info) ast.Inline {
			return ast.Strikeout{Inlines: inner, Info: info}
		})
	}
	return c.wrapDelimited(input, start, base, "~", func(inner []ast.Inline, info source.Info) ast.Inline {
		return ast.Subscript{Inlines: inner, Info: info}
	})
}

// tryHighlight dispatches '==highlight==', rendered as a Span with class
// "mark" since Pandoc's native AST has no dedicated Highlight inline.
func (c *ctx) tryHighlight(input string, start, base int) (int, ast.Inline) {
	return c.wrapDelimited(input, start, base, "==", func(inner []ast.Inline, info source.Info) ast.Inline {
		return ast.Span{Attr: ast.Attr{Classes: []string{"mark"}}, Inlines: inner, Info: info}
	})
}

// tryCaret dispatches '^[inline note]' vs '^superscript^'.
func (c *ctx) tryCaret(input string, start, base int) (int, ast.Inline) {
	if start+1 < len(input) && input[start+1] == '[' {
		j := start + 2
		depth := 1
		for j < len(input) && depth > 0 {
			switch input[j] {
			case '[':
				depth++
			case ']':
				depth--
			}
			j++
		}
		if depth != 0 {
			return 0, nil
		}
		content := input[start+2 : j-1]
		total := j - start
		info := source.NewOriginal(c.file, base+start, base+start+total)
		inner := c.parseInlineString(content, base+start+2)
		para := ast.Paragraph{Inlines: inner, Info: info}
		return total, ast.Note{Blocks: []ast.Block{para}, Info: info}
	}
	return c.wrapDelimited(input, start, base, "^", func(inner []ast.Inline, info source.Info) ast.Inline {
		return ast.Superscript{Inlines: inner, Info: info}
	})
}

// wrapDelimited is the shared "find the next occurrence of delim, wrap the
// content between in f" routine used by strikeout/highlight/sub/superscript
// - all of which, unlike emphasis, use a fixed non-flanking delimiter.
func (c *ctx) wrapDelimited(input string, start, base int, delim string, f func([]ast.Inline, source.Info) ast.Inline) (int, ast.Inline) {
	if !strings.HasPrefix(input[start:], delim) {
		return 0, nil
	}
	searchFrom := start + len(delim)
	idx := strings.Index(input[searchFrom:], delim)
	if idx < 0 {
		return 0, nil
	}
	contentStart := searchFrom
	contentEnd := searchFrom + idx
	if contentEnd == contentStart {
		return 0, nil
	}
	total := (contentEnd + len(delim)) - start
	info := source.NewOriginal(c.file, base+start, base+start+total)
	inner := c.parseInlineString(input[contentStart:contentEnd], base+contentStart)
	return total, f(inner, info)
}

func (c *ctx) tryCodeSpan(input string, start, base int) (int, ast.Inline) {
	runLen := 1
	for start+runLen < len(input) && input[start+runLen] == '`' {
		runLen++
	}
	j := start + runLen
	for j < len(input) {
		if input[j] != '`' {
			j++
			continue
		}
		closeLen := 1
		for j+closeLen < len(input) && input[j+closeLen] == '`' {
			closeLen++
		}
		if closeLen == runLen {
			content := input[start+runLen : j]
			after := j + runLen
			if after < len(input) && input[after] == '{' {
				k := after + 1
				for k < len(input) && input[k] != '}' {
					k++
				}
				if k < len(input) {
					attrBody := input[after+1 : k]
					total := (k + 1) - start
					info := source.NewOriginal(c.file, base+start, base+start+total)
					trimmed := strings.TrimSpace(attrBody)
					if strings.HasPrefix(trimmed, "=") {
						format := strings.TrimSpace(strings.TrimPrefix(trimmed, "="))
						return total, ast.RawInline{Format: format, Text: content, Info: info}
					}
					return total, ast.Code{Attr: parseAttrBody(attrBody), Text: content, Info: info}
				}
			}
			total := after - start
			info := source.NewOriginal(c.file, base+start, base+start+total)
			return total, ast.Code{Text: content, Info: info}
		}
		j += closeLen
	}
	openInfo := source.NewOriginal(c.file, base+start, base+start+runLen)
	c.emit(diag.ErrorEvent{State: "inline.code.open", Symbol: "eof", Info: openInfo,
		Captures: map[string]source.Info{"opening-backticks": openInfo}})
	return 0, nil
}

func (c *ctx) tryMath(input string, start, base int) (int, ast.Inline) {
	display := start+1 < len(input) && input[start+1] == '$'
	delimLen := 1
	if display {
		delimLen = 2
	}
	delim := input[start : start+delimLen]
	searchFrom := start + delimLen
	idx := strings.Index(input[searchFrom:], delim)
	if idx < 0 {
		openInfo := source.NewOriginal(c.file, base+start, base+start+delimLen)
		c.emit(diag.ErrorEvent{State: "inline.math.open", Symbol: "eof", Info: openInfo,
			Captures: map[string]source.Info{"opening-delim": openInfo}})
		return 0, nil
	}
	content := input[searchFrom : searchFrom+idx]
	total := (searchFrom + idx + delimLen) - start
	info := source.NewOriginal(c.file, base+start, base+start+total)
	kind := ast.InlineMath
	if display {
		kind = ast.DisplayMath
	}
	return total, ast.Math{Kind: kind, Text: content, Info: info}
}

// tryBracket handles `[...]` followed optionally by `(target)` (Link),
// `{attrs}` (Span), or nothing (footnote reference `[^id]` / citation
// `[@id]` / plain literal brackets).
func (c *ctx) tryBracket(input string, start, base int) (int, ast.Inline) {
	j := start + 1
	depth := 1
	for j < len(input) && depth > 0 {
		switch input[j] {
		case '\\':
			j++
		case '[':
			depth++
		case ']':
			depth--
		}
		j++
	}
	if depth != 0 {
		return 0, nil
	}
	closeIdx := j - 1 // index of the matching ']'
	inner := input[start+1 : closeIdx]
	after := closeIdx + 1

	switch {
	case strings.HasPrefix(inner, "^") && len(inner) > 1:
		total := after - start
		info := source.NewOriginal(c.file, base+start, base+start+total)
		return total, ast.NoteReference{ID: inner[1:], Info: info}

	case strings.HasPrefix(inner, "@") && len(inner) > 1:
		total := after - start
		info := source.NewOriginal(c.file, base+start, base+start+total)
		id := inner[1:]
		return total, ast.Cite{
			Citations: []ast.Citation{{ID: id, Mode: "NormalCitation"}},
			Inlines:   []ast.Inline{ast.Str{Text: "@" + id, Info: info}},
			Info:      info,
		}

	case after < len(input) && input[after] == '(':
		k := after + 1
		for k < len(input) && input[k] != ')' {
			k++
		}
		if k >= len(input) {
			return 0, nil
		}
		url, title := splitLinkTarget(input[after+1 : k])
		total := (k + 1) - start
		info := source.NewOriginal(c.file, base+start, base+start+total)
		innerInlines := c.parseInlineString(inner, base+start+1)
		return total, ast.Link{Inlines: innerInlines, Target: ast.Target{URL: url, Title: title}, Info: info}

	case after < len(input) && input[after] == '{':
		k := after + 1
		braceDepth := 1
		for k < len(input) && braceDepth > 0 {
			switch input[k] {
			case '{':
				braceDepth++
			case '}':
				braceDepth--
			}
			k++
		}
		if braceDepth != 0 {
			return 0, nil
		}
		attrBody := input[after+1 : k-1]
		total := k - start
		info := source.NewOriginal(c.file, base+start, base+start+total)
		innerInlines := c.parseInlineString(inner, base+start+1)
		return total, ast.Span{Attr: parseAttrBody(attrBody), Inlines: innerInlines, Info: info}

	default:
		return 0, nil
	}
}

func (c *ctx) tryImage(input string, start, base int) (int, ast.Inline) {
	if start+1 >= len(input) || input[start+1] != '[' {
		return 0, nil
	}
	consumed, node := c.tryBracket(input, start+1, base)
	if consumed == 0 {
		return 0, nil
	}
	link, ok := node.(ast.Link)
	if !ok {
		return 0, nil
	}
	total := consumed + 1
	info := source.NewOriginal(c.file, base+start, base+start+total)
	return total, ast.Image{Attr: link.Attr, Inlines: link.Inlines, Target: link.Target, Info: info}
}

// splitLinkTarget splits `url "title"` on the first unquoted space.
func splitLinkTarget(s string) (url, title string) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	url = s[:i]
	rest := strings.TrimSpace(s[i+1:])
	title = strings.Trim(rest, `"`)
	return url, title
}

// tryShortcode handles `{{< name arg kwarg=val >}}`.
func (c *ctx) tryShortcode(input string, start, base int) (int, ast.Inline) {
	if !strings.HasPrefix(input[start:], "{{<") {
		return 0, nil
	}
	idx := strings.Index(input[start:], ">}}")
	if idx < 0 {
		return 0, nil
	}
	body := strings.TrimSpace(input[start+3 : start+idx])
	total := idx + 3
	info := source.NewOriginal(c.file, base+start, base+start+total)
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return total, ast.Shortcode{Info: info}
	}
	name := fields[0]
	var args []string
	var kwargs [][2]string
	for _, f := range fields[1:] {
		if i := strings.IndexByte(f, '='); i > 0 {
			kwargs = append(kwargs, [2]string{f[:i], strings.Trim(f[i+1:], `"'`)})
		} else {
			args = append(args, f)
		}
	}
	return total, ast.Shortcode{Name: name, Args: args, KwArgs: kwargs, Info: info}
}
