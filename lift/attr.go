package lift

import (
	"strings"

	"github.com/quarto-dev/q2-sub016/ast"
)

// parseAttrBody parses the inside of a `{...}` attribute block: whitespace
// separated tokens of the form #id, .class, or key=value (value may be
// quoted to contain spaces).
func parseAttrBody(body string) ast.Attr {
	var attr ast.Attr
	for _, tok := range splitAttrTokens(body) {
		switch {
		case strings.HasPrefix(tok, "#"):
			attr.ID = tok[1:]
		case strings.HasPrefix(tok, "."):
			attr.Classes = append(attr.Classes, tok[1:])
		case strings.Contains(tok, "="):
			parts := strings.SplitN(tok, "=", 2)
			key := parts[0]
			val := strings.Trim(parts[1], `"'`)
			attr.KeyVals = append(attr.KeyVals, [2]string{key, val})
		}
	}
	return attr
}

// splitAttrTokens splits on whitespace, respecting double-quoted values.
func splitAttrTokens(body string) []string {
	var toks []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range body {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// extractTrailingAttr looks for a balanced `{...}` attribute block at the
// very end of text (after trimming trailing whitespace) and, if found,
// returns the text with it removed, the parsed Attr, and true. It is used
// for header/codeblock/div/fenced-caption attribute placement (spec.md
// §4.3: "Attributes ... attached to the nearest enclosing node the grammar
// binds them to").
func extractTrailingAttr(text string) (rest string, attr ast.Attr, ok bool) {
	trimmed := strings.TrimRight(text, " \t")
	if len(trimmed) == 0 || trimmed[len(trimmed)-1] != '}' {
		return text, ast.Attr{}, false
	}
	depth := 0
	start := -1
	for i := len(trimmed) - 1; i >= 0; i-- {
		switch trimmed[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				start = i
			}
		}
		if start != -1 {
			break
		}
	}
	if start == -1 {
		return text, ast.Attr{}, false
	}
	body := trimmed[start+1 : len(trimmed)-1]
	return strings.TrimRight(trimmed[:start], " \t"), parseAttrBody(body), true
}
