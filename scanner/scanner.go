// Package scanner is the external scanner: it classifies each physical
// source line into a token.Token, cooperating with block-context state
// (YAML frontmatter, fenced code/div stacks) the way the spec's grammar
// delegates context-sensitive lexing to a stateful companion. Inline-level
// disambiguation (emphasis flanking, quote open/close, code-span delimiter
// matching) lives in the lift package's character-dispatch scanner, mirrored
// on org.parseInlineWithPos; this file only ever sees whole lines.
package scanner

import (
	"regexp"
	"strings"

	"github.com/quarto-dev/q2-sub016/token"
)

var (
	reHeader      = regexp.MustCompile(`^(#{1,6})(\s+)(.*?)\s*$`)
	reBlockquote  = regexp.MustCompile(`^(\s{0,3})(>+)\s?(.*)$`)
	reFenceCode   = regexp.MustCompile("^(\\s{0,3})(`{3,}|~{3,})\\s*(.*)$")
	reFenceDiv    = regexp.MustCompile(`^(\s{0,3}):{3,}\s*(\{.*\})?\s*$`)
	reYAMLFence   = regexp.MustCompile(`^(---|\+\+\+)\s*$`)
	reHRule       = regexp.MustCompile(`^\s{0,3}([-*_])\s*(?:\1\s*){2,}$`)
	reUnordered   = regexp.MustCompile(`^(\s*)([-*+])(\s+(.*)|)$`)
	reOrdered     = regexp.MustCompile(`^(\s*)([0-9]+|[a-zA-Z])([.)])(\s+(.*)|)$`)
	reFootnoteDef = regexp.MustCompile(`^\[\^([\w-]+)\]:\s*(.*)$`)
	rePipeDelim   = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)
	rePipeRow     = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	reCaption     = regexp.MustCompile(`^:\s+(.*)$`)
	reBlank       = regexp.MustCompile(`^\s*$`)
)

// fenceState tracks one open code or div fence.
type fenceState struct {
	div    bool
	char   byte
	length int
	indent int
}

// Scan splits src into lines and classifies each one. It never errors: an
// unterminated fence or frontmatter block simply runs to EOF, matching
// spec.md §8's "code block with no closing fence at EOF" boundary behavior;
// lift emits the accompanying diagnostic for an unterminated code fence (a
// warning) or div fence, while an unclosed frontmatter block is not
// reported.
func Scan(src []byte) []token.Token {
	lines := splitLines(src)
	toks := make([]token.Token, 0, len(lines))

	var fences []fenceState
	inYAML := false
	yamlDelim := ""

	for i, ln := range lines {
		content := string(src[ln.Start:ln.End])
		tok := token.Token{Line: i, Start: ln.Start, End: ln.End, HasNewline: ln.HasNewline, Content: content}

		switch {
		case i == 0 && reYAMLFence.MatchString(content):
			m := reYAMLFence.FindStringSubmatch(content)
			tok.Kind = token.KindYAMLFence
			tok.Matches = m
			inYAML = true
			yamlDelim = m[1]

		case inYAML:
			tok.Kind = token.KindText
			if strings.TrimRight(content, " \t") == yamlDelim {
				tok.Kind = token.KindYAMLFence
				inYAML = false
			}

		case len(fences) > 0 && fences[len(fences)-1].div:
			if m := reFenceDiv.FindStringSubmatch(content); m != nil && m[2] == "" {
				// A bare ":::" with no attribute closes the innermost
				// fenced div; an attributed ":::{...}" instead opens a
				// nested one, handled by the check just below.
				tok.Kind = token.KindFenceDiv
				tok.Matches = m
				fences = fences[:len(fences)-1]
				break
			}
			if m := reFenceDiv.FindStringSubmatch(content); m != nil {
				tok.Kind = token.KindFenceDiv
				tok.Matches = m
				fences = append(fences, fenceState{div: true, indent: len(m[1])})
				break
			}
			tok.Kind = token.KindText

		case len(fences) > 0 && !fences[len(fences)-1].div:
			top := fences[len(fences)-1]
			if m := reFenceCode.FindStringSubmatch(content); m != nil {
				char := m[2][0]
				if char == top.char && len(m[2]) >= top.length && len(m[1]) <= 3 && m[3] == "" {
					tok.Kind = token.KindFenceCode
					tok.Matches = m
					fences = fences[:len(fences)-1]
					break
				}
			}
			tok.Kind = token.KindText

		case reFenceCode.MatchString(content):
			m := reFenceCode.FindStringSubmatch(content)
			tok.Kind = token.KindFenceCode
			tok.Matches = m
			fences = append(fences, fenceState{char: m[2][0], length: len(m[2]), indent: len(m[1])})

		case reFenceDiv.MatchString(content):
			m := reFenceDiv.FindStringSubmatch(content)
			tok.Kind = token.KindFenceDiv
			tok.Matches = m
			fences = append(fences, fenceState{div: true, indent: len(m[1])})

		case reBlank.MatchString(content):
			tok.Kind = token.KindBlank

		case reHeader.MatchString(content):
			tok.Kind = token.KindHeader
			tok.Matches = reHeader.FindStringSubmatch(content)

		case reHRule.MatchString(content):
			tok.Kind = token.KindHRule

		case reCaption.MatchString(content):
			tok.Kind = token.KindCaption
			tok.Matches = reCaption.FindStringSubmatch(content)

		case reFootnoteDef.MatchString(content):
			tok.Kind = token.KindFootnoteDef
			tok.Matches = reFootnoteDef.FindStringSubmatch(content)

		case reBlockquote.MatchString(content):
			m := reBlockquote.FindStringSubmatch(content)
			tok.Kind = token.KindBlockquote
			tok.Matches = m
			tok.Indent = len(content) - len(m[3])

		case rePipeDelim.MatchString(content) && strings.Contains(content, "-"):
			tok.Kind = token.KindPipeDelim

		case rePipeRow.MatchString(content):
			tok.Kind = token.KindPipeRow

		case reUnordered.MatchString(content) && strings.TrimSpace(content) != "":
			m := reUnordered.FindStringSubmatch(content)
			tok.Kind = token.KindUnordered
			tok.Matches = m

		case reOrdered.MatchString(content) && strings.TrimSpace(content) != "":
			m := reOrdered.FindStringSubmatch(content)
			tok.Kind = token.KindOrdered
			tok.Matches = m

		default:
			tok.Kind = token.KindText
		}

		toks = append(toks, tok)
	}
	return toks
}

type lineSpan struct {
	Start, End int
	HasNewline bool
}

// splitLines partitions src into lines with byte-exact offsets, excluding
// the trailing newline from each line's range.
func splitLines(src []byte) []lineSpan {
	var lines []lineSpan
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, lineSpan{Start: start, End: i, HasNewline: true})
			start = i + 1
		}
	}
	if start < len(src) || len(lines) == 0 {
		lines = append(lines, lineSpan{Start: start, End: len(src), HasNewline: false})
	}
	return lines
}
