// Package diag implements the table-driven diagnostic engine: the
// DiagnosticMessage shape, a compile-time catalog, the (state, symbol) ->
// recipe table, and renderers (ANSI, JSON, markdown). It mirrors
// org.ParseError's structured position info, generalized to the spec's
// four-part message shape and capture-based underlining.
package diag

import (
	"fmt"

	"github.com/quarto-dev/q2-sub016/source"
)

// Kind is a diagnostic's severity.
type Kind int

const (
	KindError Kind = iota
	KindWarning
	KindInfo
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindInfo:
		return "info"
	case KindNote:
		return "note"
	default:
		return "unknown"
	}
}

// Detail is one structured bullet under a diagnostic's Problem.
type Detail struct {
	Kind Kind
	Text string // may carry inline pandoc markup, rendered verbatim by RenderMarkdown
}

// Capture is a labeled source region used for underline-and-label
// rendering, resolved from the scanner's (state, symbol) event against the
// consumed-token stream.
type Capture struct {
	Label string
	Info  source.Info
}

// Message is the four-part DiagnosticMessage from spec.md §4.6.
type Message struct {
	Title    string
	Code     string // e.g. "Q-2-10"; "" for uncataloged ad hoc diagnostics
	Kind     Kind
	Problem  string
	Details  []Detail
	Hints    []string // each should end with '?'
	Captures []Capture

	// Primary is the diagnostic's own anchor location, used when no
	// Capture applies (e.g. writer "unsupported construct" errors).
	Primary source.Info
}

// New starts a builder-style Message with just a title, the minimum the
// spec requires; the With* and Add* methods below add the optional parts. This mirrors
// the "structured diagnostic builder" design note in spec.md §9.
func New(title string, kind Kind) Message {
	return Message{Title: title, Kind: kind}
}

func (m Message) WithCode(code string) Message       { m.Code = code; return m }
func (m Message) WithProblem(problem string) Message { m.Problem = problem; return m }
func (m Message) WithPrimary(info source.Info) Message {
	m.Primary = info
	return m
}

func (m Message) AddDetail(kind Kind, text string) Message {
	m.Details = append(m.Details, Detail{Kind: kind, Text: text})
	return m
}

func (m Message) AddHint(hint string) Message {
	m.Hints = append(m.Hints, hint)
	return m
}

func (m Message) AddCapture(label string, info source.Info) Message {
	m.Captures = append(m.Captures, Capture{Label: label, Info: info})
	return m
}

// Internal constructs an internal-error diagnostic (catalog family Q-0-*):
// these always indicate a bug in this module, never a user mistake.
func Internal(where string, info source.Info) Message {
	return New(fmt.Sprintf("internal error in %s", where), KindError).
		WithCode("Q-0-1").
		WithProblem("an AST invariant was violated after parsing").
		WithPrimary(info)
}

// Generic is the fallback diagnostic the engine emits when a (state,
// symbol) pair has no table entry.
func Generic(info source.Info) Message {
	return New("Parse Error", KindError).
		WithCode("Q-2-0").
		WithProblem("the document could not be fully parsed").
		WithPrimary(info)
}
