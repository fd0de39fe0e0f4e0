package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-wordwrap"
	"github.com/quarto-dev/q2-sub016/source"
)

// Resolver answers "what file/line/col does this source.Info start and end
// at", the one thing a renderer needs from an ASTContext's file registry
// that diag itself doesn't own.
type Resolver interface {
	MapOffset(info source.Info, offset int) (source.Position, bool)
	Path(file source.FileId) string
}

// ansiEnabled mirrors NO_COLOR + TTY detection; spec.md §6 only mandates
// NO_COLOR for the text renderer.
func ansiEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// RenderANSI renders msg as an Ariadne-style underline/caret report. It
// wraps w in a colorable writer so ANSI codes are stripped/translated
// correctly on platforms that need it (github.com/mattn/go-colorable).
func RenderANSI(w io.Writer, msg Message, res Resolver) {
	useColor := ansiEnabled(w)
	var out io.Writer = w
	if f, ok := w.(*os.File); ok {
		if useColor {
			out = colorable.NewColorable(f)
		} else {
			out = colorable.NewNonColorable(f)
		}
	}

	color.NoColor = !useColor
	title := color.New(severityColor(msg.Kind), color.Bold)

	header := fmt.Sprintf("%s", strings.ToUpper(msg.Kind.String()))
	if msg.Code != "" {
		header += "[" + msg.Code + "]"
	}
	fmt.Fprintf(out, "%s: %s\n", title.Sprint(header), msg.Title)

	if loc, ok := locationString(msg.Primary, res); ok {
		fmt.Fprintf(out, "  --> %s\n", loc)
	}
	if msg.Problem != "" {
		fmt.Fprintln(out, "  "+wordwrap.WrapString(msg.Problem, 76))
	}
	for _, cap := range msg.Captures {
		if loc, ok := locationString(cap.Info, res); ok {
			fmt.Fprintf(out, "    ^ %s (%s)\n", cap.Label, loc)
		}
	}
	for _, d := range msg.Details {
		fmt.Fprintf(out, "  %s: %s\n", strings.ToUpper(d.Kind.String()), wordwrap.WrapString(d.Text, 74))
	}
	for _, h := range msg.Hints {
		fmt.Fprintf(out, "  hint: %s\n", wordwrap.WrapString(h, 74))
	}
}

func severityColor(k Kind) color.Attribute {
	switch k {
	case KindError:
		return color.FgRed
	case KindWarning:
		return color.FgYellow
	case KindInfo:
		return color.FgCyan
	default:
		return color.FgWhite
	}
}

func locationString(info source.Info, res Resolver) (string, bool) {
	if info == nil || res == nil {
		return "", false
	}
	pos, ok := res.MapOffset(info, 0)
	if !ok {
		return "", false
	}
	path := res.Path(pos.File)
	return fmt.Sprintf("%s:%d:%d", path, pos.Line+1, pos.Col+1), true
}

// jsonCapture/jsonMessage are the wire shapes for RenderJSON; source.Info
// resolves to plain line/col pairs rather than the writer's pooled $ref
// scheme, since diagnostics are typically consumed standalone (CLI/LSP),
// not alongside the JSON writer's AST payload.
type jsonLoc struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

type jsonCapture struct {
	Label string   `json:"label"`
	Start *jsonLoc `json:"start,omitempty"`
	End   *jsonLoc `json:"end,omitempty"`
}

type jsonDetail struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type jsonMessage struct {
	Title    string        `json:"title"`
	Code     string        `json:"code,omitempty"`
	Kind     string        `json:"kind"`
	Problem  string        `json:"problem,omitempty"`
	Details  []jsonDetail  `json:"details,omitempty"`
	Hints    []string      `json:"hints,omitempty"`
	Captures []jsonCapture `json:"captures,omitempty"`
}

func toJSONLoc(info source.Info, offset int, res Resolver) *jsonLoc {
	if info == nil || res == nil {
		return nil
	}
	pos, ok := res.MapOffset(info, offset)
	if !ok {
		return nil
	}
	return &jsonLoc{File: res.Path(pos.File), Line: pos.Line, Col: pos.Col}
}

// RenderJSON marshals msg as one JSON object (spec.md §6: "JSON-per-line").
func RenderJSON(w io.Writer, msg Message, res Resolver) error {
	jm := jsonMessage{Title: msg.Title, Code: msg.Code, Kind: msg.Kind.String(), Problem: msg.Problem, Hints: msg.Hints}
	for _, d := range msg.Details {
		jm.Details = append(jm.Details, jsonDetail{Kind: d.Kind.String(), Text: d.Text})
	}
	for _, c := range msg.Captures {
		jc := jsonCapture{Label: c.Label, Start: toJSONLoc(c.Info, 0, res)}
		jc.End = toJSONLoc(c.Info, source.Length(c.Info), res)
		jm.Captures = append(jm.Captures, jc)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(jm)
}

// RenderMarkdown renders msg for embedding in web previews.
func RenderMarkdown(w io.Writer, msg Message, res Resolver) {
	fmt.Fprintf(w, "**%s**", strings.ToUpper(msg.Kind.String()))
	if msg.Code != "" {
		fmt.Fprintf(w, " `%s`", msg.Code)
	}
	fmt.Fprintf(w, ": %s\n\n", msg.Title)
	if msg.Problem != "" {
		fmt.Fprintf(w, "%s\n\n", msg.Problem)
	}
	if loc, ok := locationString(msg.Primary, res); ok {
		fmt.Fprintf(w, "> at `%s`\n\n", loc)
	}
	for _, d := range msg.Details {
		fmt.Fprintf(w, "- _%s_: %s\n", d.Kind, d.Text)
	}
	for _, h := range msg.Hints {
		fmt.Fprintf(w, "- %s\n", h)
	}
}
