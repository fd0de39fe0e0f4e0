package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/diag"
	"github.com/quarto-dev/q2-sub016/source"
)

// hctx carries the pool, the resolver and the html.Node builder state across
// one WriteHTML call. The pool backs the embedded <script id="quarto-source-
// map"> tag (the same pool_interning scheme json.go uses); data-loc
// attributes on individual elements are resolved eagerly through ctx instead
// so a reader of the HTML alone, with no second pool lookup, gets a
// file:line:col range (spec.md §4.7).
type hctx struct {
	pool *Pool
	ctx  diag.Resolver
}

func elem(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// locAttr resolves info to a "fileId:startLine:startCol-endLine:endCol"
// data-loc value, with 1-based lines/columns for editor convention. It
// reports false - and the caller omits the attribute entirely - for a
// synthetic node with no resolvable source info, per spec.md §4.7.
func locAttr(info source.Info, ctx diag.Resolver) (html.Attribute, bool) {
	if info == nil || ctx == nil {
		return html.Attribute{}, false
	}
	start, ok := ctx.MapOffset(info, 0)
	if !ok {
		return html.Attribute{}, false
	}
	end, ok := ctx.MapOffset(info, source.Length(info))
	if !ok {
		end = start
	}
	val := fmt.Sprintf("%d:%d:%d-%d:%d", start.File, start.Line+1, start.Col+1, end.Line+1, end.Col+1)
	return html.Attribute{Key: "data-loc", Val: val}, true
}

func (h *hctx) attrsFor(info source.Info, extra ...html.Attribute) []html.Attribute {
	var attrs []html.Attribute
	if a, ok := locAttr(info, h.ctx); ok {
		attrs = append(attrs, a)
	}
	attrs = append(attrs, extra...)
	return attrs
}

func (h *hctx) attrAttrs(a ast.Attr, info source.Info) []html.Attribute {
	attrs := h.attrsFor(info)
	if a.ID != "" {
		attrs = append(attrs, html.Attribute{Key: "id", Val: a.ID})
	}
	if len(a.Classes) > 0 {
		attrs = append(attrs, html.Attribute{Key: "class", Val: strings.Join(a.Classes, " ")})
	}
	for _, kv := range a.KeyVals {
		attrs = append(attrs, html.Attribute{Key: "data-" + kv[0], Val: kv[1]})
	}
	return attrs
}

func appendAll(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

func (h *hctx) blocksHTML(bs []ast.Block) []*html.Node {
	out := make([]*html.Node, len(bs))
	for i, b := range bs {
		out[i] = h.blockHTML(b)
	}
	return out
}

func (h *hctx) blockHTML(b ast.Block) *html.Node {
	info := b.SourceInfo()
	h.pool.Intern(info)
	switch v := b.(type) {
	case ast.Paragraph:
		n := elem("p", h.attrsFor(info)...)
		appendAll(n, h.inlinesHTML(v.Inlines)...)
		return n
	case ast.Plain:
		n := elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: "plain"})...)
		appendAll(n, h.inlinesHTML(v.Inlines)...)
		return n
	case ast.Header:
		tag := fmt.Sprintf("h%d", v.Level)
		if v.Level < 1 || v.Level > 6 {
			tag = "h6"
		}
		n := elem(tag, h.attrAttrs(v.Attr, info)...)
		appendAll(n, h.inlinesHTML(v.Inlines)...)
		return n
	case ast.BlockQuote:
		n := elem("blockquote", h.attrsFor(info)...)
		appendAll(n, h.blocksHTML(v.Blocks)...)
		return n
	case ast.CodeBlock:
		pre := elem("pre", h.attrsFor(info)...)
		code := elem("code", h.attrAttrs(v.Attr, info)...)
		code.AppendChild(text(v.Text))
		pre.AppendChild(code)
		return pre
	case ast.RawBlock:
		if v.Format == "html" {
			frag, err := html.ParseFragment(bytes.NewReader([]byte(v.Text)), &html.Node{Type: html.ElementNode, Data: "div", DataAtom: 0})
			if err == nil && len(frag) == 1 {
				return frag[0]
			}
		}
		n := elem("pre", h.attrsFor(info, html.Attribute{Key: "class", Val: "raw-" + v.Format})...)
		n.AppendChild(text(v.Text))
		return n
	case ast.Div:
		n := elem("div", h.attrAttrs(v.Attr, info)...)
		appendAll(n, h.blocksHTML(v.Blocks)...)
		return n
	case ast.HorizontalRule:
		return elem("hr", h.attrsFor(info)...)
	case ast.List:
		tag := "ul"
		var extra []html.Attribute
		if v.Kind == ast.OrderedListKind {
			tag = "ol"
			extra = append(extra, html.Attribute{Key: "start", Val: strconv.Itoa(v.ListAttr.Start)})
		}
		n := elem(tag, h.attrsFor(info, extra...)...)
		for _, it := range v.Items {
			h.pool.Intern(it.Info)
			li := elem("li", h.attrsFor(it.Info)...)
			appendAll(li, h.blocksHTML(it.Blocks)...)
			n.AppendChild(li)
		}
		return n
	case ast.Table:
		return h.tableHTML(v, info)
	case ast.LineBlock:
		n := elem("div", h.attrsFor(info, html.Attribute{Key: "class", Val: "line-block"})...)
		for _, line := range v.Lines {
			div := elem("div")
			appendAll(div, h.inlinesHTML(line)...)
			n.AppendChild(div)
		}
		return n
	case ast.NoteDefinitionPara:
		n := elem("p", h.attrsFor(info, html.Attribute{Key: "id", Val: "fn-" + v.ID})...)
		appendAll(n, h.inlinesHTML(v.Inlines)...)
		return n
	case ast.NoteDefinitionFencedBlock:
		n := elem("div", h.attrsFor(info, html.Attribute{Key: "id", Val: "fn-" + v.ID})...)
		appendAll(n, h.blocksHTML(v.Blocks)...)
		return n
	default:
		return elem("div", h.attrsFor(info)...)
	}
}

func (h *hctx) tableHTML(v ast.Table, info source.Info) *html.Node {
	table := elem("table", h.attrsFor(info)...)
	if len(v.Caption) > 0 {
		cap := elem("caption")
		appendAll(cap, h.inlinesHTML(v.Caption)...)
		table.AppendChild(cap)
	}
	thead := elem("thead")
	for _, r := range v.Head.Rows {
		thead.AppendChild(h.tableRowHTML(r, "th"))
	}
	table.AppendChild(thead)
	tbody := elem("tbody")
	for _, body := range v.Bodies {
		for _, r := range body.Rows {
			tbody.AppendChild(h.tableRowHTML(r, "td"))
		}
	}
	table.AppendChild(tbody)
	return table
}

func (h *hctx) tableRowHTML(r ast.TableRow, cellTag string) *html.Node {
	h.pool.Intern(r.Info)
	tr := elem("tr", h.attrsFor(r.Info)...)
	for _, c := range r.Cells {
		h.pool.Intern(c.Info)
		td := elem(cellTag, h.attrsFor(c.Info)...)
		appendAll(td, h.blocksHTML(c.Blocks)...)
		tr.AppendChild(td)
	}
	return tr
}

func (h *hctx) inlinesHTML(ns []ast.Inline) []*html.Node {
	out := make([]*html.Node, len(ns))
	for i, n := range ns {
		out[i] = h.inlineHTML(n)
	}
	return out
}

func (h *hctx) inlineHTML(n ast.Inline) *html.Node {
	info := n.SourceInfo()
	h.pool.Intern(info)
	switch v := n.(type) {
	case ast.Str:
		return text(v.Text)
	case ast.Space:
		return text(" ")
	case ast.SoftBreak:
		return text("\n")
	case ast.LineBreak:
		return elem("br", h.attrsFor(info)...)
	case ast.Emph:
		e := elem("em", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Strong:
		e := elem("strong", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Underline:
		e := elem("u", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Strikeout:
		e := elem("s", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Subscript:
		e := elem("sub", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Superscript:
		e := elem("sup", h.attrsFor(info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.SmallCaps:
		e := elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: "smallcaps"})...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Code:
		e := elem("code", h.attrAttrs(v.Attr, info)...)
		e.AppendChild(text(v.Text))
		return e
	case ast.Math:
		class := "math inline"
		delim, closing := "\\(", "\\)"
		if v.Kind == ast.DisplayMath {
			class = "math display"
			delim, closing = "\\[", "\\]"
		}
		e := elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: class})...)
		e.AppendChild(text(delim + v.Text + closing))
		return e
	case ast.Link:
		e := elem("a", append(h.attrAttrs(v.Attr, info), html.Attribute{Key: "href", Val: v.Target.URL}, html.Attribute{Key: "title", Val: v.Target.Title})...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Image:
		alt := &bytes.Buffer{}
		collectText(v.Inlines, alt)
		return elem("img", append(h.attrAttrs(v.Attr, info),
			html.Attribute{Key: "src", Val: v.Target.URL},
			html.Attribute{Key: "title", Val: v.Target.Title},
			html.Attribute{Key: "alt", Val: alt.String()})...)
	case ast.Span:
		e := elem("span", h.attrAttrs(v.Attr, info)...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Cite:
		e := elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: "citation"})...)
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		return e
	case ast.Quoted:
		open, close := "‘", "’"
		if v.Kind == ast.DoubleQuote {
			open, close = "“", "”"
		}
		e := elem("q", h.attrsFor(info)...)
		e.AppendChild(text(open))
		appendAll(e, h.inlinesHTML(v.Inlines)...)
		e.AppendChild(text(close))
		return e
	case ast.Note:
		e := elem("aside", h.attrsFor(info, html.Attribute{Key: "class", Val: "footnote"})...)
		appendAll(e, h.blocksHTML(v.Blocks)...)
		return e
	case ast.RawInline:
		return elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: "raw-" + v.Format})...)
	case ast.Shortcode:
		return elem("span", h.attrsFor(info, html.Attribute{Key: "class", Val: "shortcode"}, html.Attribute{Key: "data-name", Val: v.Name})...)
	case ast.NoteReference:
		e := elem("a", h.attrsFor(info, html.Attribute{Key: "href", Val: "#fn-" + v.ID}, html.Attribute{Key: "class", Val: "note-ref"})...)
		e.AppendChild(text("[" + v.ID + "]"))
		return e
	default:
		return elem("span", h.attrsFor(info)...)
	}
}

func collectText(ns []ast.Inline, buf *bytes.Buffer) {
	for _, n := range ns {
		switch v := n.(type) {
		case ast.Str:
			buf.WriteString(v.Text)
		case ast.Space:
			buf.WriteString(" ")
		}
	}
}

// WriteHTML renders doc as a standalone HTML fragment (body children only),
// followed by an embedded JSON location pool a client can use to resolve any
// data-loc it wants to cross-check, mirroring the JSON writer's
// pool_interning scheme. Every AST node it visits already has a native HTML
// element, so this writer never produces diagnostics of its own.
func WriteHTML(w io.Writer, doc *ast.Document, ctx diag.Resolver) ([]diag.Message, error) {
	h := &hctx{pool: NewPool(), ctx: ctx}
	nodes := h.blocksHTML(doc.Blocks)

	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return nil, err
		}
	}

	j := &jctx{pool: h.pool}
	pool := j.buildLocPool()
	b, err := json.Marshal(pool)
	if err != nil {
		return nil, err
	}
	_, err = fmt.Fprintf(w, "<script type=\"application/json\" id=\"quarto-source-map\">%s</script>\n", b)
	return nil, err
}
