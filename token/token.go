// Package token defines the line-level token vocabulary the scanner
// produces. A Token always refers to one physical source line (never a
// multi-line span); block-level lifting groups runs of tokens into AST
// blocks, the same division of labor as org.token/go-org's line tokenizer.
package token

// Kind classifies one physical line for the block grammar.
type Kind int

const (
	KindBlank Kind = iota
	KindHeader
	KindBlockquote
	KindFenceCode   // opens or closes a ``` / ~~~ code fence
	KindFenceDiv    // opens or closes a ::: fenced div
	KindYAMLFence   // --- or +++ frontmatter delimiter (first/last line only)
	KindUnordered   // -, *, + list marker
	KindOrdered     // 1. / a) list marker
	KindHRule       // ---, ***, ___ horizontal rule (ambiguous w/ dash list, see scanner)
	KindFootnoteDef // [^id]: ...
	KindPipeRow     // | a | b |
	KindPipeDelim   // |---|---| alignment row
	KindCaption     // ": Caption text" line
	KindText        // fallback: paragraph / plain content line
)

// Token is one classified physical line.
type Token struct {
	Kind Kind

	// Line is the 0-based line index within the file.
	Line int
	// Start/End are byte offsets of the line's content, excluding the
	// trailing newline. End == Start for an empty line.
	Start, End int
	// HasNewline reports whether a newline byte follows End (false only for
	// a final unterminated line at EOF).
	HasNewline bool

	// Indent is the count of bytes of structural prefix this line carries
	// in its current block context (the blockquote "> " marker; the scanner
	// sets it on blockquote lines only) that lift must exclude from both the
	// content it re-lexes and the SourceInfo it attaches to leaf inlines.
	Indent int

	// Content is the raw line text (Start..End), convenience for regex
	// classification; lift re-slices the original buffer for byte-exact
	// offsets rather than trusting this copy for anything but matching.
	Content string
	// Matches holds the classifying regex's submatches, when applicable.
	Matches []string
}

// ContentStart is the byte offset content begins at, after Indent.
func (t Token) ContentStart() int { return t.Start + t.Indent }
