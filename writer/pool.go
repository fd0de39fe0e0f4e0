// Package writer renders a finished ast.Document in every output form
// spec.md §5 names: Pandoc-native text, a pooled JSON encoding, HTML with
// source-location attributes, and a qmd round-trip writer. Each format gets
// its own file, mirroring org's writer_* split (org_writer.go, the HTML
// writer in other_examples, etc.) - one small self-contained visitor per
// target instead of one mega-writer with format switches threaded through
// every case.
package writer

import "github.com/quarto-dev/q2-sub016/source"

// Pool interns source.Info values by structural equality so the JSON writer
// never repeats an identical provenance tree inline - spec.md §8's
// pool_interning property, which exists because a coalesced Str's Info can
// be a multi-piece Concat that would otherwise be duplicated at every use
// site.
type Pool struct {
	entries []source.Info
}

// NewPool returns an empty interning pool.
func NewPool() *Pool {
	return &Pool{}
}

// Intern returns info's pool index, appending a new entry only if no
// existing entry is structurally Equal.
func (p *Pool) Intern(info source.Info) int {
	for i, e := range p.entries {
		if source.Equal(e, info) {
			return i
		}
	}
	p.entries = append(p.entries, info)
	return len(p.entries) - 1
}

// Entries returns the pool's entries in interning order, for serialization.
func (p *Pool) Entries() []source.Info {
	return p.entries
}
