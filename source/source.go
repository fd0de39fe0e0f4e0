// Package source implements the unified source-location system: a
// process-local file registry plus a provenance tree ("Info") that can be
// resolved back to a (file, byte range) and further to a (file, line,
// column) position.
package source

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"
)

// FileId is a dense, process-local identifier for a registered file.
type FileId int32

// Range is a half-open byte range: Start inclusive, End exclusive.
type Range struct {
	Start int
	End   int
}

// Len reports the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Position is the result of mapping an offset through an Info chain.
type Position struct {
	File FileId
	Line int // 0-based
	Col  int // 0-based, counted in Unicode scalars
}

// entry is one registered file.
type entry struct {
	path    string
	content []byte // may be nil if content was not retained
}

// Registry assigns FileIds and answers provenance queries. A Registry is
// immutable after a parse completes; callers only ever append during a
// single parse invocation.
type Registry struct {
	files []entry
}

// NewRegistry returns an empty file registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register reads path from fs (if content is nil) and appends a new entry,
// returning its stable FileId. Passing a non-nil content skips the read,
// which lets callers register virtual/synthetic documents.
func (r *Registry) Register(fs afero.Fs, path string, content []byte) (FileId, error) {
	if content == nil && fs != nil {
		b, err := afero.ReadFile(fs, path)
		if err != nil {
			return 0, fmt.Errorf("source: register %q: %w", path, err)
		}
		content = b
	}
	id := FileId(len(r.files))
	r.files = append(r.files, entry{path: path, content: content})
	return id, nil
}

// Path returns the display path for id, or "" if unknown.
func (r *Registry) Path(id FileId) string {
	if int(id) < 0 || int(id) >= len(r.files) {
		return ""
	}
	return r.files[id].path
}

// Content returns the retained bytes for id, or nil if unknown/omitted.
func (r *Registry) Content(id FileId) []byte {
	if int(id) < 0 || int(id) >= len(r.files) {
		return nil
	}
	return r.files[id].content
}

// Filenames returns the parallel array of display paths, in registration
// order, for ASTContext's public surface.
func (r *Registry) Filenames() []string {
	out := make([]string, len(r.files))
	for i, e := range r.files {
		out[i] = e.path
	}
	return out
}

// Info is the tagged provenance tree described in spec.md §3. It is
// implemented as a closed set of value types (the unexported isInfo method
// keeps other packages from adding implementations); structural equality -
// the pool's interning key - is the hand-written Equal walk below.
type Info interface {
	isInfo()
}

// Original is a contiguous range in a registered file.
type Original struct {
	File  FileId
	Start int
	End   int
}

func (Original) isInfo() {}

// Substring is a sub-range of Parent, offsets relative to Parent's own
// coordinate space (i.e. 0 means Parent's Start).
type Substring struct {
	Parent Info
	Start  int
	End    int
}

func (Substring) isInfo() {}

// Piece is one component of a Concat.
type Piece struct {
	Info           Info
	OffsetInConcat int
	Length         int
}

// Concat is a virtual string formed by concatenating pieces, each keeping
// its own provenance. Pieces must be sorted by OffsetInConcat and
// non-overlapping; lengths sum to the concat's total length.
type Concat struct {
	Pieces []Piece
}

func (Concat) isInfo() {}

// FilterProvenance is a synthetic origin for nodes a future filter pass
// introduces; it carries no byte range of its own.
type FilterProvenance struct {
	FilterName string
	Line       int
}

func (FilterProvenance) isInfo() {}

// NewOriginal builds an Original Info, panicking on an inverted range since
// callers always derive start/end from the scanner, never from user input.
func NewOriginal(file FileId, start, end int) Info {
	if end < start {
		panic(fmt.Sprintf("source: inverted range %d..%d", start, end))
	}
	return Original{File: file, Start: start, End: end}
}

// NewSubstring wraps parent, flattening a Substring-of-Substring chain per
// the round-trip law in spec.md §8: Substring(Substring(p,s1,e1),s2,e2) ≡
// Substring(p, s1+s2, s1+e2).
func NewSubstring(parent Info, start, end int) Info {
	if end < start {
		panic(fmt.Sprintf("source: inverted substring %d..%d", start, end))
	}
	if inner, ok := parent.(Substring); ok {
		return Substring{Parent: inner.Parent, Start: inner.Start + start, End: inner.Start + end}
	}
	return Substring{Parent: parent, Start: start, End: end}
}

// NewConcat wraps pieces sorted by OffsetInConcat; it does not check that
// they are non-overlapping or that their lengths cover the concat.
func NewConcat(pieces []Piece) Info {
	sorted := make([]Piece, len(pieces))
	copy(sorted, pieces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OffsetInConcat < sorted[j].OffsetInConcat })
	return Concat{Pieces: sorted}
}

// Combine produces the minimal provenance covering both a and b: if both are
// Original on the same file and adjacent/overlapping, the union Original;
// otherwise a two-piece Concat.
func Combine(a, b Info) Info {
	if oa, ok := a.(Original); ok {
		if ob, ok := b.(Original); ok && oa.File == ob.File {
			start, end := oa.Start, oa.End
			if ob.Start < start {
				start = ob.Start
			}
			if ob.End > end {
				end = ob.End
			}
			// Adjacent or overlapping: no gap between the two ranges.
			if ob.Start <= oa.End && oa.Start <= ob.End {
				return Original{File: oa.File, Start: start, End: end}
			}
		}
	}
	aLen := Length(a)
	bLen := Length(b)
	return Concat{Pieces: []Piece{
		{Info: a, OffsetInConcat: 0, Length: aLen},
		{Info: b, OffsetInConcat: aLen, Length: bLen},
	}}
}

// Length returns the byte length an Info covers, used when assembling
// Concat pieces. Concat/FilterProvenance compute their own length; the
// length of a FilterProvenance is always 0 (it is a synthetic point).
func Length(info Info) int {
	switch v := info.(type) {
	case Original:
		return v.End - v.Start
	case Substring:
		return v.End - v.Start
	case Concat:
		total := 0
		for _, p := range v.Pieces {
			total += p.Length
		}
		return total
	case FilterProvenance:
		return 0
	default:
		return 0
	}
}

// MapOffset resolves offset (relative to info's own coordinate space) to a
// (FileId, line, column) Position, returning false on any malformed chain,
// out-of-range offset, or unregistered file - it never panics.
func (r *Registry) MapOffset(info Info, offset int) (Position, bool) {
	switch v := info.(type) {
	case Original:
		if offset < 0 || v.Start+offset > v.End {
			return Position{}, false
		}
		return r.mapInFile(v.File, v.Start+offset)
	case Substring:
		if offset < 0 || offset > v.End-v.Start {
			return Position{}, false
		}
		return r.MapOffset(v.Parent, v.Start+offset)
	case Concat:
		i := sort.Search(len(v.Pieces), func(i int) bool {
			return v.Pieces[i].OffsetInConcat+v.Pieces[i].Length > offset
		})
		if i >= len(v.Pieces) {
			return Position{}, false
		}
		p := v.Pieces[i]
		if offset < p.OffsetInConcat {
			return Position{}, false
		}
		return r.MapOffset(p.Info, offset-p.OffsetInConcat)
	default:
		return Position{}, false
	}
}

// mapInFile scans a registered file's content for newlines up to offset,
// counting columns in Unicode scalars using each rune's UTF-8 byte length.
func (r *Registry) mapInFile(file FileId, offset int) (Position, bool) {
	if int(file) < 0 || int(file) >= len(r.files) {
		return Position{}, false
	}
	content := r.files[file].content
	if content == nil || offset < 0 || offset > len(content) {
		return Position{}, false
	}
	line, col := 0, 0
	i := 0
	for i < offset {
		b := content[i]
		// Fast path: ASCII byte. Multi-byte runes still advance col by
		// one per decoded scalar below.
		if b == '\n' {
			line++
			col = 0
			i++
			continue
		}
		n := runeLen(b)
		if i+n > offset {
			// offset lands mid-rune; treat as the rune's start column.
			break
		}
		col++
		i += n
	}
	return Position{File: file, Line: line, Col: col}, true
}

// runeLen returns the UTF-8 byte length implied by a leading byte.
func runeLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// Resolve walks info down to its bottoming-out Original (or the first piece
// of a Concat), returning the file and absolute byte range it denotes. It
// returns false for a FilterProvenance, which has no byte range.
func Resolve(info Info) (FileId, Range, bool) {
	switch v := info.(type) {
	case Original:
		return v.File, Range{Start: v.Start, End: v.End}, true
	case Substring:
		file, rng, ok := Resolve(v.Parent)
		if !ok {
			return 0, Range{}, false
		}
		return file, Range{Start: rng.Start + v.Start, End: rng.Start + v.End}, true
	case Concat:
		if len(v.Pieces) == 0 {
			return 0, Range{}, false
		}
		return Resolve(v.Pieces[0].Info)
	default:
		return 0, Range{}, false
	}
}

// Equal reports whether two Info trees are structurally equal - the
// interning key the JSON writer's pool relies on (spec.md §8 pool_interning).
func Equal(a, b Info) bool {
	switch av := a.(type) {
	case Original:
		bv, ok := b.(Original)
		return ok && av == bv
	case Substring:
		bv, ok := b.(Substring)
		return ok && av.Start == bv.Start && av.End == bv.End && Equal(av.Parent, bv.Parent)
	case Concat:
		bv, ok := b.(Concat)
		if !ok || len(av.Pieces) != len(bv.Pieces) {
			return false
		}
		for i := range av.Pieces {
			if av.Pieces[i].OffsetInConcat != bv.Pieces[i].OffsetInConcat ||
				av.Pieces[i].Length != bv.Pieces[i].Length ||
				!Equal(av.Pieces[i].Info, bv.Pieces[i].Info) {
				return false
			}
		}
		return true
	case FilterProvenance:
		bv, ok := b.(FilterProvenance)
		return ok && av == bv
	default:
		return false
	}
}
