package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndMapOffset(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register(nil, "doc.qmd", []byte("# Hello\nworld\n"))
	require.NoError(t, err)

	info := NewOriginal(id, 0, 7)
	pos, ok := r.MapOffset(info, 2)
	require.True(t, ok)
	assert.Equal(t, Position{File: id, Line: 0, Col: 2}, pos)

	info2 := NewOriginal(id, 8, 13)
	pos2, ok := r.MapOffset(info2, 1)
	require.True(t, ok)
	assert.Equal(t, Position{File: id, Line: 1, Col: 1}, pos2)
}

func TestMapOffsetUnicodeColumns(t *testing.T) {
	r := NewRegistry()
	// "café" - 'é' is 2 bytes; the 5th scalar sits after it.
	id, err := r.Register(nil, "u.qmd", []byte("café!\n"))
	require.NoError(t, err)
	info := NewOriginal(id, 0, 6)
	pos, ok := r.MapOffset(info, 5) // byte offset of '!'
	require.True(t, ok)
	assert.Equal(t, 4, pos.Col) // c-a-f-é counted as 4 scalars
}

func TestSubstringFlattensChain(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Register(nil, "f.qmd", []byte("0123456789"))
	parent := NewOriginal(id, 0, 10)
	inner := NewSubstring(parent, 2, 8)   // "234567"
	outer := NewSubstring(inner, 1, 3)    // "34"
	flat := NewSubstring(parent, 3, 5)    // should be structurally identical
	assert.True(t, Equal(outer, flat))
}

func TestCombineAdjacentOriginal(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Register(nil, "f.qmd", []byte("0123456789"))
	a := NewOriginal(id, 0, 5)
	b := NewOriginal(id, 5, 10)
	combined := Combine(a, b)
	assert.Equal(t, Original{File: id, Start: 0, End: 10}, combined)
}

func TestCombineDisjointWrapsInConcat(t *testing.T) {
	id := FileId(0)
	id2 := FileId(1)
	a := NewOriginal(id, 0, 3)
	b := NewOriginal(id2, 0, 3)
	combined := Combine(a, b)
	_, ok := combined.(Concat)
	assert.True(t, ok)
}

func TestCombineIdempotent(t *testing.T) {
	id := FileId(0)
	a := NewOriginal(id, 0, 5)
	assert.Equal(t, a, Combine(a, a))
}

func TestMapOffsetUnknownFile(t *testing.T) {
	r := NewRegistry()
	_, ok := r.MapOffset(NewOriginal(42, 0, 1), 0)
	assert.False(t, ok)
}

func TestResolveConcatTakesFirstPiece(t *testing.T) {
	id := FileId(0)
	a := NewOriginal(id, 0, 3)
	b := NewOriginal(id, 10, 13)
	c := NewConcat([]Piece{{Info: b, OffsetInConcat: 3, Length: 3}, {Info: a, OffsetInConcat: 0, Length: 3}})
	file, rng, ok := Resolve(c)
	require.True(t, ok)
	assert.Equal(t, id, file)
	assert.Equal(t, Range{Start: 0, End: 3}, rng)
}

func TestFilterProvenanceNotResolvable(t *testing.T) {
	_, _, ok := Resolve(FilterProvenance{FilterName: "future", Line: 1})
	assert.False(t, ok)
}
