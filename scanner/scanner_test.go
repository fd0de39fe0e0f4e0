package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/token"
)

func TestScanClassifiesBasicConstructs(t *testing.T) {
	src := []byte("# Title\n\nSome *text*.\n\n- item one\n- item two\n")
	toks := Scan(src)
	require.Len(t, toks, 6)
	assert.Equal(t, token.KindHeader, toks[0].Kind)
	assert.Equal(t, token.KindBlank, toks[1].Kind)
	assert.Equal(t, token.KindText, toks[2].Kind)
	assert.Equal(t, token.KindBlank, toks[3].Kind)
	assert.Equal(t, token.KindUnordered, toks[4].Kind)
	assert.Equal(t, token.KindUnordered, toks[5].Kind)
}

func TestScanYAMLFrontmatterOnlyAtLineZero(t *testing.T) {
	src := []byte("---\ntitle: x\n---\n\nBody\n\n---\n")
	toks := Scan(src)
	require.True(t, len(toks) >= 4)
	assert.Equal(t, token.KindYAMLFence, toks[0].Kind)
	assert.Equal(t, token.KindText, toks[1].Kind)
	assert.Equal(t, token.KindYAMLFence, toks[2].Kind)
	// a bare "---" deeper in the document is an HRule, not a YAML fence.
	last := toks[len(toks)-1]
	assert.Equal(t, token.KindHRule, last.Kind)
}

func TestScanCodeFenceTracksOpenClose(t *testing.T) {
	src := []byte("```python\nprint(1)\n```\n")
	toks := Scan(src)
	require.Len(t, toks, 3)
	assert.Equal(t, token.KindFenceCode, toks[0].Kind)
	assert.Equal(t, token.KindText, toks[1].Kind)
	assert.Equal(t, token.KindFenceCode, toks[2].Kind)
}

func TestScanNestedDivFences(t *testing.T) {
	src := []byte(":::{.outer}\ntext\n:::{.inner}\nmore\n:::\n:::\n")
	toks := Scan(src)
	require.Len(t, toks, 6)
	assert.Equal(t, token.KindFenceDiv, toks[0].Kind)
	assert.Equal(t, token.KindText, toks[1].Kind)
	assert.Equal(t, token.KindFenceDiv, toks[2].Kind)
	assert.Equal(t, token.KindText, toks[3].Kind)
	assert.Equal(t, token.KindFenceDiv, toks[4].Kind)
	assert.Equal(t, token.KindFenceDiv, toks[5].Kind)
}

func TestScanUnterminatedFenceRunsToEOF(t *testing.T) {
	src := []byte("```python\nprint(1)")
	toks := Scan(src)
	require.Len(t, toks, 2)
	assert.Equal(t, token.KindFenceCode, toks[0].Kind)
	assert.Equal(t, token.KindText, toks[1].Kind)
	assert.False(t, toks[1].HasNewline)
}

func TestScanPipeTableRows(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")
	toks := Scan(src)
	require.Len(t, toks, 3)
	assert.Equal(t, token.KindPipeRow, toks[0].Kind)
	assert.Equal(t, token.KindPipeDelim, toks[1].Kind)
	assert.Equal(t, token.KindPipeRow, toks[2].Kind)
}

func TestScanBlockquoteStripsPrefixIntoIndent(t *testing.T) {
	src := []byte("> quoted text\n")
	toks := Scan(src)
	require.Len(t, toks, 1)
	assert.Equal(t, token.KindBlockquote, toks[0].Kind)
	assert.Equal(t, "quoted text", toks[0].Content[toks[0].Indent:])
}
