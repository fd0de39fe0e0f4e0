package qmd

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/ast"
)

func TestParseBasicDocument(t *testing.T) {
	src := []byte("# Title\n\nSome *emph* text.\n")
	doc, actx, diags, err := Parse(src, "doc.qmd", Options{})
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.NotNil(t, actx)
	assert.Empty(t, diags)
	require.Len(t, doc.Blocks, 2)
	_, ok := doc.Blocks[0].(ast.Header)
	assert.True(t, ok)
}

func TestParseExtractsYAMLFrontmatter(t *testing.T) {
	src := []byte("---\ntitle: Hello\nauthor: Jane\n---\n\nBody text.\n")
	doc, _, diags, err := Parse(src, "doc.qmd", Options{ExtractYAML: true})
	require.NoError(t, err)
	for _, d := range diags {
		assert.NotEqual(t, "invalid YAML frontmatter", d.Title)
	}
	require.Equal(t, ast.ConfigMap, doc.Meta.Kind)
	var gotTitle bool
	for _, e := range doc.Meta.Map {
		if e.Key == "title" {
			gotTitle = true
			assert.Equal(t, "Hello", e.Value.Scalar)
		}
	}
	assert.True(t, gotTitle)
}

func TestParseSkipsYAMLDecodeWhenDisabled(t *testing.T) {
	src := []byte("---\ntitle: Hello\n---\n\nBody.\n")
	doc, _, _, err := Parse(src, "doc.qmd", Options{ExtractYAML: false})
	require.NoError(t, err)
	assert.Equal(t, ast.ConfigValue{}, doc.Meta)
}

func TestParseMapOffsetResolvesPosition(t *testing.T) {
	src := []byte("line one\nline two\n")
	doc, actx, _, err := Parse(src, "doc.qmd", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, doc.Blocks)
	info := doc.Blocks[0].SourceInfo()
	pos, ok := actx.MapOffset(info, 0)
	require.True(t, ok)
	assert.Equal(t, 0, pos.Line)
	assert.Equal(t, "doc.qmd", actx.Path(0))
}

func TestParseReturnsErrorWhenRegistrationFails(t *testing.T) {
	// Passing nil content with a populated afero.Fs forces Register's read
	// path, which fails for a file that was never written to fs.
	fs := afero.NewMemMapFs()
	_, _, _, err := Parse(nil, "missing.qmd", Options{FS: fs})
	assert.Error(t, err)
}

func TestStripYAMLDelimiters(t *testing.T) {
	raw := "---\ntitle: x\n---"
	assert.Equal(t, "title: x", stripYAMLDelimiters(raw))
}
