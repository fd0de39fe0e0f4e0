package yamlbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/source"
)

func blockInfoFor(raw string) source.Info {
	return source.NewOriginal(0, 0, len(raw))
}

func TestExtractFrontmatterScalarMap(t *testing.T) {
	raw := "title: Hello\nauthor: Jane\n"
	cfg, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	require.NoError(t, err)
	require.Equal(t, ast.ConfigMap, cfg.Kind)

	title, ok := cfg.Lookup("title")
	require.True(t, ok)
	assert.Equal(t, ast.ConfigScalar, title.Kind)
	assert.Equal(t, "Hello", title.Scalar)

	author, ok := cfg.Lookup("author")
	require.True(t, ok)
	assert.Equal(t, "Jane", author.Scalar)
}

func TestExtractFrontmatterSequence(t *testing.T) {
	raw := "tags:\n  - a\n  - b\n  - c\n"
	cfg, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	require.NoError(t, err)
	tags, ok := cfg.Lookup("tags")
	require.True(t, ok)
	require.Equal(t, ast.ConfigSequence, tags.Kind)
	require.Len(t, tags.Sequence, 3)
	assert.Equal(t, "a", tags.Sequence[0].Scalar)
	assert.Equal(t, "c", tags.Sequence[2].Scalar)
}

func TestExtractFrontmatterNestedMap(t *testing.T) {
	raw := "format:\n  html:\n    toc: true\n"
	cfg, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	require.NoError(t, err)
	format, ok := cfg.Lookup("format")
	require.True(t, ok)
	require.Equal(t, ast.ConfigMap, format.Kind)
	html, ok := format.Lookup("html")
	require.True(t, ok)
	toc, ok := html.Lookup("toc")
	require.True(t, ok)
	assert.Equal(t, "true", toc.Scalar)
}

func TestExtractFrontmatterNullValue(t *testing.T) {
	raw := "title:\n"
	cfg, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	require.NoError(t, err)
	title, ok := cfg.Lookup("title")
	require.True(t, ok)
	assert.Equal(t, ast.ConfigNull, title.Kind)
}

func TestExtractFrontmatterEmptyYieldsConfigNull(t *testing.T) {
	raw := ""
	cfg, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	require.NoError(t, err)
	assert.Equal(t, ast.ConfigNull, cfg.Kind)
}

func TestExtractFrontmatterMalformedYAMLReturnsError(t *testing.T) {
	raw := "title: [unterminated\n"
	_, err := ExtractFrontmatter(raw, blockInfoFor(raw))
	assert.Error(t, err)
}

func TestExtractFrontmatterPreservesProvenance(t *testing.T) {
	raw := "title: Hello\n"
	blockInfo := blockInfoFor(raw)
	cfg, err := ExtractFrontmatter(raw, blockInfo)
	require.NoError(t, err)
	title, ok := cfg.Lookup("title")
	require.True(t, ok)

	sub, ok := title.Info.(source.Substring)
	require.True(t, ok, "yaml-sourced node info must be a Substring of the block info")
	assert.Equal(t, blockInfo, sub.Parent)
}

func TestExtractCellOptionsDelegatesToFrontmatter(t *testing.T) {
	raw := "echo: false\n"
	cfg, err := ExtractCellOptions(raw, blockInfoFor(raw))
	require.NoError(t, err)
	echo, ok := cfg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "false", echo.Scalar)
}
