// Package yamlbridge turns YAML frontmatter and fenced code-cell option
// blocks into ast.ConfigValue trees, using gopkg.in/yaml.v3's *yaml.Node so
// every scalar/mapping/sequence keeps its own Line/Column and can be wrapped
// in a source.Substring pointing back at the exact bytes it came from - the
// same "preserve provenance through a foreign parser" trick org.go applies
// to raw org-mode property drawers, generalized to a real YAML AST.
package yamlbridge

import (
	"gopkg.in/yaml.v3"

	"github.com/quarto-dev/q2-sub016/ast"
	"github.com/quarto-dev/q2-sub016/source"
)

// ExtractFrontmatter parses a YAML frontmatter block's raw text (without its
// delimiter lines) into a ConfigValue, anchoring every node's source.Info as
// a Substring of the containing Original block info.
func ExtractFrontmatter(raw string, blockInfo source.Info) (ast.ConfigValue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return ast.ConfigValue{}, err
	}
	if len(doc.Content) == 0 {
		return ast.ConfigValue{Kind: ast.ConfigNull, Info: blockInfo}, nil
	}
	return nodeToConfig(doc.Content[0], raw, blockInfo), nil
}

// ExtractCellOptions parses a fenced code cell's "#| key: value" YAML
// comment-option lines (already stripped of their "#| " prefix by the
// caller) the same way, for qmd's executable-cell option blocks.
func ExtractCellOptions(raw string, blockInfo source.Info) (ast.ConfigValue, error) {
	return ExtractFrontmatter(raw, blockInfo)
}

// nodeToConfig converts one *yaml.Node into an ast.ConfigValue. Scalars are
// kept as their literal YAML text (ast.ConfigValue.Scalar is untyped by
// design - callers that need a bool/int/float re-parse it themselves, the
// same way org's property drawer values are kept as strings until a caller
// asks for a typed view).
func nodeToConfig(n *yaml.Node, raw string, blockInfo source.Info) ast.ConfigValue {
	info := nodeInfo(n, raw, blockInfo)
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]ast.ConfigValue, len(n.Content))
		for i, c := range n.Content {
			items[i] = nodeToConfig(c, raw, blockInfo)
		}
		return ast.ConfigValue{Kind: ast.ConfigSequence, Sequence: items, Info: info}
	case yaml.MappingNode:
		entries := make([]ast.ConfigMapEntry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val := n.Content[i+1]
			entries = append(entries, ast.ConfigMapEntry{
				Key:       key.Value,
				KeySource: nodeInfo(key, raw, blockInfo),
				Value:     nodeToConfig(val, raw, blockInfo),
			})
		}
		return ast.ConfigValue{Kind: ast.ConfigMap, Map: entries, Info: info}
	case yaml.AliasNode:
		return nodeToConfig(n.Alias, raw, blockInfo)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ast.ConfigValue{Kind: ast.ConfigNull, Info: info}
		}
		return ast.ConfigValue{Kind: ast.ConfigScalar, Scalar: n.Value, Info: info}
	default:
		return ast.ConfigValue{Kind: ast.ConfigNull, Info: info}
	}
}

// nodeInfo resolves n's Line/Column (1-based) to a byte offset within raw
// and wraps blockInfo in a Substring spanning the scalar's rendered length.
// yaml.v3 doesn't expose a node's raw byte range directly, so this
// approximates it from Line/Column plus len(Value) - good enough for
// diagnostic anchoring, which only ever needs a point or a short span.
func nodeInfo(n *yaml.Node, raw string, blockInfo source.Info) source.Info {
	offset := lineColToOffset(raw, n.Line, n.Column)
	length := len(n.Value)
	if length == 0 {
		length = 1
	}
	return source.NewSubstring(blockInfo, offset, offset+length)
}

func lineColToOffset(raw string, line, col int) int {
	if line < 1 {
		line = 1
	}
	curLine := 1
	i := 0
	for i < len(raw) && curLine < line {
		if raw[i] == '\n' {
			curLine++
		}
		i++
	}
	offset := i + (col - 1)
	if offset < 0 {
		offset = 0
	}
	if offset > len(raw) {
		offset = len(raw)
	}
	return offset
}
