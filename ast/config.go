package ast

import "github.com/quarto-dev/q2-sub016/source"

// ConfigKind tags a ConfigValue's shape.
type ConfigKind int

const (
	ConfigNull ConfigKind = iota
	ConfigScalar
	ConfigSequence
	ConfigMap
)

// ConfigMapEntry preserves declaration order, unlike a Go map.
type ConfigMapEntry struct {
	Key       string
	KeySource source.Info
	Value     ConfigValue
}

// ConfigValue is a YAML-sourced node: document metadata or cell options.
// Every node carries its own source.Info, a Substring into the YAML text
// the yamlbridge package extracted (itself a Substring or Concat into the
// qmd source), so a metadata value can be traced back to its exact bytes
// even through frontmatter/cell-option extraction.
type ConfigValue struct {
	Kind     ConfigKind
	Scalar   string
	Sequence []ConfigValue
	Map      []ConfigMapEntry
	Info     source.Info
}

func (c ConfigValue) SourceInfo() source.Info { return c.Info }

func (c ConfigValue) Walk(f func(Node) bool) {}

// Lookup finds a top-level map key, returning its value and whether it was
// present. It is a convenience for callers reading document metadata or
// cell options.
func (c ConfigValue) Lookup(key string) (ConfigValue, bool) {
	if c.Kind != ConfigMap {
		return ConfigValue{}, false
	}
	for _, e := range c.Map {
		if e.Key == key {
			return e.Value, true
		}
	}
	return ConfigValue{}, false
}
