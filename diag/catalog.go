package diag

import (
	"embed"
	"encoding/json"
	"sync"
)

//go:embed data/error_catalog.json
var catalogFS embed.FS

// CatalogEntry is one compile-time-loaded error_catalog.json record
// (spec.md §6, "On-disk artifacts consumed by the core").
type CatalogEntry struct {
	Subsystem       string `json:"subsystem"`
	Title           string `json:"title"`
	MessageTemplate string `json:"message_template"`
	DocsURL         string `json:"docs_url"`
	SinceVersion    string `json:"since_version"`
}

var (
	catalogOnce sync.Once
	catalog     map[string]CatalogEntry
)

// Catalog returns the process-wide, read-only error catalog, loaded once
// from the embedded error_catalog.json.
func Catalog() map[string]CatalogEntry {
	catalogOnce.Do(func() {
		b, err := catalogFS.ReadFile("data/error_catalog.json")
		if err != nil {
			catalog = map[string]CatalogEntry{}
			return
		}
		m := map[string]CatalogEntry{}
		if err := json.Unmarshal(b, &m); err != nil {
			catalog = map[string]CatalogEntry{}
			return
		}
		catalog = m
	})
	return catalog
}

// LookupCode returns the catalog entry for code, if any.
func LookupCode(code string) (CatalogEntry, bool) {
	e, ok := Catalog()[code]
	return e, ok
}
