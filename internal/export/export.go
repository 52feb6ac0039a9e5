// Package export writes scrape results to disk as JSON dumps the search
// server can load back.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hojyokin-go/internal/model"
)

// Document is the envelope of one dump: run metadata plus the ordered
// record collection.
type Document struct {
	Metadata  model.ScrapeRun `json:"metadata"`
	Subsidies []model.Subsidy `json:"subsidies"`
}

// WriteJSON stores a run and its records at path, creating parent
// directories as needed. The metadata total is always recomputed from the
// records actually written.
func WriteJSON(path string, run model.ScrapeRun, subsidies []model.Subsidy) error {
	if subsidies == nil {
		subsidies = []model.Subsidy{}
	}
	run.TotalCount = len(subsidies)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Metadata: run, Subsidies: subsidies}); err != nil {
		f.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	return f.Close()
}
