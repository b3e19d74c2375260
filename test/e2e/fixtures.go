// Package e2e provides end-to-end tests; this file writes corpus fixtures in
// the on-disk format the service loads at startup.
package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCorpusDir writes each language collection of c to <dir>/<language>.json
// so tests can exercise the same load path as a real deployment.
func WriteCorpusDir(dir string, c *GuidanceCorpus) error {
	for lang, records := range c.Collections {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s corpus: %w", lang, err)
		}
		path := filepath.Join(dir, lang+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s corpus: %w", lang, err)
		}
	}
	return nil
}
