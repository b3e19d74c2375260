// Package corpus loads the immutable per-language scripture collections.
// Each language is one JSON file of verse records, read once at startup.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// VerseRecord is one scripture passage. Verse is a string so a record can
// cover a range ("6-7"). Records are immutable once loaded; a record's
// identity is its position in the loaded slice.
type VerseRecord struct {
	Book     string `json:"book"`
	Chapter  int    `json:"chapter"`
	Verse    string `json:"verse"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Reference formats the record as "Book Chapter:Verse".
func (v *VerseRecord) Reference() string {
	return fmt.Sprintf("%s %d:%s", v.Book, v.Chapter, v.Verse)
}

// LoadFile reads one language's verse collection from path and validates it.
// Every record must carry non-empty text and the expected language tag.
func LoadFile(path, lang string) ([]VerseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	var records []VerseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", path, err)
	}
	for i := range records {
		if records[i].Text == "" {
			return nil, fmt.Errorf("corpus file %s: record %d has empty text", path, i)
		}
		if records[i].Book == "" {
			return nil, fmt.Errorf("corpus file %s: record %d has empty book", path, i)
		}
		if records[i].Language == "" {
			records[i].Language = lang
		} else if records[i].Language != lang {
			return nil, fmt.Errorf("corpus file %s: record %d language %q, want %q",
				path, i, records[i].Language, lang)
		}
	}
	return records, nil
}

// Load reads <dir>/<language>.json for each requested language. A missing
// file leaves that language out of the result so its retrieval degrades to
// always-empty; a present but malformed file is an error since startup must
// not continue on a corrupt corpus.
func Load(dir string, languages []string) (map[string][]VerseRecord, error) {
	corpora := make(map[string][]VerseRecord, len(languages))
	for _, lang := range languages {
		path := filepath.Join(dir, lang+".json")
		records, err := LoadFile(path, lang)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		corpora[lang] = records
	}
	return corpora, nil
}
