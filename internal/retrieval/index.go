// Package retrieval ranks corpus verses against guidance queries by embedding distance.
package retrieval

import (
	"fmt"

	"github.com/hyperjump/shepherd/internal/corpus"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/internal/vector"
)

// LanguageIndex couples one language's vector index with the verse records it
// was built from. Index position i always refers to records[i]; both are
// read-only after construction.
type LanguageIndex struct {
	language string
	index    *vector.MemoryIndex
	records  []corpus.VerseRecord
}

// NewLanguageIndex wraps a built index and its backing records. The index
// must hold exactly one vector per record, in record order.
func NewLanguageIndex(language string, index *vector.MemoryIndex, records []corpus.VerseRecord) (*LanguageIndex, error) {
	if index == nil {
		return nil, fmt.Errorf("nil index for language %s", language)
	}
	if index.Size() != len(records) {
		return nil, fmt.Errorf("index/record mismatch for language %s: %d vectors, %d records", language, index.Size(), len(records))
	}
	return &LanguageIndex{
		language: language,
		index:    index,
		records:  records,
	}, nil
}

// Search returns the k nearest verses as citations, closest first.
func (li *LanguageIndex) Search(query []float32, k int) ([]models.Citation, error) {
	neighbors, err := li.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	citations := make([]models.Citation, 0, len(neighbors))
	for _, n := range neighbors {
		rec := li.records[n.Position]
		citations = append(citations, models.Citation{
			Reference: rec.Reference(),
			Text:      rec.Text,
			Score:     n.Distance,
		})
	}
	return citations, nil
}

// Language returns the language this index serves.
func (li *LanguageIndex) Language() string {
	return li.language
}

// Size returns the number of indexed verses.
func (li *LanguageIndex) Size() int {
	return len(li.records)
}
