package e2e

import (
	"testing"

	"github.com/hyperjump/shepherd/internal/corpus"
	"github.com/hyperjump/shepherd/internal/language"
)

func TestWriteCorpusDir_LoadsBack(t *testing.T) {
	dir := t.TempDir()
	c := BuildGuidanceCorpus()
	if err := WriteCorpusDir(dir, c); err != nil {
		t.Fatalf("WriteCorpusDir: %v", err)
	}

	// Ask for one language with no fixture file; Load must skip it silently.
	collections, err := corpus.Load(dir, []string{language.English, language.Hindi, "spanish"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := collections["spanish"]; ok {
		t.Error("spanish should be absent, no fixture was written for it")
	}
	for lang, want := range c.Collections {
		got := collections[lang]
		if len(got) != len(want) {
			t.Errorf("%s: loaded %d records, want %d", lang, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s record %d: loaded %+v, want %+v", lang, i, got[i], want[i])
			}
		}
	}
}
