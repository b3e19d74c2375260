package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "/tmp/shepherd/chat.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != "/tmp/shepherd/chat.db" {
		t.Errorf("database_path = %s", cfg.Storage.DatabasePath)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "debug: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set")
	}
	if cfg.Retrieval.TopK != 5 || cfg.Retrieval.MaxDistance != 10.0 {
		t.Errorf("retrieval defaults: %+v", cfg.Retrieval)
	}
	if cfg.RateLimit.WindowSeconds != 60 || cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Generation.TimeoutSeconds != 30 {
		t.Errorf("generation timeout default: %d", cfg.Generation.TimeoutSeconds)
	}
	if cfg.Corpus.DefaultLanguage != "english" || len(cfg.Corpus.Languages) != 2 {
		t.Errorf("corpus defaults: %+v", cfg.Corpus)
	}
	if cfg.Embedding.Type != "onnx" || cfg.Embedding.Dimensions != 384 {
		t.Errorf("embedding defaults: %+v", cfg.Embedding)
	}
}

func TestLoad_FallbackDefaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, lang := range []string{"english", "hindi"} {
		fb, ok := cfg.Fallbacks[lang]
		if !ok {
			t.Fatalf("missing %s fallback set", lang)
		}
		if fb.Delayed == "" || fb.Rephrase == "" || fb.Unavailable == "" {
			t.Errorf("%s fallback set is partial: %+v", lang, fb)
		}
	}
	if !strings.Contains(cfg.Fallbacks["english"].Unavailable, "Psalm 145:18") {
		t.Error("english unavailable fallback should quote Psalm 145:18")
	}
}

func TestLoad_PartialFallbacksCompleted(t *testing.T) {
	path := writeConfig(t, `
fallbacks:
  english:
    delayed: "custom delayed text"
  spanish:
    rephrase: "reformule su pregunta"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	en := cfg.Fallbacks["english"]
	if en.Delayed != "custom delayed text" {
		t.Errorf("override lost: %q", en.Delayed)
	}
	if en.Rephrase == "" || en.Unavailable == "" {
		t.Errorf("partial english set not completed: %+v", en)
	}
	es := cfg.Fallbacks["spanish"]
	if es.Rephrase != "reformule su pregunta" || es.Delayed == "" || es.Unavailable == "" {
		t.Errorf("unknown language set not completed: %+v", es)
	}
}

func TestLoad_ExpandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/chat.db"
corpus:
  dir: "./data/corpus"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "data", "chat.db")
	if cfg.Storage.DatabasePath != want {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, want)
	}
	if cfg.Corpus.Dir != filepath.Join(dir, "data", "corpus") {
		t.Errorf("corpus dir = %s", cfg.Corpus.Dir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
