package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/shepherd/internal/cli"
	"github.com/hyperjump/shepherd/internal/config"
)

func TestAskArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "flags after question move first",
			args: []string{"how", "do", "I", "find", "peace", "-output", "json"},
			want: []string{"-output", "json", "how", "do", "I", "find", "peace"},
		},
		{
			name: "flags first unchanged",
			args: []string{"-output", "json", "what", "is", "hope"},
			want: []string{"-output", "json", "what", "is", "hope"},
		},
		{
			name: "question only",
			args: []string{"what", "is", "hope"},
			want: []string{"what", "is", "hope"},
		},
		{
			name: "empty",
			args: []string{},
			want: []string{},
		},
		{
			name: "double dash flag after question",
			args: []string{"tell", "me", "more", "--session", "abc"},
			want: []string{"--session", "abc", "tell", "me", "more"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := askArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("askArgsReorder(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "single word", args: []string{"peace"}, want: "peace"},
		{name: "multiple words", args: []string{"how", "do", "I", "find", "peace"}, want: "how do I find peace"},
		{name: "quoted phrase stays one arg", args: []string{"how do I find peace"}, want: "how do I find peace"},
		{name: "surrounding space trimmed", args: []string{" peace "}, want: "peace"},
		{name: "empty args", args: []string{}, want: ""},
		{name: "whitespace only", args: []string{"  ", " "}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.args)
			if got != tt.want {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    cli.OutputFormat
		wantErr bool
	}{
		{raw: "text", want: cli.OutputText},
		{raw: "json", want: cli.OutputJSON},
		{raw: "yaml", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOutputFormat(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseOutputFormat(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOutputFormat(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseOutputFormat(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generation.APIKey = "config-key"

	t.Setenv("OPENAI_API_KEY", "env-key")
	if got := resolveAPIKey(cfg); got != "env-key" {
		t.Errorf("resolveAPIKey with env = %q, want env-key", got)
	}

	t.Setenv("OPENAI_API_KEY", "")
	if got := resolveAPIKey(cfg); got != "config-key" {
		t.Errorf("resolveAPIKey without env = %q, want config-key", got)
	}
}

func TestFallbacksFromConfig(t *testing.T) {
	sets := map[string]config.FallbackSet{
		"english": {Delayed: "d", Rephrase: "r", Unavailable: "u"},
		"hindi":   {Delayed: "hd", Rephrase: "hr", Unavailable: "hu"},
	}
	got := fallbacksFromConfig(sets)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["english"].Delayed != "d" || got["english"].Unavailable != "u" {
		t.Errorf("english set = %+v", got["english"])
	}
	if got["hindi"].Rephrase != "hr" {
		t.Errorf("hindi set = %+v", got["hindi"])
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(origDir)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cfg, loadedPath, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	// Compare through EvalSymlinks: on macOS t.TempDir lives under /var,
	// which is a symlink to /private/var.
	wantPath, err := filepath.EvalSymlinks(cfgPath)
	if err != nil {
		t.Fatalf("eval want path: %v", err)
	}
	gotPath, err := filepath.EvalSymlinks(loadedPath)
	if err != nil {
		t.Fatalf("eval got path: %v", err)
	}
	if gotPath != wantPath {
		t.Errorf("loaded path = %s, want %s", gotPath, wantPath)
	}
	if !cfg.Debug {
		t.Error("expected debug: true from cwd config")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "explicit.yaml")
	if err := os.WriteFile(cfgPath, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, err := loadConfig(cfgPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if loadedPath != cfgPath {
		t.Errorf("loaded path = %s, want %s", loadedPath, cfgPath)
	}
	if !cfg.Debug {
		t.Error("expected debug: true")
	}
}
