package convert

import (
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"pbc/config"
	"pbc/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Conversion.FileNameTransliterate = transliterate
	cfg.Conversion.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputBase(t *testing.T) {
	doc := &Source{ID: "home", Title: "Hello, World!"}
	src := filepath.Join("site", "pages.json")

	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		want          string
	}{
		{"default template", false, false, "{{ .ID }}", filepath.Join("/output", "site", "home")},
		{"no dirs", true, false, "{{ .ID }}", filepath.Join("/output", "home")},
		{"empty template uses id", true, false, "", filepath.Join("/output", "home")},
		{"subdirectories", true, false, "{{ .Source }}/{{ .Index }}/{{ .ID }}", filepath.Join("/output", "pages", "2", "home")},
		{"transliterate", true, true, "{{ .Title }}", filepath.Join("/output", "hello-world")},
		{"broken template falls back", true, false, "{{ .ID ", filepath.Join("/output", "home")},
		{"template expands to nothing", true, false, "{{ if false }}x{{ end }}", filepath.Join("/output", "home")},
		{"cannot escape destination", true, false, "../../{{ .ID }}", filepath.Join("/output", "home")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			if got := buildOutputBase(doc, src, 2, "/output", env); got != tt.want {
				t.Errorf("buildOutputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{"file", []string{"file"}},
		{filepath.Join("a", "..", "b") + string(filepath.Separator), []string{"a", "b"}},
		{string(filepath.Separator) + "abs", []string{"abs"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := splitAndCleanPath(tt.path); !slices.Equal(got, tt.want) {
			t.Errorf("splitAndCleanPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
