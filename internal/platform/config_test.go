package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("explicit missing config file must error")
	}

	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ScanPages != 5 || cfg.InlineLimit != 8192 || cfg.PageSize != 50 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.CatalogNamespace != "default" {
		t.Errorf("namespace = %q", cfg.CatalogNamespace)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carte.yaml")
	content := "baseUrl: https://file.example\nscanPages: 3\ntoken: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CARTE_TOKEN", "from-env")
	t.Setenv("CARTE_SCAN_PAGES", "7")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://file.example" {
		t.Errorf("baseUrl = %q", cfg.BaseURL)
	}
	if cfg.Token != "from-env" {
		t.Errorf("token = %q, env must win over file", cfg.Token)
	}
	if cfg.ScanPages != 7 {
		t.Errorf("scanPages = %d", cfg.ScanPages)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("config without a backend must fail validation")
	}
	cfg.BaseURL = "https://memos.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	local := DefaultConfig()
	local.NotesDir = "/tmp/notes"
	if err := local.Validate(); err != nil {
		t.Errorf("notesDir alone must validate: %v", err)
	}
}

func TestNew_WithInjectedComponents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://memos.example.com"
	cfg.CatalogDir = t.TempDir()

	app, err := New(WithConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if app.Store == nil || app.Catalogs == nil || app.Ledger == nil || app.Resolver == nil {
		t.Errorf("app not fully assembled: %+v", app)
	}
}
