package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the client. Values resolve in layers:
// built-in defaults, then an optional YAML file, then environment
// variables. Later layers win.
type Config struct {
	// BaseURL is the note service endpoint, e.g. "https://memos.example.com".
	BaseURL string `yaml:"baseUrl"`
	// Token is the bearer token for authenticated calls. Empty means
	// anonymous, which restricts the client to public notes.
	Token string `yaml:"token"`
	// NotesDir switches the backend to a local note directory instead of
	// the remote service. Meant for offline use and development.
	NotesDir string `yaml:"notesDir"`

	PageSize    int `yaml:"pageSize"`
	ScanPages   int `yaml:"scanPages"`
	InlineLimit int `yaml:"inlineLimit"`

	CatalogDir       string `yaml:"catalogDir"`
	CatalogNamespace string `yaml:"catalogNamespace"`
	ReadOnly         bool   `yaml:"readOnly"`

	ListenAddr string `yaml:"listenAddr"`
	WebhookURL string `yaml:"webhookUrl"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:         50,
		ScanPages:        5,
		InlineLimit:      8192,
		CatalogDir:       defaultCatalogDir(),
		CatalogNamespace: "default",
		ListenAddr:       ":8087",
	}
}

func defaultCatalogDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "carte")
	}
	return ".carte"
}

// LoadConfig resolves the effective configuration. path may be empty, in
// which case only a conventional "carte.yaml" in the working directory
// is consulted, and only if it exists.
func LoadConfig(path string) (Config, error) {
	// A .env file is developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = "carte.yaml"
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.BaseURL, "CARTE_BASE_URL")
	setString(&cfg.Token, "CARTE_TOKEN")
	setString(&cfg.NotesDir, "CARTE_NOTES_DIR")
	setInt(&cfg.PageSize, "CARTE_PAGE_SIZE")
	setInt(&cfg.ScanPages, "CARTE_SCAN_PAGES")
	setInt(&cfg.InlineLimit, "CARTE_INLINE_LIMIT")
	setString(&cfg.CatalogDir, "CARTE_CATALOG_DIR")
	setString(&cfg.CatalogNamespace, "CARTE_NAMESPACE")
	setBool(&cfg.ReadOnly, "CARTE_READ_ONLY")
	setString(&cfg.ListenAddr, "CARTE_LISTEN_ADDR")
	setString(&cfg.WebhookURL, "CARTE_WEBHOOK_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate checks the parts every note-touching command relies on.
func (c Config) Validate() error {
	if c.BaseURL == "" && c.NotesDir == "" {
		return fmt.Errorf("baseUrl or notesDir is required (set CARTE_BASE_URL or the config file)")
	}
	return nil
}
