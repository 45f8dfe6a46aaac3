package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Book.Driver != "yaml" || cfg.Book.Path != "book.yaml" {
		t.Fatalf("unexpected book defaults %+v", cfg.Book)
	}
	if cfg.Definitions.Path != "options" || cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	body := "book:\n  driver: sqlite\n  path: books.db\nlogging:\n  format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOOKOPTS_LOGGING_LEVEL", "debug")
	t.Setenv("BOOKOPTS_BOOK_PATH", "override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Book.Driver != "sqlite" || cfg.Book.Path != "override.db" {
		t.Fatalf("unexpected book config %+v", cfg.Book)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected a missing explicit config file to fail")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "memory needs no path", cfg: Config{Book: BookConfig{Driver: "memory"}, Logging: LoggingConfig{Format: "json"}}},
		{name: "unknown driver", cfg: Config{Book: BookConfig{Driver: "postgres", Path: "x"}, Logging: LoggingConfig{Format: "json"}}, want: "book.driver"},
		{name: "file driver needs path", cfg: Config{Book: BookConfig{Driver: "yaml"}, Logging: LoggingConfig{Format: "json"}}, want: "book.path"},
		{name: "bad format", cfg: Config{Book: BookConfig{Driver: "memory"}, Logging: LoggingConfig{Format: "xml"}}, want: "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
