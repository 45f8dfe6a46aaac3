package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-bookopts/pkg/testsupport"
	"github.com/goliatone/go-bookopts/pkg/tui"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	defs := filepath.Join(dir, "options")
	if err := os.Mkdir(defs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testsupport.WriteDefinitions(t, defs)

	cfg := fmt.Sprintf(`book:
  driver: yaml
  path: %s
definitions:
  path: %s
logging:
  level: error
`, filepath.Join(dir, "book.yaml"), defs)
	path := filepath.Join(dir, "bookopts.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, &app{}, "--config", cfg, "get", "Display", "Depth")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("expected default depth 2, got %q", out)
	}

	if _, err := run(t, &app{}, "--config", cfg, "set", "Display", "Layout", "comparative"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err = run(t, &app{}, "--config", cfg, "get", "--profile", "scheme", "Display", "Layout")
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if strings.TrimSpace(out) != "'comparative" {
		t.Fatalf("expected the saved layout, got %q", out)
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, &app{}, "--config", cfg, "set", "Display", "Depth", "99"); err == nil {
		t.Fatalf("expected an out-of-range depth to fail")
	}
	out, err := run(t, &app{}, "--config", cfg, "list", "--changed")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No options found.") {
		t.Fatalf("nothing should have been saved, got:\n%s", out)
	}
}

func TestList(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, &app{}, "--config", cfg, "set", "Display", "Depth", "5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, &app{}, "--config", cfg, "list", "--section", "Display")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected four display options, got:\n%s", out)
	}
	var depth string
	for _, line := range lines {
		if strings.Contains(line, "Display/Depth") {
			depth = line
		}
	}
	if !strings.HasPrefix(depth, "*") || !strings.HasSuffix(strings.TrimSpace(depth), "5") {
		t.Fatalf("expected depth to be marked changed with value 5, got %q", depth)
	}

	out, err = run(t, &app{}, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if strings.Contains(out, "Schema version") {
		t.Fatalf("internal options are hidden by default:\n%s", out)
	}
	out, err = run(t, &app{}, "--config", cfg, "list", "--internal")
	if err != nil {
		t.Fatalf("list internal: %v", err)
	}
	if !strings.Contains(out, "Internal/Schema version") {
		t.Fatalf("expected internal option with --internal:\n%s", out)
	}
}

func TestReset(t *testing.T) {
	cfg := writeConfig(t)

	for _, args := range [][]string{
		{"set", "Display", "Depth", "5"},
		{"set", "General", "Report title", "Quarterly"},
		{"reset", "Display", "Depth"},
	} {
		if _, err := run(t, &app{}, append([]string{"--config", cfg}, args...)...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	out, err := run(t, &app{}, "--config", cfg, "forms")
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if !strings.Contains(out, `"Quarterly"`) || strings.Contains(out, `"Depth"`) {
		t.Fatalf("expected only the title form, got:\n%s", out)
	}

	if _, err := run(t, &app{}, "--config", cfg, "reset", "--all"); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	out, err = run(t, &app{}, "--config", cfg, "forms")
	if err != nil || strings.TrimSpace(out) != "" {
		t.Fatalf("expected no forms after reset, got %q (%v)", out, err)
	}

	if _, err := run(t, &app{}, "--config", cfg, "reset"); err == nil {
		t.Fatalf("reset needs --all or an option")
	}
}

// echoDriver accepts every default except the answers keyed by prompt message.
type echoDriver struct {
	answers map[string]string
	abort   bool
}

func (d *echoDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if d.abort {
		return "", tui.ErrAborted
	}
	if answer, ok := d.answers[cfg.Message]; ok {
		return answer, nil
	}
	return cfg.Default, nil
}

func (d *echoDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	return cfg.Default, nil
}

func (d *echoDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	if d.abort {
		return 0, tui.ErrAborted
	}
	return cfg.DefaultIndex, nil
}

func (d *echoDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	return cfg.Defaults, nil
}

func (d *echoDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	return cfg.Default, nil
}

func (d *echoDriver) Info(context.Context, string) error { return nil }

func TestEdit(t *testing.T) {
	cfg := writeConfig(t)

	driver := &echoDriver{answers: map[string]string{"Depth (1..8)": "6"}}
	if _, err := run(t, &app{driver: driver}, "--config", cfg, "edit", "--section", "Display"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	out, err := run(t, &app{}, "--config", cfg, "get", "Display", "Depth")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "6" {
		t.Fatalf("expected edited depth 6, got %q", out)
	}
}

func TestEditAbortSavesNothing(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, &app{driver: &echoDriver{abort: true}}, "--config", cfg, "edit", "--section", "Display")
	if err != nil {
		t.Fatalf("abort should not fail: %v", err)
	}
	if !strings.Contains(out, "Aborted") {
		t.Fatalf("expected abort notice, got %q", out)
	}
}
