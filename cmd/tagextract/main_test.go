package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NivBraz/tagextractor/internal/config"
	"github.com/NivBraz/tagextractor/pkg/source"
	"github.com/NivBraz/tagextractor/pkg/store"
)

const shippedConfig = "../../config.yaml"

func TestOverrideConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Input.Document = "from-config.txt"
	cfg.Output.Format = config.FormatText

	overrideConfig(cfg, "", "builtin", "out", "json", "", true)

	if cfg.Input.Document != "from-config.txt" {
		t.Errorf("empty flag should keep config document, got %s", cfg.Input.Document)
	}
	if cfg.Input.StopWords != "builtin" {
		t.Errorf("Expected stop words builtin, got %s", cfg.Input.StopWords)
	}
	if cfg.Output.SavePath != "out" || cfg.Output.Format != config.FormatJSON {
		t.Errorf("Unexpected output section: %+v", cfg.Output)
	}
	if !cfg.Logging.Verbose {
		t.Error("Expected verbose to be set")
	}
}

func TestShippedConfigRequiresStopWords(t *testing.T) {
	cfg, err := config.Load(shippedConfig)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", shippedConfig, err)
	}
	if cfg.Input.StopWords != "" {
		t.Errorf("shipped config selects stop words %q, the user must choose", cfg.Input.StopWords)
	}

	doc := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(doc, []byte("whale"), 0644); err != nil {
		t.Fatal(err)
	}
	err = run(context.Background(), []string{"-config", shippedConfig, "-file", doc}, &bytes.Buffer{})
	if !errors.Is(err, errNoStopWords) {
		t.Errorf("Expected errNoStopWords, got %v", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "moby.txt")
	if err := os.WriteFile(doc, []byte("The whale, the whale and the ship."), 0644); err != nil {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "archive.db")
	out := filepath.Join(dir, "tags")
	ctx := context.Background()

	var stdout bytes.Buffer
	args := []string{"-config", shippedConfig, "-file", doc, "-stopwords", "builtin", "-out", out, "-archive", db}
	if err := run(ctx, args, &stdout); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Total distinct tags: 2") {
		t.Errorf("Unexpected report:\n%s", stdout.String())
	}

	saved, err := os.ReadFile(out + ".txt")
	if err != nil {
		t.Fatalf("saved report missing: %v", err)
	}
	if !strings.HasPrefix(string(saved), "Tags for file: moby.txt\n") {
		t.Errorf("Unexpected saved report:\n%s", saved)
	}

	stdout.Reset()
	if err := run(ctx, []string{"-config", shippedConfig, "-archive", db, "-show-archived", "1"}, &stdout); err != nil {
		t.Fatalf("run(-show-archived) error = %v", err)
	}
	if !strings.Contains(stdout.String(), "whale") || !strings.Contains(stdout.String(), "Tags for file: moby.txt") {
		t.Errorf("Unexpected archived report:\n%s", stdout.String())
	}
}

func TestRunReadFailureClosesArchive(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "archive.db")
	args := []string{
		"-config", shippedConfig,
		"-file", filepath.Join(dir, "missing.txt"),
		"-stopwords", "builtin",
		"-archive", db,
	}

	err := run(context.Background(), args, &bytes.Buffer{})
	var readErr *source.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Expected *source.ReadError, got %v", err)
	}

	s, err := store.Open(db)
	if err != nil {
		t.Fatalf("archive unusable after failed run: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"-no-such-flag"}, &stdout); err == nil {
		t.Error("Expected error for unknown flag")
	}
}
