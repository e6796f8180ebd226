package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/treekey/treepages/internal/config"
	"github.com/treekey/treepages/internal/model"
	"github.com/treekey/treepages/internal/progress"
	"github.com/treekey/treepages/internal/site"
)

func TestApplyGenerateFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "generate"}
	addGenerateFlags(cmd)
	err := cmd.ParseFlags([]string{"-m", "key.json", "-o", "public", "--single-page", "--layout", "nested", "--sidebar=false"})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.PhotoDir = "from-file"
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Model != "key.json" || cfg.OutputDir != "public" {
		t.Errorf("paths = %q, %q", cfg.Model, cfg.OutputDir)
	}
	if !cfg.SinglePage || cfg.Layout != config.LayoutNested || cfg.Sidebar {
		t.Errorf("flags not applied: %+v", *cfg)
	}
	// Unset flags leave file values alone.
	if cfg.PhotoDir != "from-file" {
		t.Errorf("photo_dir = %q, want the configured value", cfg.PhotoDir)
	}
	if cfg.IndexName != "index.html" {
		t.Errorf("index_name = %q, want default", cfg.IndexName)
	}
}

func TestSiteOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout = config.LayoutNested
	cfg.MissingPhotos = config.MissingWarn
	cfg.ContentFormat = config.ContentMarkdown

	opts := siteOptions(cfg, progress.Nop{})
	if opts.Layout != site.LayoutNested || opts.MissingPhotos != site.MissingWarn || opts.ContentFormat != site.FormatMarkdown {
		t.Errorf("enums not mapped: %+v", opts)
	}
	if opts.ModelPath != cfg.Model || opts.OutputDir != cfg.OutputDir || opts.MaxImagePixels != cfg.MaxImagePixels {
		t.Errorf("options = %+v", opts)
	}
}

func TestInfoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	data := `{"title":"Ants","root":{"id":"r","label":"Root","children":[{"id":"a","label":"A","media":["a.jpg"]},{"id":"b","label":"B"}],
		"branches":[{"label":"skip","target":"b"}]}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"info", "-d", path, "--json"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var stats model.Stats
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if stats.Nodes != 3 || stats.Depth != 2 || stats.Branches != 1 || stats.Leaves != 2 || stats.Media != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	data := `{"root":{"id":"r","label":"Root","children":[{"id":"c1","label":"Child"}]}}`
	if err := os.WriteFile(modelPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"generate", "--config", filepath.Join(dir, "none.yml"),
		"-m", modelPath, "-o", outDir, "--nophotos", "-v"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"index.html", "page/r.html", "page/c1.html", "assets/style.css"} {
		if _, err := os.Stat(filepath.Join(outDir, p)); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	if !strings.Contains(out.String(), "Generated") {
		t.Errorf("summary missing: %q", out.String())
	}
}
