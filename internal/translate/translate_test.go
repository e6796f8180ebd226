package translate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/treekey/treepages/internal/model"
)

const keyModel = `{
  "title": "Key",
  "definitions": {"petiole": [{"text": "waist", "description": "segment"}]},
  "root": {
    "id": "r", "label": "Start", "content": "Look closely",
    "url": "https://example.org/Start",
    "branches": [{"label": "winged", "target": "c1"}],
    "children": [{"id": "c1", "label": "Winged", "media": ["Start.jpg"]}]
  }
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "de.json")
	if err := os.WriteFile(path, []byte(`{"Start": "Anfang"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := m.Text("Start"); got != "Anfang" {
		t.Errorf("Text(Start) = %q, want %q", got, "Anfang")
	}
	if got := m.Text("Other"); got != "Other" {
		t.Errorf("Text(Other) = %q, want unchanged", got)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if m != nil {
		t.Errorf("Load(\"\") = %v, want nil", m)
	}
	if got := m.Text("x"); got != "x" {
		t.Errorf("nil map Text = %q, want x", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.json")},
		{"non-string values", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestApply(t *testing.T) {
	tree, err := model.Parse([]byte(keyModel))
	if err != nil {
		t.Fatal(err)
	}
	m := Map{
		"Key":       "Schlüssel",
		"Start":     "Anfang",
		"winged":    "geflügelt",
		"waist":     "Taille",
		"r":         "not an id",
		"c1":        "not an id either",
		"Start.jpg": "other.jpg",
	}
	out := Apply(tree, m, nil)

	if out.Title != "Schlüssel" {
		t.Errorf("title = %q, want Schlüssel", out.Title)
	}
	if out.Root.ID != "r" {
		t.Errorf("id changed to %q", out.Root.ID)
	}
	if out.Root.Label != "Anfang" {
		t.Errorf("label = %q, want Anfang", out.Root.Label)
	}
	if out.Root.Content != "Look closely" {
		t.Errorf("untranslated content = %q, want original", out.Root.Content)
	}
	if out.Root.Branches[0].Label != "geflügelt" || out.Root.Branches[0].Target != "c1" {
		t.Errorf("branch = %+v", out.Root.Branches[0])
	}
	if out.Root.URL != "https://example.org/Start" {
		t.Errorf("url changed to %q", out.Root.URL)
	}
	c1, ok := out.Node("c1")
	if !ok {
		t.Fatal("c1 missing after translation")
	}
	if c1.Media[0] != "Start.jpg" {
		t.Errorf("media changed to %q", c1.Media[0])
	}
	if out.Definitions["petiole"][0].Text != "Taille" {
		t.Errorf("definition text = %q", out.Definitions["petiole"][0].Text)
	}

	// The source tree is untouched.
	if tree.Root.Label != "Start" || tree.Title != "Key" {
		t.Error("Apply modified its input")
	}
	if tree.Definitions["petiole"][0].Text != "waist" {
		t.Error("Apply modified input definitions")
	}
}

func TestApplyNilMap(t *testing.T) {
	tree, err := model.Parse([]byte(keyModel))
	if err != nil {
		t.Fatal(err)
	}
	if out := Apply(tree, nil, nil); out != tree {
		t.Error("Apply with nil map should pass the tree through")
	}
}

func TestMissesLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	tr := New(Map{"a": "b"}, logger)

	tr.Text("missing")
	tr.Text("missing")
	tr.Text("a")

	if n := strings.Count(buf.String(), "no translation"); n != 1 {
		t.Errorf("logged %d misses, want 1:\n%s", n, buf.String())
	}
}
