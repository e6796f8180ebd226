package model

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleModel = `{
  "title": "Ant queens",
  "version": "1.0",
  "definitions": {"petiole": [{"text": "narrow waist segment"}]},
  "root": {
    "id": "r",
    "label": "Root",
    "content": "Check the petiole.",
    "branches": [{"label": "skip ahead", "target": "c2"}],
    "children": [
      {"id": "c1", "label": "Child", "children": [
        {"id": "g1", "label": "Grandchild", "media": ["a.jpg", "b.jpg"]}
      ]},
      {"id": "c2", "label": "Second", "url": "https://example.org/c2"}
    ]
  }
}`

func TestParse(t *testing.T) {
	tree, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tree.Title != "Ant queens" {
		t.Errorf("title = %q, want %q", tree.Title, "Ant queens")
	}
	if tree.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tree.Len())
	}

	g1, ok := tree.Node("g1")
	if !ok {
		t.Fatal("node g1 not indexed")
	}
	if g1.ParentID() != "c1" {
		t.Errorf("g1 parent = %q, want c1", g1.ParentID())
	}
	if g1.Depth() != 2 {
		t.Errorf("g1 depth = %d, want 2", g1.Depth())
	}
	if p := tree.Parent(tree.Root); p != nil {
		t.Errorf("root parent = %v, want nil", p)
	}

	var order []string
	for _, n := range tree.Nodes() {
		order = append(order, n.ID)
	}
	if got := strings.Join(order, ","); got != "r,c1,g1,c2" {
		t.Errorf("pre-order = %s, want r,c1,g1,c2", got)
	}

	anc := tree.Ancestors(g1)
	if len(anc) != 2 || anc[0].ID != "r" || anc[1].ID != "c1" {
		t.Errorf("Ancestors(g1) = %v, want [r c1]", anc)
	}

	leaves := tree.Leaves(tree.Root)
	if len(leaves) != 2 || leaves[0].ID != "g1" || leaves[1].ID != "c2" {
		t.Errorf("Leaves(root) = %v, want [g1 c2]", leaves)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"malformed json", `{"root": {`, isFormat},
		{"empty document", "  ", isFormat},
		{"wrong type", `{"root": {"id": 5, "label": "x"}}`, isFormat},
		{"missing id", `{"root": {"label": "Root"}}`, isFormat},
		{"missing label", `{"root": {"id": "r"}}`, isFormat},
		{"missing child label", `{"root": {"id": "r", "label": "R", "children": [{"id": "c"}]}}`, isFormat},
		{"null child", `{"root": {"id": "r", "label": "R", "children": [null]}}`, isFormat},
		{"branch without target", `{"root": {"id": "r", "label": "R", "branches": [{"label": "x"}]}}`, isFormat},
		{"bad url", `{"root": {"id": "r", "label": "R", "url": "javascript:alert(1)"}}`, isFormat},
		{"no root", `{"title": "nothing"}`, func(err error) bool { return errors.Is(err, ErrEmptyTree) }},
		{"duplicate id", `{"root": {"id": "r", "label": "R", "children": [{"id": "a", "label": "A"}, {"id": "a", "label": "B"}]}}`, func(err error) bool {
			var de *DuplicateIDError
			return errors.As(err, &de) && de.ID == "a"
		}},
		{"duplicate of root", `{"root": {"id": "r", "label": "R", "children": [{"id": "r", "label": "again"}]}}`, func(err error) bool {
			var de *DuplicateIDError
			return errors.As(err, &de)
		}},
		{"dangling branch", `{"root": {"id": "r", "label": "R", "branches": [{"label": "go", "target": "missing"}]}}`, func(err error) bool {
			var re *ReferenceError
			return errors.As(err, &re) && re.Target == "missing" && re.NodeID == "r"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error type %T: %v", err, err)
			}
		})
	}
}

func isFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func TestBranchTargetDefinedLater(t *testing.T) {
	input := `{"root": {"id": "r", "label": "R",
		"branches": [{"label": "deep", "target": "z"}],
		"children": [{"id": "a", "label": "A", "children": [{"id": "z", "label": "Z"}]}]}}`
	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("forward reference should resolve: %v", err)
	}
}

func TestLoadSetsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(`{"root": {"id": "r"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Load error = %v, want *FormatError", err)
	}
	if fe.Path != path {
		t.Errorf("FormatError.Path = %q, want %q", fe.Path, path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should mention the model path", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestFingerprintStable(t *testing.T) {
	a, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatal(err)
	}
	// Same model, different whitespace.
	compact := strings.Join(strings.Fields(sampleModel), " ")
	b, err := Read(strings.NewReader(compact))
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}

	c, err := Parse([]byte(strings.Replace(sampleModel, "Grandchild", "Other", 1)))
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different models should have different fingerprints")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatal(err)
	}
	cp := tree.Clone()
	cp.Root.Label = "changed"
	cp.Root.Children[0].Children[0].Media[0] = "z.jpg"
	cp.Definitions["petiole"][0].Text = "changed"

	if tree.Root.Label != "Root" {
		t.Errorf("original root label changed to %q", tree.Root.Label)
	}
	g1, _ := tree.Node("g1")
	if g1.Media[0] != "a.jpg" {
		t.Errorf("original media changed to %q", g1.Media[0])
	}
	if tree.Definitions["petiole"][0].Text != "narrow waist segment" {
		t.Error("original definitions changed")
	}
	cg1, ok := cp.Node("g1")
	if !ok || cg1.ParentID() != "c1" || cg1.Depth() != 2 {
		t.Error("clone should keep index and parent links")
	}
}

func TestWriteJSON(t *testing.T) {
	tree, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tree.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("dumped model does not parse: %v", err)
	}
	if again.Fingerprint() != tree.Fingerprint() {
		t.Error("dumped model should keep the fingerprint")
	}
}

func TestComputeStats(t *testing.T) {
	tree, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatal(err)
	}
	s := ComputeStats(tree)
	want := Stats{Nodes: 4, Depth: 3, Branches: 1, Leaves: 2, Media: 2, Definitions: 1, Fingerprint: tree.Fingerprint().String()}
	if s != want {
		t.Errorf("ComputeStats = %+v, want %+v", s, want)
	}
}

func TestKeywordsIn(t *testing.T) {
	tree, err := Parse([]byte(sampleModel))
	if err != nil {
		t.Fatal(err)
	}
	got := tree.KeywordsIn("The PETIOLE is short")
	if len(got) != 1 || got[0] != "petiole" {
		t.Errorf("KeywordsIn = %v, want [petiole]", got)
	}
	if got := tree.KeywordsIn("nothing here"); len(got) != 0 {
		t.Errorf("KeywordsIn = %v, want none", got)
	}
}

func TestNewTree(t *testing.T) {
	root := &Node{ID: "r", Label: "R", Children: []*Node{{ID: "c", Label: "C"}}}
	tree, err := NewTree(root)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := tree.Node("c")
	if tree.Parent(c) != root {
		t.Error("NewTree should link parents")
	}
	if _, err := NewTree(nil); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("NewTree(nil) error = %v, want ErrEmptyTree", err)
	}
}

func TestLoadSampleKey(t *testing.T) {
	tree, err := Load(filepath.Join("..", "..", "testdata", "ants", "model.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Stats{Nodes: 7, Depth: 3, Branches: 1, Leaves: 4, Media: 1, Definitions: 2}
	got := ComputeStats(tree)
	got.Fingerprint = ""
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
	if kw := tree.KeywordsIn("Petiole and postpetiole"); len(kw) != 2 {
		t.Errorf("keywords = %v, want both definitions", kw)
	}
}

func TestResultsFollowBranches(t *testing.T) {
	tree, err := Parse([]byte(`{"root":{"id":"r","label":"R","children":[
		{"id":"a","label":"A","branches":[{"label":"or","target":"b"},{"label":"back","target":"r"}],
		 "children":[{"id":"a1","label":"A1"}]},
		{"id":"b","label":"B","children":[{"id":"b1","label":"B1"},{"id":"b2","label":"B2"}]}
	]}}`))
	if err != nil {
		t.Fatal(err)
	}
	ids := func(nodes []*Node) string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return strings.Join(out, ",")
	}

	a, _ := tree.Node("a")
	if got := ids(tree.Results(a)); got != "a1,b1,b2" {
		t.Errorf("Results(a) = %s, want a1,b1,b2", got)
	}
	if got := ids(tree.Results(tree.Root)); got != "a1,b1,b2" {
		t.Errorf("Results(r) = %s, want each leaf once", got)
	}
	if got := ids(tree.Leaves(a)); got != "a1" {
		t.Errorf("Leaves(a) = %s, want children only", got)
	}
}
