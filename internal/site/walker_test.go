package site

import (
	"errors"
	"testing"

	"github.com/treekey/treepages/internal/model"
)

const twoNodeModel = `{"root":{"id":"r","label":"Root","children":[{"id":"c1","label":"Child"}]}}`

const deepModel = `{
  "title": "Deep key",
  "definitions": {"petiole": [{"text": "waist"}]},
  "root": {
    "id": "r", "label": "Root",
    "branches": [{"label": "jump", "target": "g1"}],
    "children": [
      {"id": "c1", "label": "Child one", "content": "Has a petiole", "children": [
        {"id": "g1", "label": "Grandchild", "children": [
          {"id": "x", "label": "Deepest"}
        ]}
      ]},
      {"id": "c2", "label": "Child two"}
    ]
  }
}`

func mustParse(t *testing.T, src string) *model.Tree {
	t.Helper()
	tree, err := model.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parsing model: %v", err)
	}
	return tree
}

func outputPaths(pages []*PageDescriptor) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.OutputPath)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWalkMultiPage(t *testing.T) {
	tree := mustParse(t, twoNodeModel)
	pages, err := Walk(tree, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"page/r.html", "page/c1.html"}
	if got := outputPaths(pages); !equalStrings(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	for _, p := range pages {
		if p.Kind != KindNode || len(p.Sections) != 1 {
			t.Errorf("page %s: kind %s with %d sections", p.OutputPath, p.Kind, len(p.Sections))
		}
	}
}

func TestWalkOnePagePerNode(t *testing.T) {
	tree := mustParse(t, deepModel)
	pages, err := Walk(tree, WalkOptions{Mode: ModeMulti})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != tree.Len() {
		t.Fatalf("pages = %d, want %d", len(pages), tree.Len())
	}
	// Pre-order: parent before children, children in declared order.
	var ids []string
	for _, p := range pages {
		ids = append(ids, p.Sections[0].Node.ID)
	}
	want := []string{"r", "c1", "g1", "x", "c2"}
	if !equalStrings(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestWalkSinglePage(t *testing.T) {
	tree := mustParse(t, deepModel)
	pages, err := Walk(tree, WalkOptions{Mode: ModeSingle, IndexName: "key.html"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	p := pages[0]
	if p.OutputPath != "key.html" || p.Kind != KindSingle {
		t.Errorf("page = %s (%s), want key.html (single)", p.OutputPath, p.Kind)
	}
	if len(p.Sections) != tree.Len() {
		t.Errorf("sections = %d, want %d", len(p.Sections), tree.Len())
	}
	for _, s := range p.Sections {
		if s.Anchor != s.Node.ID {
			t.Errorf("anchor = %q, want %q", s.Anchor, s.Node.ID)
		}
	}
}

func TestWalkSinglePageReservedIDs(t *testing.T) {
	for _, id := range []string{topAnchor, leavesAnchor, dictionaryAnchor} {
		t.Run(id, func(t *testing.T) {
			tree := mustParse(t, `{"root":{"id":"r","label":"Root","children":[{"id":"`+id+`","label":"Clash"}]}}`)
			if _, err := Walk(tree, WalkOptions{Mode: ModeSingle}); err == nil {
				t.Errorf("id %q should be rejected in single-page mode", id)
			}
			if _, err := Walk(tree, WalkOptions{}); err != nil {
				t.Errorf("id %q is fine for separate pages: %v", id, err)
			}
		})
	}
}

func TestWalkNestedLayout(t *testing.T) {
	tree := mustParse(t, deepModel)
	pages, err := Walk(tree, WalkOptions{Layout: LayoutNested, PageDir: "nodes"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"nodes/r.html",
		"nodes/r/c1.html",
		"nodes/r/c1/g1.html",
		"nodes/r/c1/g1/x.html",
		"nodes/r/c2.html",
	}
	if got := outputPaths(pages); !equalStrings(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestWalkEmptyTree(t *testing.T) {
	if _, err := Walk(&model.Tree{}, WalkOptions{}); !errors.Is(err, model.ErrEmptyTree) {
		t.Errorf("Walk(empty) error = %v, want ErrEmptyTree", err)
	}
	if _, err := Walk(nil, WalkOptions{Mode: ModeSingle}); !errors.Is(err, model.ErrEmptyTree) {
		t.Errorf("Walk(nil) error = %v, want ErrEmptyTree", err)
	}
}

func TestWalkNameCollisions(t *testing.T) {
	tree := mustParse(t, `{"root":{"id":"A","label":"upper","children":[
		{"id":"a","label":"lower"},
		{"id":"a b","label":"spaced"},
		{"id":"a_b","label":"underscored"},
		{"id":"a-2","label":"looks numbered"}
	]}}`)
	pages, err := Walk(tree, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"page/a.html", "page/a-2.html", "page/a_b.html", "page/a_b-2.html", "page/a-2-2.html"}
	if got := outputPaths(pages); !equalStrings(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"Lasius", "lasius"},
		{"Lasius niger", "lasius_niger"},
		{"a/b\\c", "a_b_c"},
		{"..", "_."},
		{".hidden", "_hidden"},
		{"Ärger", "ärger"},
		{"x?y#z", "x_y_z"},
		{"   ", "node"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := SanitizeName(tt.id); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name  string
		model string
		opts  WalkOptions
		want  []string
	}{
		{
			name:  "multi without definitions",
			model: twoNodeModel,
			want:  []string{"index.html", "leaves.html", "page/r.html", "page/c1.html"},
		},
		{
			name:  "multi with definitions",
			model: deepModel,
			opts:  WalkOptions{IndexName: "start.html"},
			want: []string{"start.html", "leaves.html", "dictionary.html",
				"page/r.html", "page/c1.html", "page/g1.html", "page/x.html", "page/c2.html"},
		},
		{
			name:  "single",
			model: deepModel,
			opts:  WalkOptions{Mode: ModeSingle},
			want:  []string{"index.html"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Plan(mustParse(t, tt.model), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got := outputPaths(pages); !equalStrings(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanRejectsClashingIndex(t *testing.T) {
	tree := mustParse(t, twoNodeModel)
	_, err := Plan(tree, WalkOptions{IndexName: "page/r.html"})
	if err == nil {
		t.Error("expected an error when the index name clashes with a node page")
	}
}
