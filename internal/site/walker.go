package site

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/treekey/treepages/internal/model"
)

// Mode selects between one document per node and one aggregate document.
type Mode int

const (
	ModeMulti Mode = iota
	ModeSingle
)

func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "multi"
}

// Layout controls where node pages live below the page directory.
type Layout string

const (
	// LayoutFlat puts every node page directly in the page directory.
	LayoutFlat Layout = "flat"
	// LayoutNested mirrors the ancestor chain in nested directories.
	LayoutNested Layout = "nested"
)

// PageKind identifies which body template a page uses.
type PageKind string

const (
	KindNode       PageKind = "node"
	KindIndex      PageKind = "index"
	KindLeaves     PageKind = "leaves"
	KindDictionary PageKind = "dictionary"
	KindSingle     PageKind = "single"
)

// Fixed names of auxiliary pages. In single-page mode they become anchors.
const (
	LeavesPage     = "leaves.html"
	DictionaryPage = "dictionary.html"

	leavesAnchor     = "__leaves"
	dictionaryAnchor = "__dictionary"
	topAnchor        = "__top"
)

var reservedAnchors = map[string]bool{
	leavesAnchor:     true,
	dictionaryAnchor: true,
	topAnchor:        true,
}

// WalkOptions configures Walk.
type WalkOptions struct {
	Mode      Mode
	Layout    Layout
	PageDir   string // default "page"
	IndexName string // default "index.html"
}

func (o WalkOptions) withDefaults() WalkOptions {
	if o.PageDir == "" {
		o.PageDir = "page"
	}
	if o.IndexName == "" {
		o.IndexName = "index.html"
	}
	if o.Layout == "" {
		o.Layout = LayoutFlat
	}
	return o
}

// PageDescriptor describes one output document. Walk fills the structural
// fields; Resolve adds links, assets and navigation.
type PageDescriptor struct {
	Kind       PageKind
	OutputPath string // slash-separated, relative to the output directory
	Sections   []*Section

	// Set by Resolve.
	Base        string // prefix leading back to the output root, e.g. "../"
	Home        Link
	Start       Link
	Leaves      Link
	Dictionary  *Link
	LeafList    []Link
	Definitions []DefinitionEntry
	Sidebar     string
	Graph       string
}

// Section is the rendering of one node inside a page.
type Section struct {
	Node     *model.Node
	Anchor   string
	Links    Links
	Assets   []Asset
	Keywords []KeywordEntry
	Body     any // string, or template.HTML for trusted markup
}

// Walk derives the node pages of t in pre-order: parent before children,
// children in declared order. In ModeSingle it returns exactly one page.
func Walk(t *model.Tree, opts WalkOptions) ([]*PageDescriptor, error) {
	opts = opts.withDefaults()
	if t == nil || t.Root == nil {
		return nil, model.ErrEmptyTree
	}

	if opts.Mode == ModeSingle {
		page := &PageDescriptor{Kind: KindSingle, OutputPath: opts.IndexName}
		err := t.Walk(func(n *model.Node) error {
			if reservedAnchors[n.ID] {
				return fmt.Errorf("node id %q is reserved in single-page mode", n.ID)
			}
			page.Sections = append(page.Sections, &Section{Node: n, Anchor: n.ID})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return []*PageDescriptor{page}, nil
	}

	names := pageNames(t)
	var pages []*PageDescriptor
	err := t.Walk(func(n *model.Node) error {
		out := path.Join(opts.PageDir, names[n.ID]+".html")
		if opts.Layout == LayoutNested {
			parts := []string{opts.PageDir}
			for _, a := range t.Ancestors(n) {
				parts = append(parts, names[a.ID])
			}
			parts = append(parts, names[n.ID]+".html")
			out = path.Join(parts...)
		}
		pages = append(pages, &PageDescriptor{
			Kind:       KindNode,
			OutputPath: out,
			Sections:   []*Section{{Node: n, Anchor: n.ID}},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// Plan returns every page of the site: the node pages from Walk plus, in
// multi-page mode, the landing page, the leaves page and the dictionary page
// when the model defines keywords.
func Plan(t *model.Tree, opts WalkOptions) ([]*PageDescriptor, error) {
	opts = opts.withDefaults()
	pages, err := Walk(t, opts)
	if err != nil {
		return nil, err
	}
	if opts.Mode == ModeSingle {
		return pages, nil
	}

	taken := make(map[string]bool, len(pages))
	for _, p := range pages {
		taken[p.OutputPath] = true
	}
	extra := []*PageDescriptor{
		{Kind: KindIndex, OutputPath: opts.IndexName},
		{Kind: KindLeaves, OutputPath: LeavesPage},
	}
	if len(t.Definitions) > 0 {
		extra = append(extra, &PageDescriptor{Kind: KindDictionary, OutputPath: DictionaryPage})
	}
	for _, p := range extra {
		if taken[p.OutputPath] {
			return nil, fmt.Errorf("output path %s is used twice", p.OutputPath)
		}
		taken[p.OutputPath] = true
	}
	return append(extra, pages...), nil
}

// pageNames assigns every node a file name stem. Stems derive from ids and
// collisions are numbered in pre-order, so naming is reproducible.
func pageNames(t *model.Tree) map[string]string {
	names := make(map[string]string, t.Len())
	used := make(map[string]bool, t.Len())
	_ = t.Walk(func(n *model.Node) error {
		base := SanitizeName(n.ID)
		name := base
		for i := 2; used[name]; i++ {
			name = fmt.Sprintf("%s-%d", base, i)
		}
		used[name] = true
		names[n.ID] = name
		return nil
	})
	return names
}

// SanitizeName turns a node id into a file name stem: lowercase, whitespace
// replaced by underscores and anything outside letters, digits, '-', '_'
// and '.' replaced as well.
func SanitizeName(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(id)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}
	if name == "" {
		name = "node"
	}
	return name
}
