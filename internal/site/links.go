package site

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treekey/treepages/internal/model"
)

// Link points from one page to a node or auxiliary page.
type Link struct {
	ID     string
	Href   string
	Label  string
	Target string // label of the target node, set for branch links
}

// Links holds the navigation of one node section.
type Links struct {
	Self      string
	Parent    *Link
	Ancestors []Link // root first
	Children  []Link
	Branches  []Link
	Leaves    []Link
}

// locator maps node ids and auxiliary pages to their location.
type locator struct {
	mode       Mode
	nodes      map[string]string // node id to output path
	index      string
	leaves     string
	dictionary string
}

func newLocator(pages []*PageDescriptor, mode Mode) *locator {
	l := &locator{mode: mode, nodes: make(map[string]string)}
	for _, p := range pages {
		switch p.Kind {
		case KindNode, KindSingle:
			for _, s := range p.Sections {
				l.nodes[s.Node.ID] = p.OutputPath
			}
			if p.Kind == KindSingle {
				l.index = p.OutputPath
			}
		case KindIndex:
			l.index = p.OutputPath
		case KindLeaves:
			l.leaves = p.OutputPath
		case KindDictionary:
			l.dictionary = p.OutputPath
		}
	}
	return l
}

// node returns the href of node id as seen from the page at from.
func (l *locator) node(from, id string) string {
	if l.mode == ModeSingle {
		return "#" + id
	}
	return relLink(from, l.nodes[id])
}

func (l *locator) home(from string) string {
	if l.mode == ModeSingle {
		return "#" + topAnchor
	}
	return relLink(from, l.index)
}

func (l *locator) leavesPage(from string) string {
	if l.mode == ModeSingle {
		return "#" + leavesAnchor
	}
	return relLink(from, l.leaves)
}

func (l *locator) dictionaryPage(from string) (string, bool) {
	if l.mode == ModeSingle {
		return "#" + dictionaryAnchor, true
	}
	if l.dictionary == "" {
		return "", false
	}
	return relLink(from, l.dictionary), true
}

// relLink returns the relative URL leading from the document at from to the
// file at to. Both are slash-separated paths below the output root.
func relLink(from, to string) string {
	dir := path.Dir(from)
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

// basePrefix returns the "../" chain leading from the page at p to the root.
func basePrefix(p string) string {
	return strings.Repeat("../", strings.Count(path.Clean(p), "/"))
}

// nodeLinks computes the navigation of node n on the page at from.
func nodeLinks(t *model.Tree, loc *locator, from string, n *model.Node) Links {
	link := func(m *model.Node) Link {
		return Link{ID: m.ID, Href: loc.node(from, m.ID), Label: m.Label}
	}
	ls := Links{Self: loc.node(from, n.ID)}
	if p := t.Parent(n); p != nil {
		pl := link(p)
		ls.Parent = &pl
	}
	for _, a := range t.Ancestors(n) {
		ls.Ancestors = append(ls.Ancestors, link(a))
	}
	for _, c := range n.Children {
		ls.Children = append(ls.Children, link(c))
	}
	for _, b := range n.Branches {
		target, _ := t.Node(b.Target)
		ls.Branches = append(ls.Branches, Link{
			ID:     b.Target,
			Href:   loc.node(from, b.Target),
			Label:  b.Label,
			Target: target.Label,
		})
	}
	for _, leaf := range t.Results(n) {
		ls.Leaves = append(ls.Leaves, link(leaf))
	}
	return ls
}

// leafList returns every leaf of t sorted by label, then id.
func leafList(t *model.Tree, loc *locator, from string) []Link {
	leaves := t.Leaves(t.Root)
	if t.Root.IsLeaf() {
		leaves = []*model.Node{t.Root}
	}
	links := make([]Link, 0, len(leaves))
	for _, n := range leaves {
		links = append(links, Link{ID: n.ID, Href: loc.node(from, n.ID), Label: n.Label})
	}
	sort.SliceStable(links, func(i, j int) bool {
		a, b := strings.ToLower(links[i].Label), strings.ToLower(links[j].Label)
		if a != b {
			return a < b
		}
		return links[i].ID < links[j].ID
	})
	return links
}
