package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/treekey/treepages/internal/model"
)

// NavTree is the sidebar view of the model.
type NavTree struct {
	ID       string
	Label    string
	Children []*NavTree
	parent   *NavTree
}

// BuildNavTree mirrors the node tree of t, keeping declared child order.
func BuildNavTree(t *model.Tree) *NavTree {
	var build func(n *model.Node, parent *NavTree) *NavTree
	build = func(n *model.Node, parent *NavTree) *NavTree {
		nav := &NavTree{ID: n.ID, Label: n.Label, parent: parent}
		for _, c := range n.Children {
			nav.Children = append(nav.Children, build(c, nav))
		}
		return nav
	}
	return build(t.Root, nil)
}

// ToHTML renders the tree as nested <ul><li> HTML for the sidebar. Entries
// on the path to activeID are expanded and the active entry is marked.
// homeHref links the "Home" entry at the top; href maps node ids to links.
func (t *NavTree) ToHTML(activeID, homeHref, homeLabel string, href func(id string) string) string {
	activeAncestors := t.ancestorsOf(activeID)

	var b strings.Builder
	homeActive := ""
	if activeID == "" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%s"%s>%s</a></li></ul>`+"\n",
		template.HTMLEscapeString(homeHref), homeActive, template.HTMLEscapeString(homeLabel))

	b.WriteString("<ul>\n")
	renderNav(&b, t, activeID, href, activeAncestors)
	b.WriteString("</ul>\n")
	return b.String()
}

// ancestorsOf returns the ids of the nodes above id, including id itself so
// the active entry shows its children.
func (t *NavTree) ancestorsOf(id string) map[string]bool {
	found := t.find(id)
	if found == nil {
		return nil
	}
	set := make(map[string]bool)
	for n := found; n != nil; n = n.parent {
		set[n.ID] = true
	}
	return set
}

func (t *NavTree) find(id string) *NavTree {
	if t.ID == id {
		return t
	}
	for _, c := range t.Children {
		if f := c.find(id); f != nil {
			return f
		}
	}
	return nil
}

func renderNav(b *strings.Builder, node *NavTree, activeID string, href func(id string) string, expanded map[string]bool) {
	activeClass := ""
	if node.ID == activeID {
		activeClass = ` class="active"`
	}
	link := fmt.Sprintf(`<a href="%s"%s>%s</a>`,
		template.HTMLEscapeString(href(node.ID)), activeClass, template.HTMLEscapeString(node.Label))
	id := template.HTMLEscapeString(node.ID)

	if len(node.Children) == 0 {
		fmt.Fprintf(b, `<li class="file" data-id="%s">%s</li>`+"\n", id, link)
		return
	}

	state := ""
	if expanded[node.ID] {
		state = " expanded"
	}
	fmt.Fprintf(b, `<li class="dir%s" data-id="%s"><span class="dir-toggle"></span>%s`+"\n", state, id, link)
	b.WriteString("<ul>\n")
	for _, c := range node.Children {
		renderNav(b, c, activeID, href, expanded)
	}
	b.WriteString("</ul>\n</li>\n")
}
