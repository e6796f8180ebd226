package site

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/treekey/treepages/internal/model"
)

// graphRenderer draws the whole tree as an SVG navigation graph. Parent
// edges are solid, branch edges dashed and the active node is highlighted.
type graphRenderer struct {
	gv   *graphviz.Graphviz
	tree *model.Tree
}

func newGraphRenderer(ctx context.Context, t *model.Tree) (*graphRenderer, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	return &graphRenderer{gv: gv, tree: t}, nil
}

func (g *graphRenderer) Close() error {
	return g.gv.Close()
}

// dot builds the DOT source. href maps a node id to its link from the page
// the graph is embedded in.
func (g *graphRenderer) dot(active string, href func(id string) string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph key {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n\n")

	nodes := g.tree.Nodes()
	for _, n := range nodes {
		attrs := []string{
			"label=" + dotQuote(n.Label),
			"URL=" + dotQuote(href(n.ID)),
			"tooltip=" + dotQuote(n.Label),
		}
		if n.ID == active {
			attrs = append(attrs, "fillcolor=yellow", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}
	buf.WriteString("\n")
	for _, n := range nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(n.ID), dotQuote(c.ID))
		}
		for _, b := range n.Branches {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, label=%s];\n", dotQuote(n.ID), dotQuote(b.Target), dotQuote(b.Label))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders the graph for one page.
func (g *graphRenderer) SVG(ctx context.Context, active string, href func(id string) string) (string, error) {
	graph, err := graphviz.ParseBytes([]byte(g.dot(active, href)))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return "", fmt.Errorf("render graph: %w", err)
	}
	return inlineSVG(buf.String()), nil
}

var (
	svgSizeRe = regexp.MustCompile(`\s(width|height)="[^"]*"`)
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
)

// inlineSVG drops the XML prolog and the fixed size so the graph scales with
// its container.
func inlineSVG(svg string) string {
	if i := strings.Index(svg, "<svg"); i > 0 {
		svg = svg[i:]
	}
	return svgTagRe.ReplaceAllStringFunc(svg, func(tag string) string {
		return svgSizeRe.ReplaceAllString(tag, "")
	})
}

func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")
	return `"` + r.Replace(s) + `"`
}
