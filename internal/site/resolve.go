package site

import (
	"context"
	"fmt"

	"github.com/treekey/treepages/internal/model"
)

// Labels are the interface strings of the generated pages.
type Labels struct {
	Home       string
	Start      string
	BackTo     string
	Info       string
	Options    string
	Children   string
	Results    string
	Leaves     string
	Dictionary string
	Keywords   string
	Photos     string
	Search     string
	Version    string
	Graph      string
}

// DefaultLabels returns the English interface strings.
func DefaultLabels() Labels {
	return Labels{
		Home:       "Home",
		Start:      "Start",
		BackTo:     "Back to",
		Info:       "More information",
		Options:    "Options",
		Children:   "Next steps",
		Results:    "Possible results",
		Leaves:     "All results",
		Dictionary: "Dictionary",
		Keywords:   "Keywords",
		Photos:     "Photos",
		Search:     "Filter...",
		Version:    "Version",
		Graph:      "Overview",
	}
}

// Translate returns l with every string passed through fn.
func (l Labels) Translate(fn func(string) string) Labels {
	return Labels{
		Home:       fn(l.Home),
		Start:      fn(l.Start),
		BackTo:     fn(l.BackTo),
		Info:       fn(l.Info),
		Options:    fn(l.Options),
		Children:   fn(l.Children),
		Results:    fn(l.Results),
		Leaves:     fn(l.Leaves),
		Dictionary: fn(l.Dictionary),
		Keywords:   fn(l.Keywords),
		Photos:     fn(l.Photos),
		Search:     fn(l.Search),
		Version:    fn(l.Version),
		Graph:      fn(l.Graph),
	}
}

// DefinitionEntry lists the definitions of one keyword.
type DefinitionEntry struct {
	Keyword string
	Items   []DefinitionItem
}

// KeywordEntry is a definition shown in a node's keyword table.
type KeywordEntry = DefinitionEntry

// DefinitionItem is one resolved definition.
type DefinitionItem struct {
	Text        string
	Description string
	Image       *Asset
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	Mode     Mode
	Assets   *AssetResolver
	Format   ContentFormat
	Labels   Labels
	Sidebar  bool
	NavGraph bool
}

type resolvedDefinition struct {
	def   model.Definition
	image *MediaFile
}

// Resolve computes links, media references, rendered content, sidebar and
// navigation graph of every page returned by Plan. It touches no output, so
// every media error surfaces before anything is written.
func Resolve(ctx context.Context, t *model.Tree, pages []*PageDescriptor, opts ResolveOptions) error {
	if opts.Assets == nil {
		opts.Assets = NewAssetResolver(AssetOptions{NoPhotos: true})
	}
	loc := newLocator(pages, opts.Mode)
	content := newContentRenderer(opts.Format)

	defs := make(map[string][]resolvedDefinition, len(t.Definitions))
	for _, k := range t.Keywords() {
		for _, d := range t.Definitions[k] {
			rd := resolvedDefinition{def: d}
			if d.Image != "" {
				files, err := opts.Assets.Resolve("definition "+k, []string{d.Image})
				if err != nil {
					return err
				}
				if len(files) > 0 {
					rd.image = files[0]
				}
			}
			defs[k] = append(defs[k], rd)
		}
	}
	entries := func(from string, keywords []string) []DefinitionEntry {
		var out []DefinitionEntry
		for _, k := range keywords {
			e := DefinitionEntry{Keyword: k}
			for _, rd := range defs[k] {
				item := DefinitionItem{Text: rd.def.Text, Description: rd.def.Description}
				if rd.image != nil {
					a := opts.Assets.Asset(rd.image, from, k)
					item.Image = &a
				}
				e.Items = append(e.Items, item)
			}
			out = append(out, e)
		}
		return out
	}

	var nav *NavTree
	if opts.Sidebar {
		nav = BuildNavTree(t)
	}
	var graph *graphRenderer
	if opts.NavGraph {
		var err error
		if graph, err = newGraphRenderer(ctx, t); err != nil {
			return err
		}
		defer graph.Close()
	}

	for _, p := range pages {
		from := p.OutputPath
		href := func(id string) string { return loc.node(from, id) }

		p.Base = basePrefix(from)
		p.Home = Link{Href: loc.home(from), Label: opts.Labels.Home}
		p.Start = Link{ID: t.Root.ID, Href: href(t.Root.ID), Label: t.Root.Label}
		p.Leaves = Link{Href: loc.leavesPage(from), Label: opts.Labels.Leaves}
		if h, ok := loc.dictionaryPage(from); ok && len(t.Definitions) > 0 {
			p.Dictionary = &Link{Href: h, Label: opts.Labels.Dictionary}
		}

		for _, s := range p.Sections {
			n := s.Node
			files, err := opts.Assets.Resolve(n.ID, n.Media)
			if err != nil {
				return err
			}
			for _, f := range files {
				s.Assets = append(s.Assets, opts.Assets.Asset(f, from, n.Label))
			}
			s.Links = nodeLinks(t, loc, from, n)
			if s.Body, err = content.render(n.Content); err != nil {
				return fmt.Errorf("node %s: %w", n.ID, err)
			}
			s.Keywords = entries(from, t.KeywordsIn(n.Label+"\n"+n.Content))
		}

		if p.Kind == KindLeaves || p.Kind == KindSingle {
			p.LeafList = leafList(t, loc, from)
		}
		if p.Kind == KindDictionary || p.Kind == KindSingle {
			p.Definitions = entries(from, t.Keywords())
		}

		active := ""
		if p.Kind == KindNode {
			active = p.Sections[0].Node.ID
		}
		if nav != nil {
			p.Sidebar = nav.ToHTML(active, p.Home.Href, opts.Labels.Home, href)
		}
		if graph != nil && (p.Kind == KindNode || p.Kind == KindSingle) {
			svg, err := graph.SVG(ctx, active, href)
			if err != nil {
				return fmt.Errorf("graph for %s: %w", from, err)
			}
			p.Graph = svg
		}
	}
	return nil
}
