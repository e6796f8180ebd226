package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
)

// Document is one output file.
type Document struct {
	Path    string // slash-separated, relative to the output directory
	Content []byte
}

// TemplateSet holds the parsed page templates and the static assets.
type TemplateSet struct {
	tmpl   *template.Template
	CSS    string
	Script string
}

// DefaultTemplates returns the built-in template set.
func DefaultTemplates() (*TemplateSet, error) {
	tmpl, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	if _, err := tmpl.New("bodies").Parse(bodyTemplates); err != nil {
		return nil, fmt.Errorf("parsing body templates: %w", err)
	}
	return &TemplateSet{tmpl: tmpl, CSS: cssContent, Script: jsContent}, nil
}

// LoadTemplates returns the built-in set with the files found in dir
// replacing their built-in counterpart: layout.html, style.css and
// script.js. An empty dir yields the defaults.
func LoadTemplates(dir string) (*TemplateSet, error) {
	ts, err := DefaultTemplates()
	if err != nil || dir == "" {
		return ts, err
	}
	read := func(name string) (string, bool, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("reading template %s: %w", name, err)
		}
		return string(data), true, nil
	}

	if layout, ok, err := read("layout.html"); err != nil {
		return nil, err
	} else if ok {
		// Redefining "layout" replaces the root template, so keep the handle
		// Parse returns.
		if ts.tmpl, err = ts.tmpl.New("layout").Parse(layout); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Join(dir, "layout.html"), err)
		}
	}
	if css, ok, err := read("style.css"); err != nil {
		return nil, err
	} else if ok {
		ts.CSS = css
	}
	if js, ok, err := read("script.js"); err != nil {
		return nil, err
	} else if ok {
		ts.Script = js
	}
	return ts, nil
}

// EmbedOptions selects what is inlined into the documents.
type EmbedOptions struct {
	EmbedCSS    bool // inline the stylesheet, the script and the search index
	EmbedImages bool
	SinglePage  bool
}

// SiteInfo carries the model-wide values shown on every page.
type SiteInfo struct {
	Title       string
	Version     string
	Description string
	Fingerprint string
	Lang        string
	ContentText bool // node content is plain text
	SearchIndex string
}

// Renderer turns resolved pages into HTML documents. It is safe for
// concurrent use once built.
type Renderer struct {
	templates *TemplateSet
	embed     EmbedOptions
	labels    Labels
	site      SiteInfo
}

// NewRenderer creates a renderer with an explicit template set and embed
// options.
func NewRenderer(ts *TemplateSet, embed EmbedOptions, labels Labels, site SiteInfo) *Renderer {
	if site.Lang == "" {
		site.Lang = "en"
	}
	return &Renderer{templates: ts, embed: embed, labels: labels, site: site}
}

type pageView struct {
	Notice      template.HTML
	Lang        string
	Fingerprint string
	Title       string
	SiteTitle   string
	Version     string
	Description string
	Base        string
	Kind        PageKind
	Labels      Labels
	Page        *PageDescriptor
	Sections    []sectionView
	Sidebar     template.HTML
	Graph       template.HTML
	Stylesheet  template.CSS
	Script      template.JS
	SearchIndex template.JS
}

type sectionView struct {
	*Section
	Labels    Labels
	Home      Link
	PlainText bool
}

// generatedNotice heads every page.
const generatedNotice = "<!-- Generated by treepages. Edits are lost on the next build. -->"

// Render executes the layout for p. The output depends only on p, the
// template set and the options, so equal inputs give identical bytes.
func (r *Renderer) Render(p *PageDescriptor) (Document, error) {
	view := pageView{
		Notice:      template.HTML(generatedNotice),
		Lang:        r.site.Lang,
		Fingerprint: r.site.Fingerprint,
		Title:       r.pageTitle(p),
		SiteTitle:   r.siteTitle(),
		Version:     r.site.Version,
		Description: r.site.Description,
		Base:        p.Base,
		Kind:        p.Kind,
		Labels:      r.labels,
		Page:        p,
		Sidebar:     template.HTML(p.Sidebar),
		Graph:       template.HTML(p.Graph),
	}
	for _, s := range p.Sections {
		view.Sections = append(view.Sections, sectionView{
			Section:   s,
			Labels:    r.labels,
			Home:      p.Home,
			PlainText: r.site.ContentText,
		})
	}
	if r.embed.EmbedCSS {
		view.Stylesheet = template.CSS(r.templates.CSS)
		view.Script = template.JS(r.templates.Script)
		if p.Sidebar != "" {
			view.SearchIndex = template.JS(r.site.SearchIndex)
		}
	}

	var buf bytes.Buffer
	if err := r.templates.tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return Document{}, fmt.Errorf("rendering %s: %w", p.OutputPath, err)
	}
	return Document{Path: p.OutputPath, Content: buf.Bytes()}, nil
}

// StaticDocuments returns the stylesheet, script and search index files for
// builds that do not inline them.
func (r *Renderer) StaticDocuments(withSearch bool) []Document {
	if r.embed.EmbedCSS {
		return nil
	}
	docs := []Document{
		{Path: "assets/style.css", Content: []byte(r.templates.CSS)},
		{Path: "assets/script.js", Content: []byte(r.templates.Script)},
	}
	if withSearch {
		docs = append(docs, Document{Path: SearchIndexFile, Content: []byte(r.site.SearchIndex)})
	}
	return docs
}

func (r *Renderer) siteTitle() string {
	if r.site.Title != "" {
		return r.site.Title
	}
	return "treepages"
}

func (r *Renderer) pageTitle(p *PageDescriptor) string {
	site := r.siteTitle()
	switch p.Kind {
	case KindNode:
		return p.Sections[0].Node.Label + " - " + site
	case KindLeaves:
		return r.labels.Leaves + " - " + site
	case KindDictionary:
		return r.labels.Dictionary + " - " + site
	default:
		return site
	}
}
