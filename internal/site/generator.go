package site

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/treekey/treepages/internal/model"
	"github.com/treekey/treepages/internal/progress"
	"github.com/treekey/treepages/internal/translate"
)

// Options configures a site build.
type Options struct {
	ModelPath       string
	TranslationPath string
	PhotoDir        string
	OutputDir       string
	IndexName       string
	PageDir         string
	Layout          Layout
	SinglePage      bool
	EmbedCSS        bool
	EmbedImages     bool
	NoPhotos        bool
	MissingPhotos   MissingPolicy
	ContentFormat   ContentFormat
	NavGraph        bool
	Sidebar         bool
	MaxImagePixels  int
	TemplateDir     string
	Concurrency     int

	Logger   *log.Logger
	Progress progress.Reporter
}

// Result summarizes a finished build.
type Result struct {
	Nodes    int
	Pages    int
	Assets   int
	Files    int
	Duration time.Duration
}

// Generator converts a model file into a static HTML site.
type Generator struct {
	opts Options
}

// NewGenerator creates a Generator. A nil logger discards output and a nil
// progress reporter reports nothing.
func NewGenerator(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Generator{opts: opts}
}

// Generate runs the pipeline: load, translate, walk, resolve, render and
// write. Everything that can fail on the input is checked before the output
// directory is touched.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := g.opts.Logger

	tree, err := model.Load(g.opts.ModelPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded model", "path", g.opts.ModelPath, "nodes", tree.Len())
	return g.build(ctx, tree, start)
}

// GenerateTree builds the site for an already loaded tree.
func (g *Generator) GenerateTree(ctx context.Context, tree *model.Tree) (*Result, error) {
	return g.build(ctx, tree, time.Now())
}

func (g *Generator) build(ctx context.Context, tree *model.Tree, start time.Time) (*Result, error) {
	opts := g.opts
	logger := opts.Logger

	tmap, err := translate.Load(opts.TranslationPath)
	if err != nil {
		return nil, err
	}
	tr := translate.New(tmap, logger)
	tree = translate.Apply(tree, tmap, logger)
	labels := DefaultLabels().Translate(tr.Text)

	mode := ModeMulti
	if opts.SinglePage {
		mode = ModeSingle
	}
	pages, err := Plan(tree, WalkOptions{
		Mode:      mode,
		Layout:    opts.Layout,
		PageDir:   opts.PageDir,
		IndexName: opts.IndexName,
	})
	if err != nil {
		return nil, err
	}

	assets := NewAssetResolver(AssetOptions{
		PhotoDir:  opts.PhotoDir,
		NoPhotos:  opts.NoPhotos,
		Missing:   opts.MissingPhotos,
		Embed:     opts.EmbedImages,
		MaxPixels: opts.MaxImagePixels,
		Logger:    logger,
	})
	err = Resolve(ctx, tree, pages, ResolveOptions{
		Mode:     mode,
		Assets:   assets,
		Format:   opts.ContentFormat,
		Labels:   labels,
		Sidebar:  opts.Sidebar,
		NavGraph: opts.NavGraph,
	})
	if err != nil {
		return nil, err
	}

	ts, err := LoadTemplates(opts.TemplateDir)
	if err != nil {
		return nil, err
	}
	search, err := searchIndexScript(buildSearchIndex(tree, newLocator(pages, mode)))
	if err != nil {
		return nil, err
	}
	renderer := NewRenderer(ts,
		EmbedOptions{EmbedCSS: opts.EmbedCSS, EmbedImages: opts.EmbedImages, SinglePage: opts.SinglePage},
		labels,
		SiteInfo{
			Title:       tree.Title,
			Version:     tree.Version,
			Description: tree.Description,
			Fingerprint: tree.Fingerprint().String(),
			ContentText: opts.ContentFormat == "" || opts.ContentFormat == FormatText,
			SearchIndex: search,
		})

	writer := NewWriter(opts.OutputDir,
		[]string{opts.ModelPath, opts.TranslationPath, opts.PhotoDir, opts.TemplateDir}, logger)
	if err := writer.Prepare(); err != nil {
		return nil, err
	}

	opts.Progress.Start(len(pages))
	done := 0
	progressCh := make(chan string)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for p := range progressCh {
			done++
			opts.Progress.Update(done, p)
		}
	}()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for _, p := range pages {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			doc, err := renderer.Render(p)
			if err != nil {
				return pageError(p, err)
			}
			if err := writer.WriteDocument(doc); err != nil {
				return pageError(p, err)
			}
			progressCh <- p.OutputPath
			return nil
		})
	}
	err = eg.Wait()
	close(progressCh)
	<-progressDone
	opts.Progress.Finish()
	if err != nil {
		return nil, err
	}

	static := append(renderer.StaticDocuments(opts.Sidebar), assets.Documents()...)
	for _, d := range static {
		if err := writer.WriteDocument(d); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Nodes:    tree.Len(),
		Pages:    len(pages),
		Assets:   assets.Len(),
		Files:    len(pages) + len(static),
		Duration: time.Since(start),
	}
	logger.Info("site generated",
		"dir", opts.OutputDir,
		"mode", mode,
		"nodes", res.Nodes,
		"pages", res.Pages,
		"assets", res.Assets,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// pageError adds the node id, when there is one, to a render or write error.
func pageError(p *PageDescriptor, err error) error {
	if p.Kind == KindNode {
		return fmt.Errorf("node %s: %w", p.Sections[0].Node.ID, err)
	}
	return err
}
