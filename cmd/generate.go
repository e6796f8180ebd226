package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/treekey/treepages/internal/config"
	"github.com/treekey/treepages/internal/progress"
	"github.com/treekey/treepages/internal/site"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the HTML pages for a model",
	Long: `Loads and validates the model, applies the optional translation, and
writes one page per node (or a single page) plus styles, scripts and photos
into the output directory. Nothing is written when the model is invalid.`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("model", "m", "", "model file (JSON)")
	f.StringP("translation", "t", "", "translation file (JSON key to text map)")
	f.String("photos", "", "directory that media identifiers are resolved against")
	f.StringP("outdir", "o", "", "output directory (cleared before writing)")
	f.Bool("nophotos", false, "build without any photos")
	f.String("missing-photos", "", "what a missing photo does: error or warn")
	f.Bool("single-page", false, "render every node into one page")
	f.Bool("embed-css", false, "inline styles and scripts into the pages")
	f.Bool("embed-images", false, "inline photos as data URIs")
	f.String("index-name", "", "file name of the landing page")
	f.String("layout", "", "page placement: flat or nested")
	f.String("format", "", "node content format: text, html or markdown")
	f.Bool("graph", false, "draw a navigation graph on every page")
	f.Bool("sidebar", true, "show the navigation sidebar")
	f.String("templates", "", "directory with layout.html, style.css or script.js overrides")
	f.Int("concurrency", 0, "max pages rendered in parallel (0 = number of CPUs)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var reporter progress.Reporter = progress.Nop{}
	if !verbose {
		reporter = progress.NewReporter()
	}
	gen := site.NewGenerator(siteOptions(cfg, reporter))
	res, err := gen.Generate(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("generation interrupted: %w", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Generated %d pages for %d nodes in %s", res.Pages, res.Nodes, res.Duration.Round(time.Millisecond))
	printFile(out, cfg.OutputDir)
	return nil
}

// applyGenerateFlags overlays the flags the user actually set onto cfg, so
// defaults never mask file or environment settings.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	strs := map[string]*string{
		"model":       &cfg.Model,
		"translation": &cfg.Translation,
		"photos":      &cfg.PhotoDir,
		"outdir":      &cfg.OutputDir,
		"index-name":  &cfg.IndexName,
		"templates":   &cfg.TemplateDir,
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"nophotos":     &cfg.NoPhotos,
		"single-page":  &cfg.SinglePage,
		"embed-css":    &cfg.EmbedCSS,
		"embed-images": &cfg.EmbedImages,
		"graph":        &cfg.NavGraph,
		"sidebar":      &cfg.Sidebar,
	}
	for name, dst := range bools {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if f.Changed("layout") {
		v, _ := f.GetString("layout")
		cfg.Layout = config.Layout(v)
	}
	if f.Changed("missing-photos") {
		v, _ := f.GetString("missing-photos")
		cfg.MissingPhotos = config.MissingPhotos(v)
	}
	if f.Changed("format") {
		v, _ := f.GetString("format")
		cfg.ContentFormat = config.ContentFormat(v)
	}
	if f.Changed("concurrency") {
		v, _ := f.GetInt("concurrency")
		cfg.Concurrency = v
	}
	return nil
}

// siteOptions maps a validated config onto the generator options.
func siteOptions(cfg *config.Config, reporter progress.Reporter) site.Options {
	return site.Options{
		ModelPath:       cfg.Model,
		TranslationPath: cfg.Translation,
		PhotoDir:        cfg.PhotoDir,
		OutputDir:       cfg.OutputDir,
		IndexName:       cfg.IndexName,
		PageDir:         cfg.PageDir,
		Layout:          site.Layout(cfg.Layout),
		SinglePage:      cfg.SinglePage,
		EmbedCSS:        cfg.EmbedCSS,
		EmbedImages:     cfg.EmbedImages,
		NoPhotos:        cfg.NoPhotos,
		MissingPhotos:   site.MissingPolicy(cfg.MissingPhotos),
		ContentFormat:   site.ContentFormat(cfg.ContentFormat),
		NavGraph:        cfg.NavGraph,
		Sidebar:         cfg.Sidebar,
		MaxImagePixels:  cfg.MaxImagePixels,
		TemplateDir:     cfg.TemplateDir,
		Concurrency:     cfg.Concurrency,
		Logger:          logger,
		Progress:        reporter,
	}
}
