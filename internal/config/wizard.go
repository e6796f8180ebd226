package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/manifoldco/promptui"
)

// detectModel returns the first JSON file in the current directory that
// looks like a tree model, or the default name.
func detectModel() string {
	matches, _ := filepath.Glob("*.json")
	sort.Strings(matches)
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		if bytes.Contains(data, []byte(`"root"`)) {
			return m
		}
	}
	return DefaultConfig().Model
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to treepages! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Model file.
	modelPrompt := promptui.Prompt{
		Label:   "Model file (JSON)",
		Default: detectModel(),
		Validate: func(s string) error {
			if s == "" {
				return errors.New("a model file is required")
			}
			return nil
		},
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}
	cfg.Model = model
	if _, err := os.Stat(model); err != nil {
		fmt.Printf("Note: %s does not exist yet.\n", model)
	}

	// 2. Translation file.
	translationPrompt := promptui.Prompt{
		Label:   "Translation file (leave blank for none)",
		Default: "",
	}
	if cfg.Translation, err = translationPrompt.Run(); err != nil {
		return nil, fmt.Errorf("translation file: %w", err)
	}

	// 3. Photos.
	photoPrompt := promptui.Prompt{
		Label:   "Photo directory (leave blank to build without photos)",
		Default: cfg.PhotoDir,
	}
	photoDir, err := photoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("photo directory: %w", err)
	}
	cfg.PhotoDir = photoDir
	cfg.NoPhotos = photoDir == ""

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for generated pages",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 5. Page structure.
	modePrompt := promptui.Select{
		Label: "Select output structure",
		Items: []string{
			"flat   - one page per node in a single directory",
			"nested - one page per node, directories follow the tree",
			"single - every node in one page",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("structure selection: %w", err)
	}
	switch modeIdx {
	case 0:
		cfg.Layout = LayoutFlat
	case 1:
		cfg.Layout = LayoutNested
	case 2:
		cfg.SinglePage = true
	}

	// 6. Content format.
	formatPrompt := promptui.Select{
		Label: "How is node content written?",
		Items: []string{string(ContentText), string(ContentMarkdown), string(ContentHTML)},
	}
	_, format, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content format: %w", err)
	}
	cfg.ContentFormat = ContentFormat(format)

	// 7. Self-contained output.
	embedPrompt := promptui.Prompt{
		Label:     "Inline styles, scripts and images into the pages",
		IsConfirm: true,
	}
	if _, err := embedPrompt.Run(); err == nil {
		cfg.EmbedCSS = true
		cfg.EmbedImages = !cfg.NoPhotos
	} else if !errors.Is(err, promptui.ErrAbort) {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Printf("Run `treepages generate` to build %s.\n", cfg.OutputDir)
	return cfg, nil
}
