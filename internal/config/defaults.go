package config

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".treepages.yml"

// DefaultMaxImagePixels keeps photos at roughly 1600x1200.
const DefaultMaxImagePixels = 1920000

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:          "model.json",
		PhotoDir:       "photos",
		OutputDir:      "site",
		IndexName:      "index.html",
		PageDir:        "page",
		Layout:         LayoutFlat,
		MissingPhotos:  MissingError,
		ContentFormat:  ContentText,
		Sidebar:        true,
		MaxImagePixels: DefaultMaxImagePixels,
	}
}
