package config

// Layout selects where node pages are placed below the page directory.
type Layout string

const (
	LayoutFlat   Layout = "flat"
	LayoutNested Layout = "nested"
)

// MissingPhotos selects what a missing media file does to a build.
type MissingPhotos string

const (
	MissingError MissingPhotos = "error"
	MissingWarn  MissingPhotos = "warn"
)

// ContentFormat tells how node content is interpreted.
type ContentFormat string

const (
	ContentText     ContentFormat = "text"
	ContentHTML     ContentFormat = "html"
	ContentMarkdown ContentFormat = "markdown"
)

// Config is the top-level treepages configuration, corresponding to .treepages.yml.
type Config struct {
	Model          string        `yaml:"model" toml:"model" koanf:"model" validate:"required"`
	Translation    string        `yaml:"translation,omitempty" toml:"translation" koanf:"translation"`
	PhotoDir       string        `yaml:"photo_dir" toml:"photo_dir" koanf:"photo_dir"`
	OutputDir      string        `yaml:"output_dir" toml:"output_dir" koanf:"output_dir" validate:"required"`
	IndexName      string        `yaml:"index_name" toml:"index_name" koanf:"index_name" validate:"required,basename,endswith=.html"`
	PageDir        string        `yaml:"page_dir" toml:"page_dir" koanf:"page_dir" validate:"required,localpath"`
	Layout         Layout        `yaml:"layout" toml:"layout" koanf:"layout" validate:"oneof=flat nested"`
	SinglePage     bool          `yaml:"single_page" toml:"single_page" koanf:"single_page"`
	EmbedCSS       bool          `yaml:"embed_css" toml:"embed_css" koanf:"embed_css"`
	EmbedImages    bool          `yaml:"embed_images" toml:"embed_images" koanf:"embed_images"`
	NoPhotos       bool          `yaml:"no_photos" toml:"no_photos" koanf:"no_photos"`
	MissingPhotos  MissingPhotos `yaml:"missing_photos" toml:"missing_photos" koanf:"missing_photos" validate:"oneof=error warn"`
	ContentFormat  ContentFormat `yaml:"content_format" toml:"content_format" koanf:"content_format" validate:"oneof=text html markdown"`
	NavGraph       bool          `yaml:"nav_graph" toml:"nav_graph" koanf:"nav_graph"`
	Sidebar        bool          `yaml:"sidebar" toml:"sidebar" koanf:"sidebar"`
	MaxImagePixels int           `yaml:"max_image_pixels" toml:"max_image_pixels" koanf:"max_image_pixels" validate:"gte=0"`
	TemplateDir    string        `yaml:"template_dir,omitempty" toml:"template_dir" koanf:"template_dir"`
	Concurrency    int           `yaml:"concurrency" toml:"concurrency" koanf:"concurrency" validate:"gte=0,lte=256"`
}
