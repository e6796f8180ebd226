package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "TREEPAGES_"

// Load reads configuration from the given YAML or TOML file, then overlays
// environment variable overrides (TREEPAGES_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// TREEPAGES_OUTPUT_DIR -> output_dir, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}

// tomlParser adapts BurntSushi/toml to the koanf.Parser interface.
type tomlParser struct{}

// TOML returns a koanf parser for TOML documents.
func TOML() koanf.Parser { return tomlParser{} }

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to the given path, as TOML when the
// extension is .toml and as YAML otherwise.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	} else {
		data, err = yamlv3.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("basename", validateBaseName)
	_ = validate.RegisterValidation("localpath", validateLocalPath)
}

// validateBaseName accepts a plain file name without directory parts.
func validateBaseName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// validateLocalPath accepts a relative path that stays below its base.
func validateLocalPath(fl validator.FieldLevel) bool {
	return filepath.IsLocal(fl.Field().String())
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldError(verrs[0])
		}
		return err
	}

	if c.EmbedImages && c.NoPhotos {
		return fmt.Errorf("embed_images and no_photos are mutually exclusive")
	}
	if !c.NoPhotos && c.PhotoDir == "" {
		return fmt.Errorf("photo_dir is required unless no_photos is set")
	}
	if sameDir(c.OutputDir, c.PhotoDir) && !c.NoPhotos {
		return fmt.Errorf("output_dir must differ from photo_dir")
	}
	return nil
}

// fieldError turns a validator failure into a message naming the config key.
func fieldError(fe validator.FieldError) error {
	key := keyOf(fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "oneof":
		return fmt.Errorf("invalid %s %q: must be one of %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Errorf("%s must be non-negative", key)
	case "lte":
		return fmt.Errorf("%s must be at most %s", key, fe.Param())
	case "endswith":
		return fmt.Errorf("%s %q must end in %s", key, fe.Value(), fe.Param())
	case "basename":
		return fmt.Errorf("%s %q must be a plain file name", key, fe.Value())
	case "localpath":
		return fmt.Errorf("%s %q must be a relative path inside the output directory", key, fe.Value())
	}
	return fmt.Errorf("invalid %s: %s", key, fe.Error())
}

func keyOf(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(field[i-1] >= 'A' && field[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sameDir(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
