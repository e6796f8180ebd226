package site

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	_ "image/gif" // decoder for size checks
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"
)

// AssetDir is where copied media live below the output root.
const AssetDir = "assets/img"

// MissingPolicy decides what happens when a media file does not exist.
type MissingPolicy string

const (
	MissingError MissingPolicy = "error"
	MissingWarn  MissingPolicy = "warn"
)

// AssetNotFoundError reports a media reference that matches no file.
type AssetNotFoundError struct {
	Owner string // node id, or "definition <keyword>"
	Name  string // reference as written in the model
	Path  string // resolved location
	Err   error
}

func (e *AssetNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: media %q not found", e.Owner, e.Name)
	if e.Path != "" {
		msg += " (looked for " + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetNotFoundError) Unwrap() error { return e.Err }

// License is the photo license sidecar (<photo>.lic) written by the photo
// preparation step.
type License struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Attribution string `json:"attribution"`
}

// MediaFile is one resolved media file, shared by every node referencing it.
type MediaFile struct {
	Rel     string // slash path relative to the photo directory
	Source  string
	Dest    string // slash path relative to the output root
	License *License

	data    []byte
	mime    string
	dataURI template.URL
}

// Asset is a media file as referenced from one page.
type Asset struct {
	Name    string
	Href    template.URL
	Alt     string
	License *License
}

// AssetOptions configures an AssetResolver.
type AssetOptions struct {
	PhotoDir  string
	NoPhotos  bool
	Missing   MissingPolicy
	Embed     bool
	MaxPixels int // images above this are downscaled; 0 disables
	Logger    *log.Logger
}

// AssetResolver locates media files below the photo directory, loads them
// once and produces per-page references.
type AssetResolver struct {
	opts  AssetOptions
	files map[string]*MediaFile
}

// NewAssetResolver creates a resolver. PhotoDir defaults to the working
// directory.
func NewAssetResolver(opts AssetOptions) *AssetResolver {
	if opts.PhotoDir == "" {
		opts.PhotoDir = "."
	}
	if opts.Missing == "" {
		opts.Missing = MissingError
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &AssetResolver{opts: opts, files: make(map[string]*MediaFile)}
}

// Resolve maps the media references of owner to files. References may be
// doublestar patterns such as "lasius/**/*.jpg"; matches are sorted. With
// NoPhotos set nothing is resolved and no file is touched.
func (r *AssetResolver) Resolve(owner string, media []string) ([]*MediaFile, error) {
	if r.opts.NoPhotos {
		return nil, nil
	}
	var out []*MediaFile
	for _, name := range media {
		rels, err := r.expand(owner, name)
		if err != nil {
			if r.opts.Missing == MissingWarn {
				r.opts.Logger.Warn("skipping missing media", "node", owner, "media", name)
				continue
			}
			return nil, err
		}
		for _, rel := range rels {
			f, err := r.load(rel)
			if err != nil {
				if r.opts.Missing == MissingWarn {
					r.opts.Logger.Warn("skipping unreadable media", "node", owner, "media", name, "err", err)
					continue
				}
				return nil, &AssetNotFoundError{Owner: owner, Name: name, Path: filepath.Join(r.opts.PhotoDir, filepath.FromSlash(rel)), Err: err}
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *AssetResolver) expand(owner, name string) ([]string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if !filepath.IsLocal(filepath.FromSlash(clean)) {
		return nil, &AssetNotFoundError{Owner: owner, Name: name, Err: errors.New("path leaves the photo directory")}
	}
	if !strings.ContainsAny(clean, "*?[{") {
		full := filepath.Join(r.opts.PhotoDir, filepath.FromSlash(clean))
		info, err := os.Stat(full)
		if err != nil {
			return nil, &AssetNotFoundError{Owner: owner, Name: name, Path: full}
		}
		if info.IsDir() {
			return nil, &AssetNotFoundError{Owner: owner, Name: name, Path: full, Err: errors.New("is a directory")}
		}
		return []string{clean}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(r.opts.PhotoDir), clean, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &AssetNotFoundError{Owner: owner, Name: name, Err: err}
	}
	var rels []string
	for _, m := range matches {
		if strings.HasSuffix(m, ".lic") {
			continue
		}
		rels = append(rels, m)
	}
	if len(rels) == 0 {
		return nil, &AssetNotFoundError{Owner: owner, Name: name, Path: filepath.Join(r.opts.PhotoDir, clean)}
	}
	sort.Strings(rels)
	return rels, nil
}

func (r *AssetResolver) load(rel string) (*MediaFile, error) {
	if f, ok := r.files[rel]; ok {
		return f, nil
	}
	f := &MediaFile{
		Rel:    rel,
		Source: filepath.Join(r.opts.PhotoDir, filepath.FromSlash(rel)),
		Dest:   path.Join(AssetDir, rel),
	}
	data, err := os.ReadFile(f.Source)
	if err != nil {
		return nil, err
	}
	if r.opts.MaxPixels > 0 {
		resized, ok, err := fitImage(data, r.opts.MaxPixels)
		if err != nil {
			r.opts.Logger.Warn("could not resize image", "file", f.Source, "err", err)
		} else if ok {
			r.opts.Logger.Debug("resized image", "file", f.Source, "bytes", len(resized))
			data = resized
		}
	}
	f.data = data
	f.mime = mediaType(rel, data)
	f.License = readLicense(f.Source+".lic", r.opts.Logger)
	r.files[rel] = f
	return f, nil
}

// Asset returns the reference to f from the page at page.
func (r *AssetResolver) Asset(f *MediaFile, page, alt string) Asset {
	a := Asset{Name: f.Rel, Alt: alt, License: f.License}
	if r.opts.Embed {
		if f.dataURI == "" {
			f.dataURI = template.URL("data:" + f.mime + ";base64," + base64.StdEncoding.EncodeToString(f.data))
		}
		a.Href = f.dataURI
		return a
	}
	a.Href = template.URL(relLink(page, f.Dest))
	return a
}

// Documents returns the media files to copy, ordered by destination.
// Embedded builds copy nothing.
func (r *AssetResolver) Documents() []Document {
	if r.opts.Embed {
		return nil
	}
	docs := make([]Document, 0, len(r.files))
	for _, f := range r.files {
		docs = append(docs, Document{Path: f.Dest, Content: f.data})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

// Len returns the number of distinct files resolved so far.
func (r *AssetResolver) Len() int { return len(r.files) }

func readLicense(p string, logger *log.Logger) *License {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil
	}
	var lic License
	if err := json.Unmarshal(data, &lic); err != nil {
		logger.Warn("ignoring unreadable license file", "file", p, "err", err)
		return nil
	}
	return &lic
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

func mediaType(name string, data []byte) string {
	ext := strings.ToLower(path.Ext(name))
	if t, ok := imageTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// fitImage downscales JPEG and PNG images with more than maxPixels pixels,
// keeping the aspect ratio. It reports false when data is left as is.
func fitImage(data []byte, maxPixels int) ([]byte, bool, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Not a raster image we know; copy unchanged.
		return data, false, nil
	}
	pixels := cfg.Width * cfg.Height
	if pixels <= maxPixels || (format != "jpeg" && format != "png") {
		return data, false, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode: %w", err)
	}
	scale := math.Sqrt(float64(maxPixels) / float64(pixels))
	w := max(1, int(float64(cfg.Width)*scale))
	h := max(1, int(float64(cfg.Height)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}
