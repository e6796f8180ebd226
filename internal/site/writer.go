package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// OutputDirError reports an output directory that cannot be used.
type OutputDirError struct {
	Path   string
	Reason string
	Err    error
}

func (e *OutputDirError) Error() string {
	msg := fmt.Sprintf("output directory %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OutputDirError) Unwrap() error { return e.Err }

// Writer owns the output directory: Prepare clears it, then documents are
// written below it. WriteDocument may be called concurrently for distinct
// paths once Prepare has returned.
type Writer struct {
	Dir string
	// Inputs are files or directories the build reads from. The writer
	// refuses to clear a directory containing any of them.
	Inputs []string
	Logger *log.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, inputs []string, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{Dir: dir, Inputs: inputs, Logger: logger}
}

// Prepare validates the output directory, creates it when absent and
// removes its previous content.
func (w *Writer) Prepare() error {
	abs, err := filepath.Abs(w.Dir)
	if err != nil {
		return &OutputDirError{Path: w.Dir, Reason: "invalid path", Err: err}
	}
	if filepath.Dir(abs) == abs {
		return &OutputDirError{Path: w.Dir, Reason: "refusing to clear the filesystem root"}
	}
	for _, in := range w.Inputs {
		if in == "" {
			continue
		}
		inAbs, err := filepath.Abs(in)
		if err != nil {
			continue
		}
		if within(abs, inAbs) {
			return &OutputDirError{Path: w.Dir, Reason: fmt.Sprintf("contains input %s", in)}
		}
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return &OutputDirError{Path: w.Dir, Reason: "cannot create", Err: err}
		}
	case err != nil:
		return &OutputDirError{Path: w.Dir, Reason: "cannot access", Err: err}
	case !info.IsDir():
		return &OutputDirError{Path: w.Dir, Reason: "not a directory"}
	}

	probe, err := os.CreateTemp(abs, ".treepages-*")
	if err != nil {
		return &OutputDirError{Path: w.Dir, Reason: "not writable", Err: err}
	}
	probe.Close()
	os.Remove(probe.Name())

	entries, err := os.ReadDir(abs)
	if err != nil {
		return &OutputDirError{Path: w.Dir, Reason: "cannot list", Err: err}
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(abs, e.Name())); err != nil {
			return &OutputDirError{Path: w.Dir, Reason: "cannot clear", Err: err}
		}
	}
	w.Logger.Debug("prepared output directory", "dir", abs, "removed", len(entries))
	return nil
}

// WriteDocument writes doc below the output directory, creating parent
// directories as needed.
func (w *Writer) WriteDocument(doc Document) error {
	rel := filepath.FromSlash(doc.Path)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("writing %s: path leaves the output directory", doc.Path)
	}
	target := filepath.Join(w.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := os.WriteFile(target, doc.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	w.Logger.Debug("wrote", "file", doc.Path, "bytes", len(doc.Content))
	return nil
}

// Write prepares the output directory and writes every document.
func (w *Writer) Write(docs []Document) error {
	if err := w.Prepare(); err != nil {
		return err
	}
	for _, d := range docs {
		if err := w.WriteDocument(d); err != nil {
			return err
		}
	}
	return nil
}

// Write persists documents into outputDir, clearing it first.
func Write(docs []Document, outputDir string) error {
	return NewWriter(outputDir, nil, nil).Write(docs)
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
