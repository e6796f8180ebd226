// Package translate applies a flat key→text mapping to a model.
package translate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/treekey/treepages/internal/model"
)

// Map is a translation table. A nil Map translates nothing.
type Map map[string]string

// Load reads a translation file: a JSON object mapping strings to strings.
// An empty path yields a nil Map.
func Load(path string) (Map, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading translation %s: %w", path, err)
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing translation %s: %w", path, err)
	}
	return m, nil
}

// Lookup returns the translation of s and whether one exists.
func (m Map) Lookup(s string) (string, bool) {
	if m == nil || s == "" {
		return s, false
	}
	v, ok := m[s]
	if !ok {
		return s, false
	}
	return v, true
}

// Text returns the translation of s, or s itself.
func (m Map) Text(s string) string {
	v, _ := m.Lookup(s)
	return v
}

// Translator rewrites user-visible text, logging misses at debug level.
type Translator struct {
	m      Map
	logger *log.Logger
	seen   map[string]bool
}

// New creates a translator for m. A nil logger discards output.
func New(m Map, logger *log.Logger) *Translator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Translator{m: m, logger: logger, seen: make(map[string]bool)}
}

// Text translates s. Each missing key is logged once.
func (tr *Translator) Text(s string) string {
	if tr.m == nil || s == "" {
		return s
	}
	v, ok := tr.m.Lookup(s)
	if !ok && !tr.seen[s] {
		tr.seen[s] = true
		tr.logger.Debug("no translation", "key", s)
	}
	return v
}

// Apply returns a translated copy of t. Ids, urls, media and structure are
// never changed, and the input tree is left untouched. A nil map returns t.
func Apply(t *model.Tree, m Map, logger *log.Logger) *model.Tree {
	if m == nil {
		return t
	}
	tr := New(m, logger)
	out := t.Clone()
	out.Title = tr.Text(out.Title)
	out.Description = tr.Text(out.Description)
	for k, defs := range out.Definitions {
		for i := range defs {
			defs[i].Text = tr.Text(defs[i].Text)
			defs[i].Description = tr.Text(defs[i].Description)
		}
		out.Definitions[k] = defs
	}
	_ = out.Walk(func(n *model.Node) error {
		n.Label = tr.Text(n.Label)
		n.Content = tr.Text(n.Content)
		for i := range n.Branches {
			n.Branches[i].Label = tr.Text(n.Branches[i].Label)
		}
		return nil
	})
	return out
}
