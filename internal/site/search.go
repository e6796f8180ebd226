package site

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/treekey/treepages/internal/model"
)

// SearchIndexFile is the client-side index loaded by the sidebar filter.
const SearchIndexFile = "assets/search-index.js"

// SearchEntry represents a single searchable node.
type SearchEntry struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Href    string `json:"href"` // relative to the output root, or an anchor
	Content string `json:"content,omitempty"`
}

// buildSearchIndex lists every node in pre-order with its location.
func buildSearchIndex(t *model.Tree, loc *locator) []SearchEntry {
	var entries []SearchEntry
	_ = t.Walk(func(n *model.Node) error {
		content := strings.Join(strings.Fields(n.Content), " ")
		if r := []rune(content); len(r) > 500 {
			content = string(r[:500])
		}
		entries = append(entries, SearchEntry{
			ID:      n.ID,
			Label:   n.Label,
			Href:    loc.node("", n.ID),
			Content: content,
		})
		return nil
	})
	return entries
}

// searchIndexScript encodes entries as a script assigning window.TREE_INDEX.
// A script rather than JSON keeps pages working from file:// URLs. The JSON
// encoder escapes '<', '>' and '&', so the result is safe inside <script>.
func searchIndexScript(entries []SearchEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding search index: %w", err)
	}
	return "window.TREE_INDEX = " + string(data) + ";\n", nil
}
