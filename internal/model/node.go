// Package model defines the hierarchical key model and its JSON loader.
//
// A model is an ownership tree: every Node owns its Children, and the parent
// relation is kept as a plain id so the structure has no reference cycles.
// Trees are validated eagerly when built, so renderers never meet a dangling
// reference or a missing field.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Branch is a labeled decision edge pointing at another node of the tree.
type Branch struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// Node is one entry of the tree.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Content  string   `json:"content,omitempty"`
	URL      string   `json:"url,omitempty"`
	Media    []string `json:"media,omitempty"`
	Branches []Branch `json:"branches,omitempty"`
	Children []*Node  `json:"children,omitempty"`

	parentID string
	depth    int
}

// ParentID returns the id of the owning node, or "" for the root.
func (n *Node) ParentID() string { return n.parentID }

// Depth returns the distance from the root (the root has depth 0).
func (n *Node) Depth() int { return n.depth }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Definition explains a keyword used in node descriptions.
type Definition struct {
	Text        string `json:"text,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Tree is a validated model.
type Tree struct {
	Title       string                  `json:"title,omitempty"`
	Version     string                  `json:"version,omitempty"`
	Description string                  `json:"description,omitempty"`
	Definitions map[string][]Definition `json:"definitions,omitempty"`
	Root        *Node                   `json:"root"`

	index       map[string]*Node
	fingerprint uuid.UUID
}

// fingerprintSpace namespaces model fingerprints.
var fingerprintSpace = uuid.MustParse("6b3c1f2e-8d4a-4f0b-9a57-2c1e7d5b9f30")

// NewTree links root into a tree: it sets parent references and depths,
// rejects duplicate ids and dangling branch targets.
func NewTree(root *Node) (*Tree, error) {
	t := &Tree{Root: root}
	if err := t.link(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) link() error {
	if t.Root == nil {
		return ErrEmptyTree
	}
	t.index = make(map[string]*Node)
	locations := make(map[string]string)

	var visit func(n *Node, parent *Node, loc string) error
	visit = func(n *Node, parent *Node, loc string) error {
		if n == nil {
			return &FormatError{Location: loc, Msg: "node is null"}
		}
		if n.ID == "" {
			return &FormatError{Location: loc, Msg: `missing required field "id"`}
		}
		if n.Label == "" {
			return &FormatError{Location: loc, Msg: fmt.Sprintf(`node %q: missing required field "label"`, n.ID)}
		}
		for i, b := range n.Branches {
			if b.Target == "" {
				return &FormatError{Location: fmt.Sprintf("%s.branches[%d]", loc, i), Msg: fmt.Sprintf(`node %q: missing required field "target"`, n.ID)}
			}
		}
		if n.URL != "" && !isWebURL(n.URL) {
			return &FormatError{Location: loc, Msg: fmt.Sprintf("node %q: url %q must use http or https", n.ID, n.URL)}
		}
		if first, ok := locations[n.ID]; ok {
			return &DuplicateIDError{ID: n.ID, First: first, Second: loc}
		}
		locations[n.ID] = loc
		t.index[n.ID] = n
		if parent != nil {
			n.parentID = parent.ID
			n.depth = parent.depth + 1
		} else {
			n.parentID = ""
			n.depth = 0
		}
		for i, c := range n.Children {
			if err := visit(c, n, fmt.Sprintf("%s.children[%d]", loc, i)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(t.Root, nil, "root"); err != nil {
		return err
	}

	// Targets may point anywhere in the document, so they are checked once
	// every id is known.
	for _, n := range t.Nodes() {
		for i, b := range n.Branches {
			if _, ok := t.index[b.Target]; !ok {
				return &ReferenceError{NodeID: n.ID, Branch: i, Target: b.Target}
			}
		}
	}
	return nil
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Parent returns the owner of n, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil || n.parentID == "" {
		return nil
	}
	return t.index[n.parentID]
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.index) }

// Walk visits every node in pre-order: parent before children, children in
// declared order. It stops at the first error returned by fn.
func (t *Tree) Walk(fn func(n *Node) error) error {
	if t.Root == nil {
		return ErrEmptyTree
	}
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if err := fn(n); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t.Root)
}

// Nodes returns all nodes in pre-order.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, len(t.index))
	_ = t.Walk(func(n *Node) error {
		nodes = append(nodes, n)
		return nil
	})
	return nodes
}

// Ancestors returns the chain from the root down to the parent of n.
func (t *Tree) Ancestors(n *Node) []*Node {
	var chain []*Node
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Leaves returns the leaf descendants of n in pre-order. A leaf has none.
func (t *Tree) Leaves(n *Node) []*Node {
	var leaves []*Node
	var visit func(c *Node)
	visit = func(c *Node) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
			return
		}
		for _, gc := range c.Children {
			visit(gc)
		}
	}
	for _, c := range n.Children {
		visit(c)
	}
	return leaves
}

// Results returns the leaves reachable from n through children and branch
// targets, in pre-order and without duplicates. n itself is never included.
func (t *Tree) Results(n *Node) []*Node {
	seen := map[string]bool{n.ID: true}
	var results []*Node
	var visit func(c *Node)
	visit = func(c *Node) {
		if c == nil || seen[c.ID] {
			return
		}
		seen[c.ID] = true
		if c.IsLeaf() {
			results = append(results, c)
			return
		}
		for _, gc := range c.Children {
			visit(gc)
		}
		for _, b := range c.Branches {
			visit(t.index[b.Target])
		}
	}
	for _, c := range n.Children {
		visit(c)
	}
	for _, b := range n.Branches {
		visit(t.index[b.Target])
	}
	return results
}

// Keywords returns the dictionary keywords sorted alphabetically.
func (t *Tree) Keywords() []string {
	keys := make([]string, 0, len(t.Definitions))
	for k := range t.Definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeywordsIn returns the sorted keywords that occur in text, ignoring case.
func (t *Tree) KeywordsIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, k := range t.Keywords() {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			found = append(found, k)
		}
	}
	return found
}

// Fingerprint identifies the model content. Equal models share a fingerprint.
func (t *Tree) Fingerprint() uuid.UUID { return t.fingerprint }

// Clone returns a deep copy sharing no mutable state with t.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		Title:       t.Title,
		Version:     t.Version,
		Description: t.Description,
		fingerprint: t.fingerprint,
	}
	if t.Definitions != nil {
		c.Definitions = make(map[string][]Definition, len(t.Definitions))
		for k, defs := range t.Definitions {
			c.Definitions[k] = append([]Definition(nil), defs...)
		}
	}
	c.index = make(map[string]*Node, len(t.index))
	var copyNode func(n *Node) *Node
	copyNode = func(n *Node) *Node {
		cp := &Node{
			ID:       n.ID,
			Label:    n.Label,
			Content:  n.Content,
			URL:      n.URL,
			Media:    append([]string(nil), n.Media...),
			Branches: append([]Branch(nil), n.Branches...),
			parentID: n.parentID,
			depth:    n.depth,
		}
		for _, ch := range n.Children {
			cp.Children = append(cp.Children, copyNode(ch))
		}
		c.index[cp.ID] = cp
		return cp
	}
	if t.Root != nil {
		c.Root = copyNode(t.Root)
	}
	return c
}
