package model

// Stats summarizes a tree for the info command.
type Stats struct {
	Nodes       int    `json:"nodes"`
	Depth       int    `json:"depth"`
	Branches    int    `json:"branches"`
	Leaves      int    `json:"leaves"`
	Media       int    `json:"media"`
	Definitions int    `json:"definitions"`
	Fingerprint string `json:"fingerprint"`
}

// ComputeStats counts nodes, levels, branches and media of t.
// Depth is the number of levels, so a lone root has depth 1.
func ComputeStats(t *Tree) Stats {
	s := Stats{Fingerprint: t.fingerprint.String()}
	for _, defs := range t.Definitions {
		s.Definitions += len(defs)
	}
	_ = t.Walk(func(n *Node) error {
		s.Nodes++
		s.Branches += len(n.Branches)
		s.Media += len(n.Media)
		if n.IsLeaf() {
			s.Leaves++
		}
		if n.depth+1 > s.Depth {
			s.Depth = n.depth + 1
		}
		return nil
	})
	return s
}
