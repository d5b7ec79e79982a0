package vamana

import "fmt"

// Graph is a fixed-size directed proximity graph: N nodes, each owning
// a bounded, duplicate-free adjacency list of neighbor indices. N is
// set once at construction and never changes. Nodes hold only indices,
// never point or node references (see Ownership design note), so a
// Graph is self-contained and round-trips through the persistence
// codec without pointer surgery.
type Graph struct {
	nodes []*node
}

// NewGraph allocates a graph of n empty nodes, with nodes[i].index == i.
func NewGraph(n int) *Graph {
	nodes := make([]*node, n)
	for i := range nodes {
		nodes[i] = newNode(i)
	}
	return &Graph{nodes: nodes}
}

// Size returns N, the fixed node count.
func (g *Graph) Size() int { return len(g.nodes) }

// Neighbors returns the i-th node's adjacency list. The returned slice
// must not be mutated by the caller; use Connect/Disconnect/
// ReplaceNeighbors instead.
func (g *Graph) Neighbors(i int) ([]int, error) {
	if i < 0 || i >= len(g.nodes) {
		return nil, fmt.Errorf("vamana: node %d: %w", i, ErrOutOfRange)
	}
	return g.nodes[i].neighbors, nil
}

// Connect appends j to i's adjacency list if j is not already present
// and i != j. Returns whether an edge was added.
func (g *Graph) Connect(i, j int) (bool, error) {
	if i < 0 || i >= len(g.nodes) || j < 0 || j >= len(g.nodes) {
		return false, fmt.Errorf("vamana: connect(%d, %d): %w", i, j, ErrOutOfRange)
	}
	if i == j {
		return false, nil
	}
	n := g.nodes[i]
	if n.contains(j) {
		return false, nil
	}
	n.neighbors = append(n.neighbors, j)
	return true, nil
}

// Disconnect removes j from i's adjacency list if present.
func (g *Graph) Disconnect(i, j int) error {
	if i < 0 || i >= len(g.nodes) {
		return fmt.Errorf("vamana: disconnect(%d, %d): %w", i, j, ErrOutOfRange)
	}
	n := g.nodes[i]
	for idx, x := range n.neighbors {
		if x == j {
			n.neighbors = append(n.neighbors[:idx], n.neighbors[idx+1:]...)
			return nil
		}
	}
	return nil
}

// ClearNeighbors empties i's adjacency list.
func (g *Graph) ClearNeighbors(i int) error {
	if i < 0 || i >= len(g.nodes) {
		return fmt.Errorf("vamana: clear(%d): %w", i, ErrOutOfRange)
	}
	g.nodes[i].neighbors = nil
	return nil
}

// ReplaceNeighbors replaces i's adjacency list in bulk, as used by
// RobustPrune. The caller is responsible for deduplication; list is
// copied so the caller's slice may be reused.
func (g *Graph) ReplaceNeighbors(i int, list []int) error {
	if i < 0 || i >= len(g.nodes) {
		return fmt.Errorf("vamana: replace(%d): %w", i, ErrOutOfRange)
	}
	cp := make([]int, len(list))
	copy(cp, list)
	g.nodes[i].neighbors = cp
	return nil
}

// OutDegree returns the number of out-neighbors of node i.
func (g *Graph) OutDegree(i int) (int, error) {
	if i < 0 || i >= len(g.nodes) {
		return 0, fmt.Errorf("vamana: outdegree(%d): %w", i, ErrOutOfRange)
	}
	return len(g.nodes[i].neighbors), nil
}
