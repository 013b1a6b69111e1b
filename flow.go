package flow

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// NodeID identifies a node within a Graph.
	NodeID string

	// EdgeID identifies an edge within a Graph.
	EdgeID string

	// Position is the canvas location of a node. It has no effect on
	// execution.
	Position struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	// NodeData holds the presentation attributes of a node.
	NodeData struct {
		Label string `json:"label"`
	}

	// Node represents a typed vertex in the workflow graph.
	Node struct {
		ID       NodeID   `json:"id"`
		Type     NodeType `json:"type"`
		Position Position `json:"position"`
		Data     NodeData `json:"data"`
	}

	// Edge represents a directed connection from a source connector to a
	// target connector.
	Edge struct {
		ID     EdgeID `json:"id"`
		Source NodeID `json:"source"`
		Target NodeID `json:"target"`
	}

	// Graph holds nodes and edges in insertion order. Mutations through its
	// methods keep the connection invariants; a Graph is not safe for
	// concurrent use.
	Graph struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`

		reg *Registry
	}
)

// NewGraph returns an empty graph whose connection rules come from reg.
// A nil registry means DefaultRegistry().
func NewGraph(reg *Registry) *Graph {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Graph{
		Nodes: []Node{},
		Edges: []Edge{},
		reg:   reg,
	}
}

// Registry returns the node type registry the graph validates against.
func (g *Graph) Registry() *Registry {
	return g.reg
}

// AddNode appends a node of the given type with a generated id. The label
// defaults to the type's descriptor label.
func (g *Graph) AddNode(t NodeType, pos Position) (NodeID, error) {
	desc, err := g.reg.Describe(t)
	if err != nil {
		return "", err
	}
	id := NodeID(uuid.NewString())
	g.Nodes = append(g.Nodes, Node{
		ID:       id,
		Type:     t,
		Position: pos,
		Data:     NodeData{Label: desc.Label},
	})
	return id, nil
}

// InsertNode appends a node with a caller-chosen id. An empty label is
// replaced by the descriptor label.
func (g *Graph) InsertNode(n Node) error {
	desc, err := g.reg.Describe(n.Type)
	if err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = NodeID(uuid.NewString())
	}
	if _, ok := g.Node(n.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	if n.Data.Label == "" {
		n.Data.Label = desc.Label
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// AddEdge connects source to target. It fails with ErrInvalidEndpoint when
// either node is unknown and with ErrIllegalConnection when the source type
// has no outgoing connector or the target type has no incoming connector.
// Parallel edges between the same pair are allowed.
func (g *Graph) AddEdge(source, target NodeID) (EdgeID, error) {
	if err := g.checkConnection(source, target); err != nil {
		return "", err
	}
	id := EdgeID(uuid.NewString())
	g.Edges = append(g.Edges, Edge{ID: id, Source: source, Target: target})
	return id, nil
}

// RemoveNode deletes a node together with every edge that references it.
func (g *Graph) RemoveNode(id NodeID) error {
	idx := g.nodeIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	nodes := make([]Node, 0, len(g.Nodes)-1)
	nodes = append(nodes, g.Nodes[:idx]...)
	nodes = append(nodes, g.Nodes[idx+1:]...)

	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			continue
		}
		edges = append(edges, e)
	}

	g.Nodes = nodes
	g.Edges = edges
	return nil
}

// RemoveEdge deletes a single edge.
func (g *Graph) RemoveEdge(id EdgeID) error {
	for i, e := range g.Edges {
		if e.ID != id {
			continue
		}
		edges := make([]Edge, 0, len(g.Edges)-1)
		edges = append(edges, g.Edges[:i]...)
		g.Edges = append(edges, g.Edges[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
}

// MoveNode updates a node's canvas position.
func (g *Graph) MoveNode(id NodeID, pos Position) error {
	idx := g.nodeIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	g.Nodes[idx].Position = pos
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if idx := g.nodeIndex(id); idx >= 0 {
		return g.Nodes[idx], true
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// NodesOfType returns the nodes of type t in insertion order.
func (g *Graph) NodesOfType(t NodeType) []Node {
	var res []Node
	for _, n := range g.Nodes {
		if n.Type == t {
			res = append(res, n)
		}
	}
	return res
}

// Clone returns a deep copy sharing only the registry.
func (g *Graph) Clone() *Graph {
	res := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
		reg:   g.reg,
	}
	copy(res.Nodes, g.Nodes)
	copy(res.Edges, g.Edges)
	return res
}

// Validate checks a graph assembled outside the mutation methods, such as
// one decoded from an export artifact.
func (g *Graph) Validate() error {
	seen := make(map[NodeID]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: empty node id", ErrInvalidEndpoint)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		if _, err := g.reg.Describe(n.Type); err != nil {
			return err
		}
		seen[n.ID] = true
	}

	edgeIDs := make(map[EdgeID]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: duplicate edge %s", ErrInvalidEndpoint, e.ID)
		}
		edgeIDs[e.ID] = true
		if err := g.checkConnection(e.Source, e.Target); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) checkConnection(source, target NodeID) error {
	src, ok := g.Node(source)
	if !ok {
		return fmt.Errorf("%w: source %s", ErrInvalidEndpoint, source)
	}
	dst, ok := g.Node(target)
	if !ok {
		return fmt.Errorf("%w: target %s", ErrInvalidEndpoint, target)
	}

	srcDesc, err := g.reg.Describe(src.Type)
	if err != nil {
		return err
	}
	dstDesc, err := g.reg.Describe(dst.Type)
	if err != nil {
		return err
	}

	if !srcDesc.AllowsOutgoing {
		return fmt.Errorf("%w: %s nodes have no outgoing connector",
			ErrIllegalConnection, src.Type)
	}
	if !dstDesc.AllowsIncoming {
		return fmt.Errorf("%w: %s nodes have no incoming connector",
			ErrIllegalConnection, dst.Type)
	}
	return nil
}

func (g *Graph) nodeIndex(id NodeID) int {
	for i, n := range g.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
