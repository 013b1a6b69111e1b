package session

import (
	"errors"
	"fmt"

	"github.com/meikuraledutech/flow"
)

type (
	// Controller applies selection events and routes edits for the
	// selected node into the configuration store. It is not safe for
	// concurrent use.
	Controller struct {
		graph   *flow.Graph
		configs *flow.ConfigStore
		state   State
	}

	// Surface is the configuration view of the selected node
	Surface struct {
		Node       flow.Node
		Descriptor flow.Descriptor
		Config     flow.Config
	}
)

// NoOutput is displayed on an Output node that has not received a result
const NoOutput = "No output yet."

var ErrNoSelection = errors.New("session: no node selected")

func NewController(g *flow.Graph, configs *flow.ConfigStore) *Controller {
	return &Controller{
		graph:   g,
		configs: configs,
		state:   Reduce(State{}, Deselect{}),
	}
}

// Select opens the configuration surface of id. Selecting the node that
// is already selected changes nothing.
func (c *Controller) Select(id flow.NodeID) (*Surface, error) {
	n, ok := c.graph.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", flow.ErrNodeNotFound, id)
	}
	c.state = Reduce(c.state, Select{ID: id, Type: n.Type})
	return c.Surface()
}

// Deselect clears the selection
func (c *Controller) Deselect() {
	c.state = Reduce(c.state, Deselect{})
}

// CloseDialog clears the selection
func (c *Controller) CloseDialog() {
	c.state = Reduce(c.state, CloseDialog{})
}

// NodeRemoved drops a deleted node from the selection state
func (c *Controller) NodeRemoved(id flow.NodeID) {
	c.state = Reduce(c.state, NodeRemoved{ID: id})
}

// Edit sets a field on the selected node
func (c *Controller) Edit(field, value string) error {
	if !c.state.IsSelected() {
		return ErrNoSelection
	}
	return c.configs.Set(c.state.Selected, field, value)
}

// Surface returns the configuration view of the selected node
func (c *Controller) Surface() (*Surface, error) {
	if !c.state.IsSelected() {
		return nil, ErrNoSelection
	}
	id := c.state.Selected
	n, ok := c.graph.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", flow.ErrNodeNotFound, id)
	}
	desc, err := c.graph.Registry().Describe(n.Type)
	if err != nil {
		return nil, err
	}
	cfg, err := c.configs.Get(id)
	if err != nil {
		return nil, err
	}
	return &Surface{Node: n, Descriptor: desc, Config: cfg}, nil
}

// State returns the current selection state
func (c *Controller) State() State {
	return c.state.clone()
}

// Active returns the node of type t whose configuration feeds a dispatch:
// the most recently selected one if it still exists, otherwise the first
// of that type in insertion order
func (c *Controller) Active(t flow.NodeType) (flow.NodeID, bool) {
	if id, ok := c.state.Active[t]; ok {
		if n, ok := c.graph.Node(id); ok && n.Type == t {
			return id, true
		}
	}
	nodes := c.graph.NodesOfType(t)
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[0].ID, true
}

// Display returns the text an Output surface shows
func (s *Surface) Display() string {
	if out := s.Config[flow.FieldOutput]; out != "" {
		return out
	}
	return NoOutput
}
