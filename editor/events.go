package editor

import (
	"errors"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/session"
)

type (
	// Connection is a candidate edge drawn between two connectors
	Connection struct {
		Source flow.NodeID `json:"source"`
		Target flow.NodeID `json:"target"`
	}

	// ChangeType names a node or edge change reported by the canvas
	ChangeType string

	// NodeChange is one node mutation reported by the canvas. Node is used
	// by ChangeAdd, Position by ChangePosition.
	NodeChange struct {
		Type     ChangeType     `json:"type"`
		ID       flow.NodeID    `json:"id,omitempty"`
		Position *flow.Position `json:"position,omitempty"`
		Node     *flow.Node     `json:"item,omitempty"`
	}

	// EdgeChange is one edge mutation reported by the canvas
	EdgeChange struct {
		Type ChangeType  `json:"type"`
		ID   flow.EdgeID `json:"id"`
	}
)

// ErrInvalidChange is returned for an add change that carries no node
var ErrInvalidChange = errors.New("editor: add change without node")

const (
	ChangeAdd      ChangeType = "add"
	ChangePosition ChangeType = "position"
	ChangeRemove   ChangeType = "remove"
	ChangeSelect   ChangeType = "select"
)

// OnConnect validates and adds a candidate edge
func (e *Editor) OnConnect(c Connection) (flow.EdgeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.AddEdge(c.Source, c.Target)
}

// OnNodeClick selects a node and returns its configuration surface
func (e *Editor) OnNodeClick(id flow.NodeID) (*session.Surface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Select(id)
}

// OnNodesChange applies canvas node changes in order, stopping at the
// first one that fails. Canvas-only changes such as selection highlight
// are ignored.
func (e *Editor) OnNodesChange(changes []NodeChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range changes {
		var err error
		switch c.Type {
		case ChangeAdd:
			if c.Node == nil {
				err = ErrInvalidChange
				break
			}
			err = e.graph.InsertNode(*c.Node)
		case ChangePosition:
			if c.Position == nil {
				continue
			}
			err = e.graph.MoveNode(c.ID, *c.Position)
		case ChangeRemove:
			err = e.removeNode(c.ID)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OnEdgesChange applies canvas edge changes in order
func (e *Editor) OnEdgesChange(changes []EdgeChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range changes {
		if c.Type != ChangeRemove {
			continue
		}
		if err := e.graph.RemoveEdge(c.ID); err != nil {
			return err
		}
	}
	return nil
}
