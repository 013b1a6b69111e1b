// Package session tracks which node's configuration surface is open and
// routes edits made on it into the configuration store.
//
// Selection state is a plain value. Every transition is Reduce(state,
// event), which never mutates its input.
package session

import (
	"maps"

	"github.com/meikuraledutech/flow"
)

type (
	// State is the editing selection. At most one node is selected.
	// Active remembers, per node type, the node most recently selected.
	State struct {
		Selected flow.NodeID
		Active   map[flow.NodeType]flow.NodeID
	}

	// Event is a selection input
	Event interface {
		apply(State) State
	}

	// Select opens the configuration surface of a node
	Select struct {
		ID   flow.NodeID
		Type flow.NodeType
	}

	// Deselect clears the selection
	Deselect struct{}

	// CloseDialog clears the selection when the surface is dismissed
	CloseDialog struct{}

	// NodeRemoved forgets a deleted node
	NodeRemoved struct {
		ID flow.NodeID
	}
)

// Reduce returns the state that follows s after e
func Reduce(s State, e Event) State {
	return e.apply(s.clone())
}

// IsSelected reports whether a surface is open
func (s State) IsSelected() bool {
	return s.Selected != ""
}

func (e Select) apply(s State) State {
	if s.Selected == e.ID {
		return s
	}
	s.Selected = e.ID
	s.Active[e.Type] = e.ID
	return s
}

func (Deselect) apply(s State) State {
	s.Selected = ""
	return s
}

func (CloseDialog) apply(s State) State {
	s.Selected = ""
	return s
}

func (e NodeRemoved) apply(s State) State {
	if s.Selected == e.ID {
		s.Selected = ""
	}
	for t, id := range s.Active {
		if id == e.ID {
			delete(s.Active, t)
		}
	}
	return s
}

func (s State) clone() State {
	res := s
	res.Active = maps.Clone(s.Active)
	if res.Active == nil {
		res.Active = map[flow.NodeType]flow.NodeID{}
	}
	return res
}
