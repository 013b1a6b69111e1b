// Package editor binds the graph, node type registry, configuration store,
// selection session and dispatcher into one editing session, and consumes
// the events emitted by the rendering layer.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/dispatch"
	"github.com/meikuraledutech/flow/export"
	"github.com/meikuraledutech/flow/log"
	"github.com/meikuraledutech/flow/session"
)

type (
	// Editor is safe for concurrent use. Run blocks for the duration of a
	// dispatch while graph and configuration edits continue to be served.
	Editor struct {
		mu      sync.Mutex
		reg     *flow.Registry
		graph   *flow.Graph
		configs *flow.ConfigStore
		session *session.Controller
		disp    *dispatch.Dispatcher
	}

	// Option configures a new Editor
	Option func(*Editor) error
)

// New creates an editor that dispatches through t. A nil registry means
// flow.DefaultRegistry().
func New(reg *flow.Registry, t dispatch.Transport, opts ...Option) (*Editor, error) {
	if reg == nil {
		reg = flow.DefaultRegistry()
	}
	e := &Editor{reg: reg}
	e.reset(flow.NewGraph(reg))
	e.disp = dispatch.NewDispatcher(dispatch.NewProtocol(t), e)

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// WithInitialGraph seeds the canvas with one node of each default type
func WithInitialGraph() Option {
	return func(e *Editor) error {
		seed := []flow.Node{
			{ID: "Prompt", Type: flow.TypePrompt},
			{ID: "2", Type: flow.TypeProcessing, Position: flow.Position{X: 200}},
			{ID: "3", Type: flow.TypeOutput, Position: flow.Position{X: 400}},
		}
		for _, n := range seed {
			if err := e.graph.InsertNode(n); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithGraph starts the editor from an existing graph, such as one read
// back from an export
func WithGraph(g *flow.Graph) Option {
	return func(e *Editor) error {
		g = g.Clone()
		if g.Registry() != e.reg {
			data, err := flow.Marshal(g)
			if err != nil {
				return err
			}
			if g, err = flow.Unmarshal(data, e.reg); err != nil {
				return fmt.Errorf("editor: graph does not match registry: %w", err)
			}
		}
		e.reset(g)
		return nil
	}
}

// Descriptors returns the node type table for the rendering layer
func (e *Editor) Descriptors() []flow.Descriptor {
	return e.reg.Descriptors()
}

// Graph returns a snapshot of the current graph
func (e *Editor) Graph() *flow.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Clone()
}

// AddNode places a new node of type t
func (e *Editor) AddNode(t flow.NodeType, pos flow.Position) (flow.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.AddNode(t, pos)
}

// RemoveNode deletes a node, its edges, its configuration and any
// selection that refers to it
func (e *Editor) RemoveNode(id flow.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeNode(id)
}

// Config returns a node's configuration
func (e *Editor) Config(id flow.NodeID) (flow.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configs.Get(id)
}

// Edit sets a field on the selected node
func (e *Editor) Edit(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Edit(field, value)
}

// Surface returns the configuration view of the selected node
func (e *Editor) Surface() (*session.Surface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Surface()
}

// Selection returns the current selection state
func (e *Editor) Selection() session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State()
}

// Deselect clears the selection
func (e *Editor) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Deselect()
}

// CloseDialog dismisses the configuration surface
func (e *Editor) CloseDialog() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.CloseDialog()
}

// Run snapshots the graph and the active Prompt and Processing
// configuration, then dispatches. It blocks until the dispatch finishes
// or is stopped.
func (e *Editor) Run(ctx context.Context) (*dispatch.Result, error) {
	req, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return e.disp.Run(ctx, req)
}

// Stop flips a running dispatch back to Idle. See dispatch.Dispatcher.Stop
// for what is and is not cancelled.
func (e *Editor) Stop() bool {
	return e.disp.Stop()
}

// Reset acknowledges a finished run, returning the dispatcher to Idle
func (e *Editor) Reset() bool {
	return e.disp.Reset()
}

// State returns the dispatcher mode
func (e *Editor) State() dispatch.State {
	return e.disp.State()
}

// Export writes the current graph as flow.json
func (e *Editor) Export(ctx context.Context, ex *export.Exporter) (string, error) {
	return ex.Export(ctx, e.Graph())
}

// SetOutput implements dispatch.OutputSink
func (e *Editor) SetOutput(id flow.NodeID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configs.SetOutput(id, text)
}

func (e *Editor) snapshot() (dispatch.Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	req := dispatch.Request{Graph: e.graph.Clone()}
	if id, ok := e.session.Active(flow.TypePrompt); ok {
		cfg, err := e.configs.Get(id)
		if err != nil {
			return req, err
		}
		req.Payload.Prompt = cfg[flow.FieldPrompt]
	}
	if id, ok := e.session.Active(flow.TypeProcessing); ok {
		cfg, err := e.configs.Get(id)
		if err != nil {
			return req, err
		}
		req.Payload.Option = cfg[flow.FieldOption]
	}
	if id, ok := e.session.Active(flow.TypeOutput); ok {
		req.Output = id
	}
	return req, nil
}

func (e *Editor) removeNode(id flow.NodeID) error {
	if err := e.graph.RemoveNode(id); err != nil {
		return err
	}
	e.configs.Delete(id)
	e.session.NodeRemoved(id)
	slog.Debug("Node removed", log.NodeID(id))
	return nil
}

func (e *Editor) reset(g *flow.Graph) {
	e.graph = g
	e.configs = flow.NewConfigStore(e.reg, g)
	e.session = session.NewController(g, e.configs)
}
