package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/log"
)

type (
	// OutputSink receives the text to display on the Output node. It is
	// called with the dispatcher's lock held and must not call back into
	// the Dispatcher.
	OutputSink interface {
		SetOutput(id flow.NodeID, text string) error
	}

	// Request is an immutable snapshot taken when Run is pressed. Later
	// edits to the live graph or configuration do not reach it.
	Request struct {
		Graph   *flow.Graph
		Payload Payload
		Output  flow.NodeID
	}

	// Result describes a finished dispatch
	Result struct {
		State  State
		Output string
		Err    error
	}

	// Dispatcher owns the Run/Stop state machine. Only one dispatch runs
	// at a time.
	Dispatcher struct {
		proto *Protocol
		sink  OutputSink

		mu     sync.Mutex
		state  State
		gen    uint64
		cancel context.CancelFunc
		output string
	}
)

// ErrorOutput is the placeholder shown when a dispatch fails
const ErrorOutput = "Error receiving output"

var (
	ErrAlreadyRunning = errors.New("dispatch: already running")
	ErrStopped        = errors.New("dispatch: stopped before completion")
	ErrNoGraph        = errors.New("dispatch: request has no graph")
)

func NewDispatcher(proto *Protocol, sink OutputSink) *Dispatcher {
	return &Dispatcher{
		proto: proto,
		sink:  sink,
		state: Idle,
	}
}

// Run performs a dispatch and blocks until it finishes or is stopped. A
// Run while another is in flight returns ErrAlreadyRunning without issuing
// any request. A run that was stopped, or superseded by a later run,
// returns ErrStopped and leaves the output untouched.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Graph == nil {
		return nil, ErrNoGraph
	}

	d.mu.Lock()
	next, ok := Next(d.state, EventRun)
	if !ok {
		d.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	d.state = next
	d.gen++
	gen := d.gen
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	slog.Info("Dispatch started",
		log.NodeID(req.Output),
		slog.Int("nodes", len(req.Graph.Nodes)),
		slog.Int("edges", len(req.Graph.Edges)))

	text, err := d.proto.Dispatch(ctx, req.Graph, req.Payload)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gen != gen || d.state != Running {
		slog.Info("Discarding result of stopped dispatch",
			log.NodeID(req.Output))
		return nil, ErrStopped
	}

	ev := EventSucceed
	if err != nil {
		ev = EventFail
		text = fmt.Sprintf("%s: %v", ErrorOutput, err)
		slog.Warn("Dispatch failed", log.Error(err))
	}
	d.state, _ = Next(d.state, ev)
	d.cancel = nil
	d.output = text

	if req.Output != "" && d.sink != nil {
		if serr := d.sink.SetOutput(req.Output, text); serr != nil {
			slog.Warn("Output node no longer accepts output",
				log.NodeID(req.Output),
				log.Error(serr))
		}
	}

	slog.Info("Dispatch finished", log.State(d.state))
	return &Result{State: d.state, Output: text, Err: err}, nil
}

// Stop returns a running dispatcher to Idle and cancels the in-flight
// request context. Requests already delivered may still be processed by
// the service; their responses are discarded. Stop reports whether the
// dispatcher was running.
func (d *Dispatcher) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, ok := Next(d.state, EventStop)
	if !ok {
		return false
	}
	d.state = next
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	slog.Info("Dispatch stopped")
	return true
}

// Reset acknowledges a finished dispatch and returns the dispatcher to
// Idle. It reports false unless the state was Completed or Failed. The
// last output stays on the Output node.
func (d *Dispatcher) Reset() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, ok := Next(d.state, EventReset)
	if !ok {
		return false
	}
	d.state = next
	return true
}

// State returns the current mode
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Output returns the text produced by the most recent finished dispatch
func (d *Dispatcher) Output() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}
