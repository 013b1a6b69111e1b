package flow

import (
	"context"
	"errors"
)

// Graph errors
var (
	ErrInvalidEndpoint   = errors.New("flow: invalid edge endpoint")
	ErrIllegalConnection = errors.New("flow: illegal connection")
	ErrNodeNotFound      = errors.New("flow: node not found")
	ErrEdgeNotFound      = errors.New("flow: edge not found")
	ErrDuplicateNode     = errors.New("flow: duplicate node id")
	ErrUnknownType       = errors.New("flow: unknown node type")
)

// Configuration errors
var (
	ErrUnknownField = errors.New("flow: unknown configuration field")
	ErrInvalidValue = errors.New("flow: invalid configuration value")
)

// Dispatch errors
var (
	ErrTransportFailure = errors.New("flow: transport failure")
	ErrResponseRead     = errors.New("flow: response read failure")
)

// ErrFlowNotFound is returned by a Store when no graph has been saved under
// the requested flow id.
var ErrFlowNotFound = errors.New("flow: flow not found")

// Store defines the contract the execution service uses to materialize a
// submitted graph so that a later prompt request can consult it.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Flows (replace semantics)
	SaveFlow(ctx context.Context, flowID string, g *Graph) error
	GetFlow(ctx context.Context, flowID string, reg *Registry) (*Graph, error)
	DeleteFlow(ctx context.Context, flowID string) error
}
