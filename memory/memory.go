// Package memory implements flow.Store in process memory. It backs the
// execution service when no database is configured, and tests.
package memory

import (
	"context"
	"sync"

	"github.com/meikuraledutech/flow"
)

// Store keeps one serialized graph per flow id
type Store struct {
	mu    sync.RWMutex
	flows map[string][]byte
}

var _ flow.Store = (*Store)(nil)

func New() *Store {
	return &Store{flows: map[string][]byte{}}
}

// CreateSchema is a no-op
func (s *Store) CreateSchema(context.Context) error {
	return nil
}

// DropSchema forgets every flow
func (s *Store) DropSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows = map[string][]byte{}
	return nil
}

// SaveFlow replaces the graph stored under flowID
func (s *Store) SaveFlow(_ context.Context, flowID string, g *flow.Graph) error {
	data, err := flow.Marshal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[flowID] = data
	return nil
}

// GetFlow decodes a fresh copy of the stored graph against reg
func (s *Store) GetFlow(
	_ context.Context, flowID string, reg *flow.Registry,
) (*flow.Graph, error) {
	s.mu.RLock()
	data, ok := s.flows[flowID]
	s.mu.RUnlock()
	if !ok {
		return nil, flow.ErrFlowNotFound
	}
	return flow.Unmarshal(data, reg)
}

// DeleteFlow removes a flow. No error if it doesn't exist.
func (s *Store) DeleteFlow(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, flowID)
	return nil
}
