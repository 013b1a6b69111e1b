package flow

import (
	"fmt"
	"maps"
)

type (
	// Config holds the configuration values of a single node, keyed by
	// field name.
	Config map[string]string

	// NodeLookup resolves a node by id. *Graph implements it.
	NodeLookup interface {
		Node(id NodeID) (Node, bool)
	}

	// ConfigStore holds per-node configuration. Entries are created on the
	// first Set and read back merged over the type defaults. It is not safe
	// for concurrent use.
	ConfigStore struct {
		reg     *Registry
		nodes   NodeLookup
		entries map[NodeID]Config
	}
)

// NewConfigStore returns a store that validates against reg and resolves
// node types through nodes.
func NewConfigStore(reg *Registry, nodes NodeLookup) *ConfigStore {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &ConfigStore{
		reg:     reg,
		nodes:   nodes,
		entries: map[NodeID]Config{},
	}
}

// Get returns the node's configuration, falling back to its type defaults
// for any field that was never set.
func (s *ConfigStore) Get(id NodeID) (Config, error) {
	desc, err := s.describe(id)
	if err != nil {
		return nil, err
	}
	res := desc.Defaults.Clone()
	maps.Copy(res, s.entries[id])
	return res, nil
}

// Set assigns a field value. Unknown fields and out-of-range choices are
// rejected without changing the store.
func (s *ConfigStore) Set(id NodeID, field, value string) error {
	desc, err := s.describe(id)
	if err != nil {
		return err
	}
	spec, ok := desc.Field(field)
	if !ok {
		return fmt.Errorf("%w: %s nodes have no field %q",
			ErrUnknownField, desc.Type, field)
	}
	if !spec.Accepts(value) {
		return fmt.Errorf("%w: %q for field %q", ErrInvalidValue, value, field)
	}
	s.put(id, field, value)
	return nil
}

// SetOutput records the execution result on a node whose type receives
// output. The field is read-only through Set.
func (s *ConfigStore) SetOutput(id NodeID, text string) error {
	desc, err := s.describe(id)
	if err != nil {
		return err
	}
	if !desc.ReceivesOutput {
		return fmt.Errorf("%w: %s nodes do not receive output",
			ErrUnknownField, desc.Type)
	}
	s.put(id, FieldOutput, text)
	return nil
}

// Delete discards a node's configuration.
func (s *ConfigStore) Delete(id NodeID) {
	delete(s.entries, id)
}

// Has reports whether the node has been configured explicitly.
func (s *ConfigStore) Has(id NodeID) bool {
	_, ok := s.entries[id]
	return ok
}

// Clone returns a copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	return maps.Clone(c)
}

func (s *ConfigStore) put(id NodeID, field, value string) {
	cfg, ok := s.entries[id]
	if !ok {
		cfg = Config{}
		s.entries[id] = cfg
	}
	cfg[field] = value
}

func (s *ConfigStore) describe(id NodeID) (Descriptor, error) {
	n, ok := s.nodes.Node(id)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return s.reg.Describe(n.Type)
}
