package flow

import (
	"fmt"
	"slices"
)

// NodeType is the tag that selects a node's connectors and configuration
// surface.
type NodeType string

const (
	TypePrompt     NodeType = "prompt"
	TypeProcessing NodeType = "processing"
	TypeOutput     NodeType = "output"
)

// FieldKind is the editing widget a configuration field is captured with.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldChoice FieldKind = "choice"
)

// Configuration field names used by the default node types.
const (
	FieldPrompt = "prompt"
	FieldOption = "option"
	FieldOutput = "output"
)

// Processing options
const (
	Option1 = "option1"
	Option2 = "option2"
)

type (
	// FieldSpec names a configuration field and how it may be set.
	// Options is only meaningful for FieldChoice.
	FieldSpec struct {
		Name    string    `json:"name"`
		Kind    FieldKind `json:"kind"`
		Options []string  `json:"options,omitempty"`
	}

	// Descriptor describes one node type. Adding a node type means adding
	// one Descriptor to a Registry.
	Descriptor struct {
		Type           NodeType    `json:"type"`
		Label          string      `json:"label"`
		AllowsIncoming bool        `json:"allows_incoming"`
		AllowsOutgoing bool        `json:"allows_outgoing"`
		ReceivesOutput bool        `json:"receives_output"`
		Defaults       Config      `json:"defaults"`
		Fields         []FieldSpec `json:"fields"`
	}

	// Registry is an immutable table of node type descriptors.
	Registry struct {
		order []NodeType
		types map[NodeType]Descriptor
	}
)

var defaultRegistry = NewRegistry(
	Descriptor{
		Type:           TypePrompt,
		Label:          "Prompt",
		AllowsOutgoing: true,
		Defaults:       Config{FieldPrompt: ""},
		Fields: []FieldSpec{
			{Name: FieldPrompt, Kind: FieldText},
		},
	},
	Descriptor{
		Type:           TypeProcessing,
		Label:          "Processing",
		AllowsIncoming: true,
		AllowsOutgoing: true,
		Defaults:       Config{FieldOption: Option1},
		Fields: []FieldSpec{
			{
				Name:    FieldOption,
				Kind:    FieldChoice,
				Options: []string{Option1, Option2},
			},
		},
	},
	Descriptor{
		Type:           TypeOutput,
		Label:          "Output",
		AllowsIncoming: true,
		ReceivesOutput: true,
		Defaults:       Config{},
	},
)

// DefaultRegistry returns the built-in Prompt, Processing and Output types.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry builds a registry from descriptors. A later descriptor with
// the same type replaces an earlier one.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{types: make(map[NodeType]Descriptor, len(descs))}
	for _, d := range descs {
		if _, ok := r.types[d.Type]; !ok {
			r.order = append(r.order, d.Type)
		}
		r.types[d.Type] = d.clone()
	}
	return r
}

// With returns a new registry containing r's descriptors plus descs.
func (r *Registry) With(descs ...Descriptor) *Registry {
	return NewRegistry(append(r.Descriptors(), descs...)...)
}

// Describe returns the descriptor for t.
func (r *Registry) Describe(t NodeType) (Descriptor, error) {
	if r == nil {
		r = defaultRegistry
	}
	d, ok := r.types[t]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return d.clone(), nil
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []NodeType {
	if r == nil {
		r = defaultRegistry
	}
	return slices.Clone(r.order)
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		r = defaultRegistry
	}
	res := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		res = append(res, r.types[t].clone())
	}
	return res
}

// Field returns the named field spec.
func (d Descriptor) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Accepts reports whether value is legal for the field.
func (f FieldSpec) Accepts(value string) bool {
	switch f.Kind {
	case FieldChoice:
		return slices.Contains(f.Options, value)
	default:
		return true
	}
}

func (d Descriptor) clone() Descriptor {
	res := d
	res.Defaults = d.Defaults.Clone()
	res.Fields = make([]FieldSpec, len(d.Fields))
	for i, f := range d.Fields {
		res.Fields[i] = f
		res.Fields[i].Options = slices.Clone(f.Options)
	}
	return res
}
