package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/session"
)

func newController(t *testing.T) (*session.Controller, *flow.Graph, *flow.ConfigStore) {
	t.Helper()
	g := flow.NewGraph(nil)
	require.NoError(t, g.InsertNode(flow.Node{ID: "p1", Type: flow.TypePrompt}))
	require.NoError(t, g.InsertNode(flow.Node{ID: "c1", Type: flow.TypeProcessing}))
	require.NoError(t, g.InsertNode(flow.Node{ID: "o1", Type: flow.TypeOutput}))
	configs := flow.NewConfigStore(nil, g)
	return session.NewController(g, configs), g, configs
}

func TestSelectOpensSurface(t *testing.T) {
	c, _, _ := newController(t)

	s, err := c.Select("c1")
	require.NoError(t, err)
	assert.Equal(t, flow.NodeID("c1"), s.Node.ID)
	assert.Equal(t, flow.TypeProcessing, s.Descriptor.Type)
	assert.Equal(t, flow.Config{"option": "option1"}, s.Config)
	assert.Equal(t, flow.NodeID("c1"), c.State().Selected)
}

func TestSelectUnknownNode(t *testing.T) {
	c, _, _ := newController(t)
	_, err := c.Select("nope")
	assert.ErrorIs(t, err, flow.ErrNodeNotFound)
	assert.False(t, c.State().IsSelected())
}

func TestSingleSelection(t *testing.T) {
	c, _, _ := newController(t)
	_, err := c.Select("p1")
	require.NoError(t, err)
	_, err = c.Select("o1")
	require.NoError(t, err)

	assert.Equal(t, flow.NodeID("o1"), c.State().Selected)
	s, err := c.Surface()
	require.NoError(t, err)
	assert.Equal(t, flow.NodeID("o1"), s.Node.ID)
}

func TestEditRoutesToSelected(t *testing.T) {
	c, _, configs := newController(t)

	assert.ErrorIs(t, c.Edit("prompt", "x"), session.ErrNoSelection)

	_, err := c.Select("p1")
	require.NoError(t, err)
	require.NoError(t, c.Edit("prompt", "hello"))

	cfg, err := configs.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg["prompt"])

	s, err := c.Surface()
	require.NoError(t, err)
	assert.Equal(t, "hello", s.Config["prompt"])

	assert.ErrorIs(t, c.Edit("option", "option2"), flow.ErrUnknownField)
}

func TestEditInvalidChoice(t *testing.T) {
	c, _, configs := newController(t)
	_, err := c.Select("c1")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Edit("option", "option9"), flow.ErrInvalidValue)
	cfg, err := configs.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "option1", cfg["option"])
}

func TestDeselectAndClose(t *testing.T) {
	c, _, _ := newController(t)

	_, err := c.Select("p1")
	require.NoError(t, err)
	c.Deselect()
	_, err = c.Surface()
	assert.ErrorIs(t, err, session.ErrNoSelection)

	_, err = c.Select("p1")
	require.NoError(t, err)
	c.CloseDialog()
	assert.ErrorIs(t, c.Edit("prompt", "x"), session.ErrNoSelection)
}

func TestActive(t *testing.T) {
	c, g, _ := newController(t)

	id, ok := c.Active(flow.TypePrompt)
	require.True(t, ok)
	assert.Equal(t, flow.NodeID("p1"), id)

	require.NoError(t, g.InsertNode(flow.Node{ID: "p2", Type: flow.TypePrompt}))
	_, err := c.Select("p2")
	require.NoError(t, err)
	c.Deselect()

	id, ok = c.Active(flow.TypePrompt)
	require.True(t, ok)
	assert.Equal(t, flow.NodeID("p2"), id)

	require.NoError(t, g.RemoveNode("p2"))
	c.NodeRemoved("p2")
	id, ok = c.Active(flow.TypePrompt)
	require.True(t, ok)
	assert.Equal(t, flow.NodeID("p1"), id)

	require.NoError(t, g.RemoveNode("p1"))
	_, ok = c.Active(flow.TypePrompt)
	assert.False(t, ok)
}

func TestOutputDisplay(t *testing.T) {
	c, _, configs := newController(t)

	s, err := c.Select("o1")
	require.NoError(t, err)
	assert.Equal(t, session.NoOutput, s.Display())

	require.NoError(t, configs.SetOutput("o1", "HELLO"))
	s, err = c.Surface()
	require.NoError(t, err)
	assert.Equal(t, "HELLO", s.Display())
}
