package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/service"
)

func graph(t *testing.T, nodes []flow.Node, edges [][2]flow.NodeID) *flow.Graph {
	t.Helper()
	g := flow.NewGraph(nil)
	for _, n := range nodes {
		require.NoError(t, g.InsertNode(n))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	return g
}

func TestExecute(t *testing.T) {
	p := flow.Node{ID: "p1", Type: flow.TypePrompt}
	c1 := flow.Node{ID: "c1", Type: flow.TypeProcessing}
	c2 := flow.Node{ID: "c2", Type: flow.TypeProcessing}
	o := flow.Node{ID: "o1", Type: flow.TypeOutput}

	cases := []struct {
		name   string
		nodes  []flow.Node
		edges  [][2]flow.NodeID
		option string
		want   string
		err    error
	}{
		{
			name:   "upper through processing",
			nodes:  []flow.Node{p, c1, o},
			edges:  [][2]flow.NodeID{{"p1", "c1"}, {"c1", "o1"}},
			option: flow.Option2,
			want:   "HELLO",
		},
		{
			name:   "identity",
			nodes:  []flow.Node{p, c1, o},
			edges:  [][2]flow.NodeID{{"p1", "c1"}, {"c1", "o1"}},
			option: flow.Option1,
			want:   "hello",
		},
		{
			name:  "empty option",
			nodes: []flow.Node{p, c1, o},
			edges: [][2]flow.NodeID{{"p1", "c1"}, {"c1", "o1"}},
			want:  "hello",
		},
		{
			name:   "direct to output skips processing",
			nodes:  []flow.Node{p, c1, o},
			edges:  [][2]flow.NodeID{{"p1", "o1"}, {"p1", "c1"}},
			option: flow.Option2,
			want:   "hello",
		},
		{
			name:   "self loop and chain",
			nodes:  []flow.Node{p, c1, c2, o},
			edges:  [][2]flow.NodeID{{"p1", "c1"}, {"c1", "c1"}, {"c1", "c2"}, {"c2", "o1"}},
			option: flow.Option2,
			want:   "HELLO",
		},
		{
			name:   "first prompt unwired",
			nodes:  []flow.Node{p, c1, o, {ID: "p2", Type: flow.TypePrompt}},
			edges:  [][2]flow.NodeID{{"p2", "c1"}, {"c1", "o1"}},
			option: flow.Option2,
			want:   "HELLO",
		},
		{
			name:  "no prompt",
			nodes: []flow.Node{c1, o},
			err:   service.ErrNoPrompt,
		},
		{
			name:  "unreachable output",
			nodes: []flow.Node{p, c1, o},
			edges: [][2]flow.NodeID{{"p1", "c1"}},
			err:   service.ErrNoOutput,
		},
		{
			name:   "unknown option",
			nodes:  []flow.Node{p, o},
			option: "option3",
			err:    flow.ErrInvalidValue,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := graph(t, tc.nodes, tc.edges)
			got, err := service.Execute(g, "hello", tc.option)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
