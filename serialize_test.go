package flow_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
)

const pipelineJSON = `{
  "nodes": [
    {
      "id": "p1",
      "type": "prompt",
      "position": {
        "x": 0,
        "y": 0
      },
      "data": {
        "label": "Prompt"
      }
    },
    {
      "id": "c1",
      "type": "processing",
      "position": {
        "x": 200,
        "y": 0
      },
      "data": {
        "label": "Processing"
      }
    },
    {
      "id": "o1",
      "type": "output",
      "position": {
        "x": 400,
        "y": 0
      },
      "data": {
        "label": "Output"
      }
    }
  ],
  "edges": [
    {
      "id": "e1",
      "source": "p1",
      "target": "c1"
    },
    {
      "id": "e2",
      "source": "c1",
      "target": "o1"
    }
  ]
}`

func TestMarshalFormat(t *testing.T) {
	g := newPipeline(t)
	g.Edges = []flow.Edge{
		{ID: "e1", Source: "p1", Target: "c1"},
		{ID: "e2", Source: "c1", Target: "o1"},
	}

	data, err := flow.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, pipelineJSON, string(data))
}

func TestMarshalEmpty(t *testing.T) {
	data, err := flow.Marshal(&flow.Graph{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"nodes\": [],\n  \"edges\": []\n}", string(data))
}

func TestMarshalDeterministic(t *testing.T) {
	g := newPipeline(t)
	_, err := g.AddEdge("p1", "c1")
	require.NoError(t, err)

	first, err := flow.Marshal(g)
	require.NoError(t, err)
	second, err := flow.Marshal(g.Clone())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoundTrip(t *testing.T) {
	g := newPipeline(t)
	for _, pair := range [][2]flow.NodeID{
		{"p1", "c1"}, {"c1", "o1"}, {"p1", "c1"}, {"c1", "c1"},
	} {
		_, err := g.AddEdge(pair[0], pair[1])
		require.NoError(t, err)
	}
	extra, err := g.AddNode(flow.TypeProcessing, flow.Position{X: -3.5, Y: 7})
	require.NoError(t, err)
	_, err = g.AddEdge(extra, "o1")
	require.NoError(t, err)

	first, err := flow.Marshal(g)
	require.NoError(t, err)

	back, err := flow.Unmarshal(first, nil)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, back.Nodes)
	assert.Equal(t, g.Edges, back.Edges)

	second, err := flow.Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMarshalOmitsConfiguration(t *testing.T) {
	g := newPipeline(t)
	store := flow.NewConfigStore(nil, g)
	require.NoError(t, store.Set("p1", "prompt", "secret"))

	data, err := flow.Marshal(g)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, 2)
	assert.Contains(t, doc, "nodes")
	assert.Contains(t, doc, "edges")
}

func TestExportAfterTwoNodesOneEdge(t *testing.T) {
	g := flow.NewGraph(nil)
	p, err := g.AddNode(flow.TypePrompt, flow.Position{})
	require.NoError(t, err)
	o, err := g.AddNode(flow.TypeOutput, flow.Position{X: 400})
	require.NoError(t, err)
	e, err := g.AddEdge(p, o)
	require.NoError(t, err)

	data, err := flow.Marshal(g)
	require.NoError(t, err)

	var doc struct {
		Nodes []flow.Node `json:"nodes"`
		Edges []flow.Edge `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, p, doc.Nodes[0].ID)
	assert.Equal(t, o, doc.Nodes[1].ID)
	assert.Equal(t, e, doc.Edges[0].ID)
}

func TestUnmarshalEditorArtifact(t *testing.T) {
	data := []byte(`{
	  "nodes": [
	    {"id": "Prompt", "type": "prompt", "position": {"x": 0, "y": 0},
	     "data": {"label": "Prompt"}, "measured": {"width": 80, "height": 42},
	     "selected": false},
	    {"id": "3", "type": "output", "position": {"x": 400, "y": 0},
	     "data": {"label": "Output"}}
	  ],
	  "edges": [
	    {"source": "Prompt", "target": "3", "sourceHandle": null}
	  ]
	}`)

	g, err := flow.Unmarshal(data, nil)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.NotEmpty(t, g.Edges[0].ID)
}

func TestUnmarshalRejects(t *testing.T) {
	_, err := flow.Unmarshal([]byte(`{"nodes": [`), nil)
	assert.Error(t, err)

	_, err = flow.Unmarshal([]byte(`{
	  "nodes": [
	    {"id": "o", "type": "output"},
	    {"id": "p", "type": "prompt"}
	  ],
	  "edges": [{"id": "e", "source": "o", "target": "p"}]
	}`), nil)
	assert.ErrorIs(t, err, flow.ErrIllegalConnection)
}
