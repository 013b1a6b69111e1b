package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meikuraledutech/flow"
)

var (
	ErrNoPrompt = errors.New("service: flow has no prompt node")
	ErrNoOutput = errors.New("service: no output node reachable from prompt")
)

var transforms = map[string]func(string) string{
	flow.Option1: func(s string) string { return s },
	flow.Option2: strings.ToUpper,
}

// Execute runs prompt through g. It follows the shortest path from a
// Prompt node to an Output node and applies option once for every
// Processing node on that path. Prompt nodes are tried in insertion order
// and the first one that reaches an Output node is used, so an unwired
// Prompt never shadows the wired one. An empty option means option1.
func Execute(g *flow.Graph, prompt, option string) (string, error) {
	if option == "" {
		option = flow.Option1
	}
	transform, ok := transforms[option]
	if !ok {
		return "", fmt.Errorf("%w: option %q", flow.ErrInvalidValue, option)
	}

	starts := g.NodesOfType(flow.TypePrompt)
	if len(starts) == 0 {
		return "", ErrNoPrompt
	}
	var path []flow.NodeID
	for _, start := range starts {
		if path, ok = shortestPath(g, start.ID); ok {
			break
		}
	}
	if !ok {
		return "", ErrNoOutput
	}

	text := prompt
	for _, id := range path {
		if n, _ := g.Node(id); n.Type == flow.TypeProcessing {
			text = transform(text)
		}
	}
	return text, nil
}

// shortestPath is a breadth-first search from start that stops at the
// first Output node, visiting successors in edge insertion order
func shortestPath(g *flow.Graph, start flow.NodeID) ([]flow.NodeID, bool) {
	next := map[flow.NodeID][]flow.NodeID{}
	for _, e := range g.Edges {
		next[e.Source] = append(next[e.Source], e.Target)
	}

	parent := map[flow.NodeID]flow.NodeID{}
	seen := map[flow.NodeID]bool{start: true}
	queue := []flow.NodeID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if n, _ := g.Node(id); n.Type == flow.TypeOutput {
			var path []flow.NodeID
			for cur := id; cur != start; cur = parent[cur] {
				path = append(path, cur)
			}
			path = append(path, start)
			return path, true
		}
		for _, t := range next[id] {
			if seen[t] {
				continue
			}
			seen[t] = true
			parent[t] = id
			queue = append(queue, t)
		}
	}
	return nil, false
}
