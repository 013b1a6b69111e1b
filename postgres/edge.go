package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flow"
)

// ListEdges returns all edges for a flowID in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListEdges(ctx context.Context, flowID string) ([]flow.Edge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, source, target FROM flow_edges
		 WHERE flow_id = $1 ORDER BY ordinal`, flowID)
	if err != nil {
		return nil, fmt.Errorf("flow: list edges: %w", err)
	}
	defer rows.Close()

	edges := []flow.Edge{}
	for rows.Next() {
		var e flow.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("flow: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flow: rows edges: %w", err)
	}
	return edges, nil
}
