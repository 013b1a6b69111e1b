package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flow"
)

// ListNodes returns all nodes for a flowID in insertion order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListNodes(ctx context.Context, flowID string) ([]flow.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, type, label, pos_x, pos_y FROM flow_nodes
		 WHERE flow_id = $1 ORDER BY ordinal`, flowID)
	if err != nil {
		return nil, fmt.Errorf("flow: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []flow.Node{}
	for rows.Next() {
		var n flow.Node
		if err := rows.Scan(
			&n.ID, &n.Type, &n.Data.Label, &n.Position.X, &n.Position.Y,
		); err != nil {
			return nil, fmt.Errorf("flow: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flow: rows nodes: %w", err)
	}
	return nodes, nil
}
