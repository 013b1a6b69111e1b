package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/flow"
)

// SaveFlow stores a full graph (nodes + edges) in one transaction,
// replacing whatever was saved under flowID before. Insertion order is
// kept in the ordinal columns.
func (s *PGStore) SaveFlow(ctx context.Context, flowID string, g *flow.Graph) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("flow: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Replace semantics: dropping the flow row cascades to nodes and edges.
	if _, err := tx.Exec(ctx, `DELETE FROM flows WHERE id = $1`, flowID); err != nil {
		return fmt.Errorf("flow: delete flow: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO flows (id) VALUES ($1)`, flowID); err != nil {
		return fmt.Errorf("flow: insert flow: %w", err)
	}

	for i, n := range g.Nodes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO flow_nodes (flow_id, id, ordinal, type, label, pos_x, pos_y)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			flowID, n.ID, i, n.Type, n.Data.Label, n.Position.X, n.Position.Y,
		); err != nil {
			return fmt.Errorf("flow: insert node %s: %w", n.ID, err)
		}
	}

	for i, e := range g.Edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO flow_edges (flow_id, id, ordinal, source, target)
			 VALUES ($1, $2, $3, $4, $5)`,
			flowID, e.ID, i, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("flow: insert edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("flow: commit: %w", err)
	}
	return nil
}

// GetFlow retrieves a full graph by flow id and validates it against reg.
// Returns flow.ErrFlowNotFound if nothing was saved under flowID.
func (s *PGStore) GetFlow(
	ctx context.Context, flowID string, reg *flow.Registry,
) (*flow.Graph, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM flows WHERE id = $1)`, flowID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("flow: query flow: %w", err)
	}
	if !exists {
		return nil, flow.ErrFlowNotFound
	}

	nodes, err := s.ListNodes(ctx, flowID)
	if err != nil {
		return nil, err
	}
	edges, err := s.ListEdges(ctx, flowID)
	if err != nil {
		return nil, err
	}

	g := flow.NewGraph(reg)
	g.Nodes = nodes
	g.Edges = edges
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteFlow removes a flow with its nodes and edges.
// No error if the flowID doesn't exist.
func (s *PGStore) DeleteFlow(ctx context.Context, flowID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM flows WHERE id = $1`, flowID); err != nil {
		return fmt.Errorf("flow: delete flow: %w", err)
	}
	return nil
}
