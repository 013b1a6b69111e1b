package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS flows (
    id       TEXT PRIMARY KEY,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS flow_nodes (
    flow_id TEXT NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
    id      TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    type    TEXT NOT NULL,
    label   TEXT NOT NULL DEFAULT '',
    pos_x   DOUBLE PRECISION NOT NULL DEFAULT 0,
    pos_y   DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (flow_id, id)
);

CREATE TABLE IF NOT EXISTS flow_edges (
    flow_id TEXT NOT NULL,
    id      TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    source  TEXT NOT NULL,
    target  TEXT NOT NULL,
    PRIMARY KEY (flow_id, id),
    FOREIGN KEY (flow_id, source) REFERENCES flow_nodes(flow_id, id) ON DELETE CASCADE,
    FOREIGN KEY (flow_id, target) REFERENCES flow_nodes(flow_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_flow_nodes_ordinal ON flow_nodes(flow_id, ordinal);
CREATE INDEX IF NOT EXISTS idx_flow_edges_ordinal ON flow_edges(flow_id, ordinal);
`

// CreateSchema creates the flows, flow_nodes and flow_edges tables if they
// don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the flow tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`DROP TABLE IF EXISTS flow_edges, flow_nodes, flows CASCADE;`)
	return err
}
