// Package redisstore implements flow.Store on Redis. Each flow is one
// string key holding the compact serialized graph.
package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/flow"
)

// Store keeps flows under "<prefix>:flow:<id>"
type Store struct {
	client *redis.Client
	prefix string
}

const scanBatch = 100

var _ flow.Store = (*Store)(nil)

// New creates a Store on an existing client. The caller owns the client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// CreateSchema checks that Redis is reachable. Keys need no setup.
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("flow: redis ping: %w", err)
	}
	return nil
}

// DropSchema deletes every flow key under the prefix
func (s *Store) DropSchema(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.key("*"), scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("flow: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("flow: redis delete: %w", err)
	}
	return nil
}

// SaveFlow replaces the graph stored under flowID
func (s *Store) SaveFlow(ctx context.Context, flowID string, g *flow.Graph) error {
	data, err := flow.Marshal(g)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(flowID), buf.Bytes(), 0).Err(); err != nil {
		return fmt.Errorf("flow: redis set %s: %w", flowID, err)
	}
	return nil
}

// GetFlow returns flow.ErrFlowNotFound when the key is absent
func (s *Store) GetFlow(
	ctx context.Context, flowID string, reg *flow.Registry,
) (*flow.Graph, error) {
	data, err := s.client.Get(ctx, s.key(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, flow.ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("flow: redis get %s: %w", flowID, err)
	}
	return flow.Unmarshal(data, reg)
}

// DeleteFlow removes a flow. No error if it doesn't exist.
func (s *Store) DeleteFlow(ctx context.Context, flowID string) error {
	if err := s.client.Del(ctx, s.key(flowID)).Err(); err != nil {
		return fmt.Errorf("flow: redis delete %s: %w", flowID, err)
	}
	return nil
}

func (s *Store) key(flowID string) string {
	return s.prefix + ":flow:" + flowID
}
