// Package export writes the flow.json artifact to a blob bucket and reads
// it back.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/meikuraledutech/flow"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// FileName is the name of the exported artifact
const FileName = "flow.json"

// ErrNotFound is returned by Import when the artifact does not exist
var ErrNotFound = errors.New("export: artifact not found")

// Exporter stores flow artifacts in a bucket: a local directory, memory,
// or an S3-compatible store, selected by URL
type Exporter struct {
	bucket *blob.Bucket
	prefix string
}

// Open opens the bucket at bucketURL, e.g. "file:///tmp/flows",
// "mem://" or "s3://bucket?region=us-east-1"
func Open(ctx context.Context, bucketURL, prefix string) (*Exporter, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("export: open bucket: %w", err)
	}
	return New(bucket, prefix), nil
}

// New wraps an already open bucket
func New(bucket *blob.Bucket, prefix string) *Exporter {
	return &Exporter{bucket: bucket, prefix: prefix}
}

// Export writes the graph topology as flow.json and returns its key
func (e *Exporter) Export(ctx context.Context, g *flow.Graph) (string, error) {
	data, err := flow.Marshal(g)
	if err != nil {
		return "", err
	}
	key := e.key()
	err = e.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("export: write %s: %w", key, err)
	}
	slog.Info("Flow exported",
		slog.String("key", key),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)))
	return key, nil
}

// Import reads flow.json and reconstructs the graph against reg
func (e *Exporter) Import(
	ctx context.Context, reg *flow.Registry,
) (*flow.Graph, error) {
	key := e.key()
	data, err := e.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("export: read %s: %w", key, err)
	}
	return flow.Unmarshal(data, reg)
}

func (e *Exporter) Close() error {
	return e.bucket.Close()
}

func (e *Exporter) key() string {
	return e.prefix + FileName
}
