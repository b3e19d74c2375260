// Package embedding turns guidance queries and verse text into vectors for retrieval.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the embedding model could not be initialized. The
// service still starts when this happens; retrieval runs disabled and every
// query returns zero citations.
var ErrUnavailable = errors.New("embedder unavailable")

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
