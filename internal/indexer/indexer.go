// Package indexer builds per-language retrieval indices from the verse corpus.
package indexer

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/shepherd/internal/corpus"
	"github.com/hyperjump/shepherd/internal/embedding"
	"github.com/hyperjump/shepherd/internal/retrieval"
	"github.com/hyperjump/shepherd/internal/vector"
)

// DefaultWorkers is the embedding pool size used when none is configured.
const DefaultWorkers = 4

// embedBatchSize is the number of verse texts sent to the embedder per task.
const embedBatchSize = 32

// Builder embeds verse collections and assembles the read-only language
// indices served at runtime. Building happens once at startup; the resulting
// indices are never mutated afterwards.
type Builder struct {
	embedder embedding.Embedder
	workers  int
	logger   *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets the embedding pool size.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder around the given embedder.
func NewBuilder(embedder embedding.Embedder, opts ...BuilderOption) *Builder {
	b := &Builder{
		embedder: embedder,
		workers:  DefaultWorkers,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build embeds every verse in every collection and returns one LanguageIndex
// per language. Verses are embedded in batches fanned out on a worker pool;
// index positions always match corpus record order.
func (b *Builder) Build(ctx context.Context, collections map[string][]corpus.VerseRecord) (map[string]*retrieval.LanguageIndex, error) {
	pool, err := ants.NewPool(b.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding pool: %w", err)
	}
	defer pool.Release()

	indices := make(map[string]*retrieval.LanguageIndex, len(collections))
	for lang, records := range collections {
		idx, err := b.buildLanguage(ctx, pool, lang, records)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s index: %w", lang, err)
		}
		if idx == nil {
			continue
		}
		indices[lang] = idx
		b.logger.Info("verse index built",
			zap.String("language", lang),
			zap.Int("verses", idx.Size()))
	}
	return indices, nil
}

func (b *Builder) buildLanguage(ctx context.Context, pool *ants.Pool, lang string, records []corpus.VerseRecord) (*retrieval.LanguageIndex, error) {
	if len(records) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(records))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for start := 0; start < len(records); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = rec.Text
		}
		offset := start
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			embeddings, err := b.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("embed %s verses from %s: %w", lang, batch[0].Reference(), err)
				}
				mu.Unlock()
				return
			}
			copy(vectors[offset:offset+len(texts)], embeddings)
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit embed task: %w", submitErr)
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	index, err := vector.NewMemoryIndex(b.embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	if err := index.Add(vectors); err != nil {
		return nil, err
	}
	return retrieval.NewLanguageIndex(lang, index, records)
}
