package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/shepherd/internal/embedding"
	"github.com/hyperjump/shepherd/internal/models"
)

const (
	// DefaultTopK is the number of neighbors fetched per query.
	DefaultTopK = 5
	// DefaultMaxDistance is the largest distance still considered relevant.
	// Calibrated for the bundled embedding model; re-tune when changing embedders.
	DefaultMaxDistance = 10.0
)

// Options tunes the retrieval service.
type Options struct {
	TopK              int
	MaxDistance       float64
	FallbackToDefault bool
	DefaultLanguage   string
}

// Service answers verse lookups for guidance queries. Retrieval never fails:
// missing indices, embedder errors, and over-threshold matches all yield
// fewer (possibly zero) citations, never an error.
type Service struct {
	embedder embedding.Embedder
	indices  map[string]*LanguageIndex
	opts     Options
	logger   *zap.Logger
}

// NewService creates a retrieval service over per-language indices. A nil
// embedder disables retrieval: every query returns zero citations.
func NewService(embedder embedding.Embedder, indices map[string]*LanguageIndex, opts Options, logger *zap.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = DefaultMaxDistance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if indices == nil {
		indices = make(map[string]*LanguageIndex)
	}
	return &Service{
		embedder: embedder,
		indices:  indices,
		opts:     opts,
		logger:   logger,
	}
}

// Retrieve returns citations for verses close to the query, ascending by
// distance, filtered to those under the distance threshold.
func (s *Service) Retrieve(ctx context.Context, query, language string) []models.Citation {
	idx := s.indices[language]
	if idx == nil && s.opts.FallbackToDefault && language != s.opts.DefaultLanguage {
		idx = s.indices[s.opts.DefaultLanguage]
	}
	if idx == nil || s.embedder == nil {
		return nil
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed", zap.Error(err))
		return nil
	}

	citations, err := idx.Search(emb, s.opts.TopK)
	if err != nil {
		s.logger.Warn("verse search failed",
			zap.String("language", idx.Language()),
			zap.Error(err))
		return nil
	}

	kept := citations[:0]
	for _, c := range citations {
		if c.Score < s.opts.MaxDistance {
			kept = append(kept, c)
		}
	}
	return kept
}

// Enabled reports whether the service can answer queries at all.
func (s *Service) Enabled() bool {
	return s.embedder != nil && len(s.indices) > 0
}

// Stats returns the number of indexed verses per language.
func (s *Service) Stats() map[string]int {
	stats := make(map[string]int, len(s.indices))
	for lang, idx := range s.indices {
		stats[lang] = idx.Size()
	}
	return stats
}
