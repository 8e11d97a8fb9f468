package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/minbar-ai/minbar/ai"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Pipeline loads corpus items into storage and embeds them.
// Items ingested through the pipeline are embedded asynchronously on a
// worker pool; Backfill sweeps up anything still missing a vector.
type Pipeline struct {
	corpus      storage.CorpusRepository
	embedder    ai.Embedder
	pool        *ants.Pool
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for async embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many items are embedded per service call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
// Defaults are 3 attempts starting at 500ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	corpus storage.CorpusRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if corpus == nil {
		return nil, ErrCorpusRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		corpus:      corpus,
		embedder:    provider.Embedder(),
		pool:        pool,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// IngestFile loads a corpus JSON file into storage and schedules the new
// items for async embedding. Returns the number of items stored.
// Re-ingesting a file overwrites items in place.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (int, error) {
	items, err := LoadCorpusFile(path)
	if err != nil {
		return 0, err
	}
	return p.Ingest(ctx, items...)
}

// Ingest stores corpus items and schedules them for async embedding.
// Embedding errors are logged, not returned; Backfill retries anything
// left without a vector.
func (p *Pipeline) Ingest(ctx context.Context, items ...*core.CorpusItem) (int, error) {
	added, err := p.corpus.AddCorpusItems(ctx, items...)
	if err != nil {
		return 0, err
	}
	if len(added) == 0 {
		return 0, nil
	}

	for start := 0; start < len(added); start += p.batchSize {
		end := start + p.batchSize
		if end > len(added) {
			end = len(added)
		}
		batch := added[start:end]
		p.pool.Submit(func() {
			if err := p.embedBatch(context.Background(), batch); err != nil {
				p.logger.Error("error embedding ingested items", "items", len(batch), "err", err)
			}
		})
	}

	return len(added), nil
}

// Backfill embeds every corpus item still missing a vector, in batches,
// until none remain. Returns the number of items embedded.
func (p *Pipeline) Backfill(ctx context.Context) (int, error) {
	total := 0
	for {
		batch, err := p.corpus.ListUnembedded(ctx, p.batchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}

		if err := p.embedBatch(ctx, batch); err != nil {
			return total, err
		}
		total += len(batch)
		p.logger.Info("backfilled embeddings", "items", len(batch), "total", total)
	}
}

// embedBatch embeds one batch of items and writes the vectors back.
func (p *Pipeline) embedBatch(ctx context.Context, items []*core.CorpusItem) error {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text()
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return err
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(items), len(embeddings))
	}

	for i := range embeddings {
		items[i].Vector = embeddings[i]
	}

	_, err = p.corpus.UpdateCorpusItems(ctx, items...)
	return err
}

// Release releases the worker pool. Queued embedding work is dropped;
// Backfill recovers anything left unembedded.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
