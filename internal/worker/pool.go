// Package worker provides a bounded-concurrency pool for per-product
// tasks such as LLM enrichment.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

// DefaultPoolSize bounds concurrent tasks when no size is configured.
const DefaultPoolSize = 4

// Task processes one product.
type Task func(ctx context.Context, p *domain.Product) error

// Stats summarizes one Process call.
type Stats struct {
	Processed int64
	Succeeded int64
	Failed    int64
}

// Pool runs per-product tasks with bounded concurrency.
type Pool struct {
	size   int
	logger logger.Interface
}

// NewPool creates a pool of the given size.
func NewPool(size int, log logger.Interface) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{
		size:   size,
		logger: log.WithComponent("worker"),
	}
}

// Process applies the task to every product, at most size at a time.
// Failures are counted, not propagated; a canceled context stops
// dispatching new tasks.
func (p *Pool) Process(ctx context.Context, products []*domain.Product, task Task) Stats {
	var (
		stats Stats
		wg    sync.WaitGroup
		sem   = make(chan struct{}, p.size)
	)

	for _, product := range products {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(product *domain.Product) {
			defer wg.Done()
			defer func() { <-sem }()

			atomic.AddInt64(&stats.Processed, 1)
			if err := task(ctx, product); err != nil {
				atomic.AddInt64(&stats.Failed, 1)
				p.logger.Warn("Task failed",
					"product", product.NameOriginal,
					"error", err,
				)
				return
			}
			atomic.AddInt64(&stats.Succeeded, 1)
		}(product)
	}

	wg.Wait()
	return stats
}
