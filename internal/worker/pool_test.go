package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/worker"
)

func products(n int) []*domain.Product {
	out := make([]*domain.Product, n)
	for i := range out {
		out[i] = &domain.Product{NameOriginal: fmt.Sprintf("product-%d", i)}
	}
	return out
}

func TestProcess(t *testing.T) {
	pool := worker.NewPool(4, logger.NewNoOp())

	var mu sync.Mutex
	seen := make(map[string]bool)
	stats := pool.Process(context.Background(), products(20), func(_ context.Context, p *domain.Product) error {
		mu.Lock()
		seen[p.NameOriginal] = true
		mu.Unlock()
		return nil
	})

	assert.Equal(t, int64(20), stats.Processed)
	assert.Equal(t, int64(20), stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Len(t, seen, 20)
}

func TestProcess_CountsFailures(t *testing.T) {
	pool := worker.NewPool(2, logger.NewNoOp())

	stats := pool.Process(context.Background(), products(10), func(_ context.Context, p *domain.Product) error {
		if p.NameOriginal == "product-3" || p.NameOriginal == "product-7" {
			return errors.New("model timeout")
		}
		return nil
	})

	assert.Equal(t, int64(10), stats.Processed)
	assert.Equal(t, int64(8), stats.Succeeded)
	assert.Equal(t, int64(2), stats.Failed)
}

func TestProcess_BoundedConcurrency(t *testing.T) {
	const size = 3
	pool := worker.NewPool(size, logger.NewNoOp())

	var current, peak int64
	stats := pool.Process(context.Background(), products(30), func(context.Context, *domain.Product) error {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&current, -1)
		return nil
	})

	assert.Equal(t, int64(30), stats.Processed)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(size))
}

func TestProcess_CanceledContextStopsDispatch(t *testing.T) {
	pool := worker.NewPool(1, logger.NewNoOp())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := pool.Process(ctx, products(10), func(context.Context, *domain.Product) error {
		return nil
	})
	assert.Zero(t, stats.Processed)
}

func TestNewPool_DefaultSize(t *testing.T) {
	pool := worker.NewPool(0, logger.NewNoOp())
	stats := pool.Process(context.Background(), products(5), func(context.Context, *domain.Product) error {
		return nil
	})
	assert.Equal(t, int64(5), stats.Processed)
}
