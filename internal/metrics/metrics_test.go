package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/trendradar/internal/metrics"
)

func TestUpdateMetrics(t *testing.T) {
	m := metrics.NewMetrics()

	m.UpdateMetrics(true)
	m.UpdateMetrics(true)
	m.UpdateMetrics(false)

	assert.Equal(t, int64(3), m.GetProcessedCount())
	assert.Equal(t, int64(1), m.GetErrorCount())
	assert.False(t, m.GetLastProcessedTime().IsZero())
}

func TestRecordRequest(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordRequest(true)
	m.RecordRequest(false)
	m.RecordRequest(false)

	assert.Equal(t, int64(1), m.GetSuccessfulRequests())
	assert.Equal(t, int64(2), m.GetFailedRequests())
}

func TestRecordProduct(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordProduct(true)
	m.RecordProduct(true)
	m.RecordProduct(false)

	assert.Equal(t, int64(2), m.GetNewProducts())
	assert.Equal(t, int64(1), m.GetUpdatedProducts())
}

func TestReset(t *testing.T) {
	m := metrics.NewMetrics()
	m.UpdateMetrics(true)
	m.RecordRequest(true)
	m.RecordProduct(true)
	m.SetCurrentSource("tiktok-trending")

	m.Reset()

	assert.Equal(t, int64(0), m.GetProcessedCount())
	assert.Equal(t, int64(0), m.GetSuccessfulRequests())
	assert.Equal(t, int64(0), m.GetNewProducts())
	assert.Empty(t, m.GetCurrentSource())
}

func TestConcurrentUpdates(t *testing.T) {
	m := metrics.NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.UpdateMetrics(true)
			m.RecordRequest(true)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.GetProcessedCount())
	assert.Equal(t, int64(50), m.GetSuccessfulRequests())
}
