// Package metrics provides in-process counters for scan runs.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds counters for a single scan run.
type Metrics struct {
	// ProcessedCount is the number of products processed.
	ProcessedCount int64
	// ErrorCount is the number of products that failed extraction or scoring.
	ErrorCount int64
	// NewProducts is the number of products seen for the first time.
	NewProducts int64
	// UpdatedProducts is the number of previously known products refreshed.
	UpdatedProducts int64
	// SuccessfulRequests is the number of successful HTTP requests.
	SuccessfulRequests int64
	// FailedRequests is the number of failed HTTP requests.
	FailedRequests int64
	// LastProcessedTime is the time of the last successful processing.
	LastProcessedTime time.Time
	// StartTime is when the run began.
	StartTime time.Time
	// CurrentSource is the source currently being scraped.
	CurrentSource string
	mu            sync.Mutex
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// GetStartTime returns the time when the run began.
func (m *Metrics) GetStartTime() time.Time {
	return m.StartTime
}

// UpdateMetrics records one processed product.
func (m *Metrics) UpdateMetrics(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessedCount++
	if !success {
		m.ErrorCount++
	} else {
		m.LastProcessedTime = time.Now()
	}
}

// RecordRequest records the outcome of one HTTP request.
func (m *Metrics) RecordRequest(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
	}
}

// RecordProduct records whether a persisted product was new or an update
// of an existing row.
func (m *Metrics) RecordProduct(isNew bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isNew {
		m.NewProducts++
	} else {
		m.UpdatedProducts++
	}
}

// GetProcessedCount returns the number of products processed.
func (m *Metrics) GetProcessedCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ProcessedCount
}

// GetErrorCount returns the number of processing errors.
func (m *Metrics) GetErrorCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ErrorCount
}

// GetNewProducts returns the number of newly detected products.
func (m *Metrics) GetNewProducts() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NewProducts
}

// GetUpdatedProducts returns the number of refreshed products.
func (m *Metrics) GetUpdatedProducts() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UpdatedProducts
}

// GetSuccessfulRequests returns the number of successful requests.
func (m *Metrics) GetSuccessfulRequests() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SuccessfulRequests
}

// GetFailedRequests returns the number of failed requests.
func (m *Metrics) GetFailedRequests() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FailedRequests
}

// GetLastProcessedTime returns the time of the last successful processing.
func (m *Metrics) GetLastProcessedTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastProcessedTime
}

// SetCurrentSource sets the source currently being scraped.
func (m *Metrics) SetCurrentSource(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentSource = source
}

// GetCurrentSource returns the source currently being scraped.
func (m *Metrics) GetCurrentSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentSource
}

// Reset clears all counters and restarts the clock.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessedCount = 0
	m.ErrorCount = 0
	m.NewProducts = 0
	m.UpdatedProducts = 0
	m.SuccessfulRequests = 0
	m.FailedRequests = 0
	m.LastProcessedTime = time.Time{}
	m.StartTime = time.Now()
	m.CurrentSource = ""
}
