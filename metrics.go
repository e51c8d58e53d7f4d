package strkernel

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting kernel metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// A MetricsCollector satisfies both kernel.Observer and gram.Observer, so
// the same collector can be handed to engines and Gram computations.
type MetricsCollector interface {
	// RecordEvaluate is called after each kernel evaluation.
	// hit reports whether the value came from the cache.
	RecordEvaluate(hit bool, duration time.Duration, err error)

	// RecordBind is called after each engine bind.
	RecordBind(numInstances int, err error)

	// RecordReset is called after each cache reset.
	RecordReset()

	// RecordGram is called after each Gram matrix computation.
	RecordGram(rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvaluate(bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordBind(int, error)                     {}
func (NoopMetricsCollector) RecordReset()                              {}
func (NoopMetricsCollector) RecordGram(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe for concurrent use by Gram workers.
type BasicMetricsCollector struct {
	EvaluateCount      atomic.Int64
	EvaluateErrors     atomic.Int64
	EvaluateTotalNanos atomic.Int64
	CacheHits          atomic.Int64
	BindCount          atomic.Int64
	BindErrors         atomic.Int64
	ResetCount         atomic.Int64
	GramCount          atomic.Int64
	GramErrors         atomic.Int64
	GramRows           atomic.Int64
	GramTotalNanos     atomic.Int64
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(hit bool, duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.CacheHits.Add(1)
	}
	if err != nil {
		b.EvaluateErrors.Add(1)
	}
}

// RecordBind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBind(_ int, err error) {
	b.BindCount.Add(1)
	if err != nil {
		b.BindErrors.Add(1)
	}
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset() {
	b.ResetCount.Add(1)
}

// RecordGram implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGram(rows int, duration time.Duration, err error) {
	b.GramCount.Add(1)
	b.GramTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GramErrors.Add(1)
		return
	}
	b.GramRows.Add(int64(rows))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EvaluateCount:    b.EvaluateCount.Load(),
		EvaluateErrors:   b.EvaluateErrors.Load(),
		EvaluateAvgNanos: avg(b.EvaluateTotalNanos.Load(), b.EvaluateCount.Load()),
		CacheHits:        b.CacheHits.Load(),
		BindCount:        b.BindCount.Load(),
		BindErrors:       b.BindErrors.Load(),
		ResetCount:       b.ResetCount.Load(),
		GramCount:        b.GramCount.Load(),
		GramErrors:       b.GramErrors.Load(),
		GramRows:         b.GramRows.Load(),
		GramAvgNanos:     avg(b.GramTotalNanos.Load(), b.GramCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EvaluateCount    int64
	EvaluateErrors   int64
	EvaluateAvgNanos int64
	CacheHits        int64
	BindCount        int64
	BindErrors       int64
	ResetCount       int64
	GramCount        int64
	GramErrors       int64
	GramRows         int64
	GramAvgNanos     int64
}
