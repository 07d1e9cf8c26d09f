package fastvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting buffer and snapshot metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    reallocCounter  prometheus.Counter
//	    bufferBytes     prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) RecordRealloc(oldCap, newCap int, storage string, d time.Duration) {
//	    p.reallocCounter.Inc()
//	    // ... record capacity delta, duration, etc.
//	}
//
// A collector may be shared by many vectors, so implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordRealloc is called after every buffer (re)allocation of a growing or shrinking vector.
	RecordRealloc(oldCap, newCap int, storage string, duration time.Duration)

	// RecordRelease is called when a vector frees its buffer.
	RecordRelease(capacity int, storage string)

	// RecordEncode is called after each snapshot write.
	// bytes is the number of bytes written, err is nil if successful.
	RecordEncode(bytes int64, duration time.Duration, err error)

	// RecordDecode is called after each snapshot read.
	RecordDecode(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRealloc(int, int, string, time.Duration) {}
func (NoopMetricsCollector) RecordRelease(int, string)                     {}
func (NoopMetricsCollector) RecordEncode(int64, time.Duration, error)      {}
func (NoopMetricsCollector) RecordDecode(int64, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and for tuning initial capacities.
type BasicMetricsCollector struct {
	ReallocCount      atomic.Int64
	ReallocTotalNanos atomic.Int64
	SlotsAllocated    atomic.Int64
	ReleaseCount      atomic.Int64
	EncodeCount       atomic.Int64
	EncodeErrors      atomic.Int64
	EncodeBytes       atomic.Int64
	DecodeCount       atomic.Int64
	DecodeErrors      atomic.Int64
	DecodeBytes       atomic.Int64
}

// RecordRealloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRealloc(oldCap, newCap int, _ string, duration time.Duration) {
	b.ReallocCount.Add(1)
	b.ReallocTotalNanos.Add(duration.Nanoseconds())
	if newCap > oldCap {
		b.SlotsAllocated.Add(int64(newCap - oldCap))
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(int, string) {
	b.ReleaseCount.Add(1)
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(bytes int64, _ time.Duration, err error) {
	b.EncodeCount.Add(1)
	b.EncodeBytes.Add(bytes)
	if err != nil {
		b.EncodeErrors.Add(1)
	}
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(bytes int64, _ time.Duration, err error) {
	b.DecodeCount.Add(1)
	b.DecodeBytes.Add(bytes)
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReallocCount:    b.ReallocCount.Load(),
		ReallocAvgNanos: b.getAvgReallocNanos(),
		SlotsAllocated:  b.SlotsAllocated.Load(),
		ReleaseCount:    b.ReleaseCount.Load(),
		EncodeCount:     b.EncodeCount.Load(),
		EncodeErrors:    b.EncodeErrors.Load(),
		EncodeBytes:     b.EncodeBytes.Load(),
		DecodeCount:     b.DecodeCount.Load(),
		DecodeErrors:    b.DecodeErrors.Load(),
		DecodeBytes:     b.DecodeBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgReallocNanos() int64 {
	count := b.ReallocCount.Load()
	if count == 0 {
		return 0
	}
	return b.ReallocTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReallocCount    int64
	ReallocAvgNanos int64
	SlotsAllocated  int64
	ReleaseCount    int64
	EncodeCount     int64
	EncodeErrors    int64
	EncodeBytes     int64
	DecodeCount     int64
	DecodeErrors    int64
	DecodeBytes     int64
}
