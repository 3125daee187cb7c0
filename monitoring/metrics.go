// Package monitoring provides a small in-process metrics collector.
package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// Collector accumulates named counters. It is safe for concurrent use.
type Collector struct {
	mu       sync.RWMutex
	counters map[string]int64

	startTime time.Time
}

// Snapshot is a point-in-time view of the collector.
type Snapshot struct {
	Counters      map[string]int64 `json:"counters"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	Goroutines    int              `json:"goroutines"`
	HeapAllocKB   uint64           `json:"heap_alloc_kb"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]int64),
		startTime: time.Now(),
	}
}

// Inc increments the named counter by one.
func (c *Collector) Inc(name string) {
	c.Add(name, 1)
}

// Add increments the named counter by delta.
func (c *Collector) Add(name string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

// Count returns the current value of the named counter.
func (c *Collector) Count(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// Snapshot copies the current counters together with runtime stats.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	counters := make(map[string]int64, len(c.counters))
	for name, value := range c.counters {
		counters[name] = value
	}
	c.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Snapshot{
		Counters:      counters,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocKB:   mem.HeapAlloc / 1024,
		Timestamp:     time.Now(),
	}
}
