// Package monitor keeps lock-free counters and timers for long-running
// commands, such as the research API and the directory watcher.
package monitor

import (
	"math"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe monotonically increasing count
type Counter struct {
	value atomic.Int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Name returns the counter name
func (c *Counter) Name() string {
	return c.name
}

// Gauge is a thread-safe value that can go up and down, e.g. requests in flight
type Gauge struct {
	value atomic.Int64
	name  string
}

// NewGauge creates a new gauge metric
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

// Inc increments the gauge by 1
func (g *Gauge) Inc() {
	g.value.Add(1)
}

// Dec decrements the gauge by 1
func (g *Gauge) Dec() {
	g.value.Add(-1)
}

// Get returns the current gauge value
func (g *Gauge) Get() int64 {
	return g.value.Load()
}

// Name returns the gauge name
func (g *Gauge) Name() string {
	return g.name
}

const noMin = math.MaxInt64

// Timer accumulates durations and tracks min, max and mean
type Timer struct {
	count atomic.Int64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
	name  string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	t := &Timer{name: name}
	t.min.Store(noMin)
	return t
}

// Record records a duration measurement
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()
	t.count.Add(1)
	t.total.Add(nanos)

	for {
		cur := t.min.Load()
		if nanos >= cur || t.min.CompareAndSwap(cur, nanos) {
			break
		}
	}
	for {
		cur := t.max.Load()
		if nanos <= cur || t.max.CompareAndSwap(cur, nanos) {
			break
		}
	}
}

// Since records the time elapsed since start
func (t *Timer) Since(start time.Time) {
	t.Record(time.Since(start))
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return t.count.Load()
}

// Min returns the shortest recorded duration, or 0
func (t *Timer) Min() time.Duration {
	if v := t.min.Load(); v != noMin {
		return time.Duration(v)
	}
	return 0
}

// Max returns the longest recorded duration
func (t *Timer) Max() time.Duration {
	return time.Duration(t.max.Load())
}

// Avg returns the mean recorded duration, or 0
func (t *Timer) Avg() time.Duration {
	n := t.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / n)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}
