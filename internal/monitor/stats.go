package monitor

import "time"

// Stats counts analyses handled by one process
type Stats struct {
	started time.Time

	Requests  *Counter
	Completed *Counter
	Rejected  *Counter
	Failed    *Counter
	InFlight  *Gauge
	Latency   *Timer
}

// NewStats creates an empty set of analysis stats
func NewStats() *Stats {
	return &Stats{
		started:   time.Now(),
		Requests:  NewCounter("requests"),
		Completed: NewCounter("completed"),
		Rejected:  NewCounter("rejected"),
		Failed:    NewCounter("failed"),
		InFlight:  NewGauge("in_flight"),
		Latency:   NewTimer("latency"),
	}
}

// Track marks one analysis as started and returns the func that ends it.
// The returned func records latency and exactly one outcome: completed
// when err is nil, rejected when rejected is true, failed otherwise.
func (s *Stats) Track() func(err error, rejected bool) {
	start := time.Now()
	s.Requests.Inc()
	s.InFlight.Inc()
	return func(err error, rejected bool) {
		s.InFlight.Dec()
		s.Latency.Since(start)
		switch {
		case err == nil:
			s.Completed.Inc()
		case rejected:
			s.Rejected.Inc()
		default:
			s.Failed.Inc()
		}
	}
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	Uptime    string `json:"uptime"`
	Requests  int64  `json:"requests"`
	Completed int64  `json:"completed"`
	Rejected  int64  `json:"rejected"`
	Failed    int64  `json:"failed"`
	InFlight  int64  `json:"in_flight"`
	AvgMillis int64  `json:"avg_latency_ms"`
	MaxMillis int64  `json:"max_latency_ms"`
}

// Snapshot copies the current values
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Requests:  s.Requests.Get(),
		Completed: s.Completed.Get(),
		Rejected:  s.Rejected.Get(),
		Failed:    s.Failed.Get(),
		InFlight:  s.InFlight.Get(),
		AvgMillis: s.Latency.Avg().Milliseconds(),
		MaxMillis: s.Latency.Max().Milliseconds(),
	}
}
