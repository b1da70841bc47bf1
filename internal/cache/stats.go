package cache

import "time"

// Statistics is the point-in-time snapshot returned by Engine.Stats.
// Counters are monotonic non-decreasing for the engine's lifetime;
// current_size/current_bytes are running totals that track the store
// directly.
type Statistics struct {
	Hits         uint64
	Misses       uint64
	Sets         uint64
	Deletes      uint64
	Evictions    uint64
	Expirations  uint64
	CurrentSize  int
	CurrentBytes int
	StartTime    time.Time
}

// HitRatio returns hits / (hits + misses), or 0 if there have been no
// lookups yet.
func (s Statistics) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Uptime returns the duration since the engine started.
func (s Statistics) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// MemoryUsageMB returns current_bytes expressed in mebibytes.
func (s Statistics) MemoryUsageMB() float64 {
	return float64(s.CurrentBytes) / (1 << 20)
}

// stats holds the counters the Engine mutates inside its single mutation
// region, one increment per operation outcome. It is not safe for
// concurrent use on its own — callers must already hold the Engine's lock.
type stats struct {
	hits        uint64
	misses      uint64
	sets        uint64
	deletes     uint64
	evictions   uint64
	expirations uint64
	startTime   time.Time
}

func newStats() *stats {
	return &stats{startTime: time.Now()}
}

func (s *stats) snapshot(currentSize, currentBytes int) Statistics {
	return Statistics{
		Hits:         s.hits,
		Misses:       s.misses,
		Sets:         s.sets,
		Deletes:      s.deletes,
		Evictions:    s.evictions,
		Expirations:  s.expirations,
		CurrentSize:  currentSize,
		CurrentBytes: currentBytes,
		StartTime:    s.startTime,
	}
}
