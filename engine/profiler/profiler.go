// Package profiler samples frame rate and memory statistics and reports them through the
// structured logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/lumen/common"
)

// Stats is one profiler sample covering the frames since the previous sample.
type Stats struct {
	Frames int
	// FPS is frames per second over the sample.
	FPS float64
	// SPF is the mean seconds per frame over the sample.
	SPF float64
	// HeapMB is the live heap in MiB.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in MiB per second.
	AllocRateMB float64
	// SysMB is the memory obtained from the OS in MiB.
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how much time a sample covers. Defaults to one second.
//
// Parameters:
//   - interval: the sample length
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithClock replaces time.Now, letting callers drive the profiler with a fake clock.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option to a profiler
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogging enables or disables the log line written for every sample. Enabled by default.
func WithLogging(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logging = enabled
	}
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Not safe for concurrent use; tick it from the render goroutine.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	logging        bool
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - opts: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logging:        true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Once the update interval has elapsed it samples the memory statistics, logs them at
// info level and starts a new sample.
//
// Returns:
//   - Stats: the finished sample, zero if none finished this tick
//   - bool: true if a sample finished this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	seconds := elapsed.Seconds()
	s := Stats{
		Frames:      p.frameCount,
		FPS:         float64(p.frameCount) / seconds,
		SPF:         seconds / float64(p.frameCount),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:     p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses.
	if s.GCCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if s.GCCount-start > 256 {
			start = s.GCCount - 256
		}
		for i := start; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	if p.logging {
		common.Logger().Info("profiler: frame stats",
			"fps", s.FPS,
			"spf", s.SPF,
			"heap_mb", s.HeapMB,
			"alloc_rate_mb", s.AllocRateMB,
			"gc", s.GCCount,
			"gc_last_us", s.LastPauseUs,
			"gc_max_us", s.MaxPauseUs,
			"sys_mb", s.SysMB)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return s, true
}

// Last returns the most recent finished sample.
func (p *Profiler) Last() Stats {
	return p.last
}
