package profiler

import (
	"log"
	"runtime"
	"time"
)

// Report is one interval's worth of statistics.
type Report struct {
	// TicksPerSecond is the number of ticks per second over the interval.
	TicksPerSecond float64
	// AvgUpdate is the mean cost of the work measured per tick.
	AvgUpdate time.Duration
	// MaxUpdate is the slowest tick of the interval.
	MaxUpdate time.Duration
	// HeapMB is the live heap in megabytes.
	HeapMB float64
	// AllocRateMB is the allocation rate in megabytes per second.
	AllocRateMB float64
	// GCCount is the cumulative number of GC cycles.
	GCCount uint32
}

// Profiler tracks tick rate, update cost and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	logger         *log.Logger
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	updateTotal    time.Duration
	updateMax      time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	last           Report
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged. Defaults to 1 second.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger statistics are written to. Defaults to log.Default().
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler with the given options.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         log.Default(),
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per engine tick with the time the tick's update work took.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - updateCost: how long the tick's update took
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(updateCost time.Duration) bool {
	p.tickCount++
	p.updateTotal += updateCost
	if updateCost > p.updateMax {
		p.updateMax = updateCost
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	p.last = Report{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		AvgUpdate:      p.updateTotal / time.Duration(p.tickCount),
		MaxUpdate:      p.updateMax,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        p.memStats.NumGC,
	}

	p.logger.Printf("[Profiler] TPS: %.2f | Update: avg %v, max %v | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		p.last.TicksPerSecond, p.last.AvgUpdate, p.last.MaxUpdate, p.last.HeapMB, p.last.AllocRateMB, p.last.GCCount)

	p.tickCount = 0
	p.updateTotal = 0
	p.updateMax = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// LastReport returns the statistics logged by the most recent reporting Tick.
//
// Returns:
//   - Report: the last report, zero before the first one
func (p *Profiler) LastReport() Report {
	return p.last
}
