package profiler

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerReportsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithInterval(time.Hour), WithLogger(log.New(&buf, "", 0)))

	assert.False(t, p.Tick(time.Millisecond))
	assert.Empty(t, buf.String())
	assert.Equal(t, Report{}, p.LastReport())

	// Force the interval to have elapsed.
	p.lastTime = time.Now().Add(-2 * time.Hour)
	assert.True(t, p.Tick(3*time.Millisecond))

	r := p.LastReport()
	assert.Equal(t, 2*time.Millisecond, r.AvgUpdate)
	assert.Equal(t, 3*time.Millisecond, r.MaxUpdate)
	assert.Greater(t, r.TicksPerSecond, 0.0)
	assert.Contains(t, buf.String(), "[Profiler] TPS:")

	// Counters restart after a report.
	assert.False(t, p.Tick(0))
}

func TestProfilerIgnoresInvalidOptions(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.Equal(t, log.Default(), p.logger)
}
