// Package telemetry provides windowed statistics, phase timing, and CSV
// output for simulation runs.
package telemetry

// Collector accumulates events within time windows and feeds WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	windowStartTick int64

	// Event counters for the current window
	binds           int
	releases        int
	transcripts     int
	translations    int
	energyConsumed  float64
	energyAbsorbed  float64
	collisions      int
	rejectedInserts int
	divisions       int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick (used for tick-to-time conversion).
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBind records an enzyme binding a substrate.
func (c *Collector) RecordBind() {
	c.binds++
}

// RecordRelease records an enzyme releasing its substrate.
func (c *Collector) RecordRelease() {
	c.releases++
}

// RecordTranscript records an mRNA emission.
func (c *Collector) RecordTranscript() {
	c.transcripts++
}

// RecordTranslation records a protein emission.
func (c *Collector) RecordTranslation() {
	c.translations++
}

// RecordEnergyConsumed adds to the window's ATP consumption tally.
func (c *Collector) RecordEnergyConsumed(units float64) {
	c.energyConsumed += units
}

// RecordEnergyAbsorbed adds to the window's absorption tally.
func (c *Collector) RecordEnergyAbsorbed(units float64) {
	c.energyAbsorbed += units
}

// RecordCollisions adds resolved contacts for one tick.
func (c *Collector) RecordCollisions(n int) {
	c.collisions += n
}

// RecordRejectedInsert records an insertion refused at capacity.
func (c *Collector) RecordRejectedInsert() {
	c.rejectedInserts++
}

// RecordDivision records a chromosome reset.
func (c *Collector) RecordDivision() {
	c.divisions++
}

// Due reports whether the current window ends at or before tick.
func (c *Collector) Due(tick int64) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush writes the window counters into stats, stamps the window bounds,
// and resets the counters for the next window.
func (c *Collector) Flush(tick int64, stats *WindowStats) {
	stats.WindowStartTick = c.windowStartTick
	stats.WindowEndTick = tick
	stats.SimTimeSec = float64(tick) * float64(c.dt)

	stats.Binds = c.binds
	stats.Releases = c.releases
	stats.Transcripts = c.transcripts
	stats.Translations = c.translations
	stats.EnergyConsumed = c.energyConsumed
	stats.EnergyAbsorbed = c.energyAbsorbed
	stats.Collisions = c.collisions
	stats.RejectedInserts = c.rejectedInserts
	stats.Divisions = c.divisions

	c.binds = 0
	c.releases = 0
	c.transcripts = 0
	c.translations = 0
	c.energyConsumed = 0
	c.energyAbsorbed = 0
	c.collisions = 0
	c.rejectedInserts = 0
	c.divisions = 0
	c.windowStartTick = tick
}
