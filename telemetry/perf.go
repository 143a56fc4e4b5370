package telemetry

import (
	"sort"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseIntegrate  = "integrate"
	PhaseConstraint = "constraints"
	PhaseConfine    = "confine"
	PhaseSpatial    = "spatial"
	PhaseCollision  = "collision"
	PhaseReactions  = "reactions"
	PhaseEnergy     = "energy"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g. 60 for 1 second at 60Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration
		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}
		for name, d := range s.Phases {
			phaseSum[name] += d
		}
	}

	n := time.Duration(p.sampleCount)
	avg := totalTick / n

	stats := PerfStats{
		AvgTickDuration: avg,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		PhaseAvg:        make(map[string]time.Duration, len(phaseSum)),
		PhasePct:        make(map[string]float64, len(phaseSum)),
	}
	for name, sum := range phaseSum {
		stats.PhaseAvg[name] = sum / n
		if avg > 0 {
			stats.PhasePct[name] = float64(sum/n) / float64(avg) * 100
		}
	}
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(avg)
	}
	return stats
}

// SortedPhases returns the phase names in descending average-duration order.
func (s PerfStats) SortedPhases() []string {
	names := make([]string, 0, len(s.PhaseAvg))
	for name := range s.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.PhaseAvg[names[i]] > s.PhaseAvg[names[j]]
	})
	return names
}

// ToCSV flattens the stats into a fixed-column CSV record.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickMicros:  s.AvgTickDuration.Microseconds(),
		MinTickMicros:  s.MinTickDuration.Microseconds(),
		MaxTickMicros:  s.MaxTickDuration.Microseconds(),
		TicksPerSecond: s.TicksPerSecond,

		IntegrateMicros:  s.PhaseAvg[PhaseIntegrate].Microseconds(),
		ConstraintMicros: s.PhaseAvg[PhaseConstraint].Microseconds(),
		ConfineMicros:    s.PhaseAvg[PhaseConfine].Microseconds(),
		SpatialMicros:    s.PhaseAvg[PhaseSpatial].Microseconds(),
		CollisionMicros:  s.PhaseAvg[PhaseCollision].Microseconds(),
		ReactionsMicros:  s.PhaseAvg[PhaseReactions].Microseconds(),
		EnergyMicros:     s.PhaseAvg[PhaseEnergy].Microseconds(),
	}
}

// PerfStatsCSV is the flattened CSV form of PerfStats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickMicros  int64   `csv:"avg_tick_us"`
	MinTickMicros  int64   `csv:"min_tick_us"`
	MaxTickMicros  int64   `csv:"max_tick_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`

	IntegrateMicros  int64 `csv:"integrate_us"`
	ConstraintMicros int64 `csv:"constraints_us"`
	ConfineMicros    int64 `csv:"confine_us"`
	SpatialMicros    int64 `csv:"spatial_us"`
	CollisionMicros  int64 `csv:"collision_us"`
	ReactionsMicros  int64 `csv:"reactions_us"`
	EnergyMicros     int64 `csv:"energy_us"`
}
