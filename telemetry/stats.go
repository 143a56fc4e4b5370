package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Water       int `csv:"water"`
	Proteins    int `csv:"proteins"`
	Lipids      int `csv:"lipids"`
	DNASegments int `csv:"dna_segments"`
	MRNA        int `csv:"mrna"`
	Polymerases int `csv:"polymerases"`
	Ribosomes   int `csv:"ribosomes"`

	// Events during window
	Binds           int     `csv:"binds"`
	Releases        int     `csv:"releases"`
	Transcripts     int     `csv:"transcripts"`
	Translations    int     `csv:"translations"`
	Collisions      int     `csv:"collisions"`
	RejectedInserts int     `csv:"rejected_inserts"`
	Divisions       int     `csv:"divisions"`
	EnergyConsumed  float64 `csv:"energy_consumed"`
	EnergyAbsorbed  float64 `csv:"energy_absorbed"`

	// Pool and geometry at window end
	EnergyLevel   float64 `csv:"energy_level"`
	CapsuleLength float64 `csv:"capsule_length"`
	OccupiedCells int     `csv:"occupied_cells"`

	// Radial crowding distribution (distance from capsule axis)
	RadialMean float64 `csv:"radial_mean"`
	RadialStd  float64 `csv:"radial_std"`
	RadialP50  float64 `csv:"radial_p50"`
	RadialP90  float64 `csv:"radial_p90"`
}

// RadialStats summarizes the distribution of axis distances. Values are
// consumed (sorted in place).
func RadialStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	sort.Float64s(values)
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	return mean, std, p50, p90
}
