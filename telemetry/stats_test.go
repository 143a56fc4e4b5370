package telemetry

import (
	"math"
	"testing"
)

func TestRadialStats(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	mean, std, p50, p90 := RadialStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample standard deviation of 1..10.
	if math.Abs(std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", std)
	}
	if p50 != 5 {
		t.Errorf("p50 = %v, want 5", p50)
	}
	if p90 != 9 {
		t.Errorf("p90 = %v, want 9", p90)
	}
}

func TestRadialStatsEmpty(t *testing.T) {
	mean, std, p50, p90 := RadialStats(nil)
	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("RadialStats(nil) = %v, %v, %v, %v, want all zero", mean, std, p50, p90)
	}
}

func TestRadialStatsSingle(t *testing.T) {
	mean, std, p50, p90 := RadialStats([]float64{2.5})
	if mean != 2.5 {
		t.Errorf("mean = %v, want 2.5", mean)
	}
	if std != 0 {
		t.Errorf("std = %v, want 0", std)
	}
	if p50 != 2.5 || p90 != 2.5 {
		t.Errorf("quantiles = %v, %v, want 2.5", p50, p90)
	}
}

func TestRadialStatsUnsortedInput(t *testing.T) {
	_, _, p50, _ := RadialStats([]float64{9, 1, 5, 3, 7})
	if p50 != 5 {
		t.Errorf("p50 of unsorted input = %v, want 5", p50)
	}
}
