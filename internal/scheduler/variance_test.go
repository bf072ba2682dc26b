package scheduler

import (
	"math"
	"testing"
)

func TestVariance(t *testing.T) {
	cases := []struct {
		name     string
		baseline float64
		current  float64
		want     float64
	}{
		{"thirty percent up", 100, 130, 30},
		{"exactly threshold", 100, 125, 25},
		{"unchanged", 100, 100, 0},
		{"halved", 100, 50, -50},
		{"zero baseline", 0, 42, 0},
		{"both zero", 0, 0, 0},
		{"current zero", 100, 0, -100},
		{"tiny prices", 0.0000004, 0.0000005, 25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Variance(c.baseline, c.current)
			if math.Abs(got-c.want) > 1e-9 {
				t.Errorf("Variance(%g, %g) = %g, want %g", c.baseline, c.current, got, c.want)
			}
		})
	}
}

func TestVarianceAvoidsBinaryFloatDrift(t *testing.T) {
	// 0.1 and 0.3 are not exactly representable in binary; the decimal math
	// must still yield an exact 200 percent.
	if got := Variance(0.1, 0.3); got != 200 {
		t.Errorf("Variance(0.1, 0.3) = %v, want exactly 200", got)
	}
}
