package analysis

import (
	"math"
	"testing"

	"github.com/flowmable/swatch/internal/colour"
)

func TestGaussian5x5ConstantField(t *testing.T) {
	w, h := 10, 10
	input := make([]float64, w*h)
	for i := range input {
		input[i] = 0.5
	}

	out := gaussian5x5(input, w, h)

	// Interior keeps the constant value; the 2-pixel border is
	// skipped and stays zero.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := out[y*w+x]
			if x < 2 || x >= w-2 || y < 2 || y >= h-2 {
				if v != 0 {
					t.Fatalf("border (%d, %d) = %f, want 0", x, y, v)
				}
				continue
			}
			if math.Abs(v-0.5) > 1e-12 {
				t.Fatalf("interior (%d, %d) = %f, want 0.5", x, y, v)
			}
		}
	}
}

func TestSampleForegroundUnderBudgetReturnsAll(t *testing.T) {
	w, h := 10, 10
	foreground := make([]bool, w*h)
	luminance := make([]float64, w*h)
	labs := make([]colour.Lab, 0, w*h)
	for i := range foreground {
		foreground[i] = true
		labs = append(labs, colour.Lab{L: float64(i)})
	}

	got := sampleForeground(luminance, foreground, labs, w, h, len(labs))
	if len(got) != len(labs) {
		t.Fatalf("sample size = %d, want %d", len(got), len(labs))
	}
	for i := range labs {
		if got[i] != labs[i] {
			t.Fatalf("sample[%d] = %+v, want %+v (row-major order)", i, got[i], labs[i])
		}
	}
}

func TestSampleForegroundCapAndCoverage(t *testing.T) {
	// 150x150 = 22500 foreground pixels, above the cap.
	w, h := 150, 150
	foreground := make([]bool, w*h)
	luminance := make([]float64, w*h)
	labs := make([]colour.Lab, w*h)
	for i := range foreground {
		foreground[i] = true
		x := i % w
		y := i / w
		luminance[i] = float64((x*13+y*7)%64) / 64.0
		labs[i] = colour.Lab{L: float64(x), A: float64(y % 50)}
	}

	got := sampleForeground(luminance, foreground, labs, w, h, w*h)
	if len(got) != maxSampledPixels {
		t.Fatalf("sample size = %d, want %d", len(got), maxSampledPixels)
	}

	// Every sampled Lab must come from the foreground set.
	seen := make(map[colour.Lab]bool, len(labs))
	for _, lab := range labs {
		seen[lab] = true
	}
	for i, lab := range got {
		if !seen[lab] {
			t.Fatalf("sample[%d] = %+v not in foreground", i, lab)
		}
	}

	// Stratified fill keeps spatial coverage: the sample spans the
	// full L range contributed by both left and right image halves.
	var minL, maxL float64 = math.Inf(1), math.Inf(-1)
	for _, lab := range got {
		minL = math.Min(minL, lab.L)
		maxL = math.Max(maxL, lab.L)
	}
	if minL > 15 || maxL < float64(w)-15 {
		t.Errorf("sample L range [%f, %f] lacks spatial coverage", minL, maxL)
	}
}
