package scoring

import (
	"math"
	"testing"

	"github.com/flowmable/swatch/internal/catalog"
)

func TestScoreEmptyCandidateList(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	results, err := e.Score(solidFeatures(255, 255, 255), nil)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestScoreInvalidHexAbortsWholeCall(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	results, err := e.Score(solidFeatures(255, 255, 255), []string{"#000000", "bogus", "#ffffff"})
	if err == nil {
		t.Fatal("Score succeeded with malformed hex, want error")
	}
	if results != nil {
		t.Errorf("partial results returned on parse failure: %v", results)
	}
}

func TestScorePreservesInputOrder(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	hexes := []string{"#A80D27", "#000000", "#FFFFFF", "#7a7f79"}

	results, err := e.Score(solidFeatures(255, 255, 255), hexes)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(results) != len(hexes) {
		t.Fatalf("got %d results, want %d", len(results), len(hexes))
	}

	want := []string{"#a80d27", "#000000", "#ffffff", "#7a7f79"}
	for i, res := range results {
		if res.Hex != want[i] {
			t.Errorf("result %d hex = %q, want %q", i, res.Hex, want[i])
		}
	}
}

func TestScoreFinalScoreBounds(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)

	for _, design := range []struct {
		name    string
		r, g, b uint8
	}{
		{"white", 255, 255, 255},
		{"black", 0, 0, 0},
		{"red", 255, 0, 0},
		{"mid grey", 128, 128, 128},
	} {
		t.Run(design.name, func(t *testing.T) {
			results, err := e.Score(solidFeatures(design.r, design.g, design.b), catalog.Hexes())
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			for _, res := range results {
				if res.FinalScore < 0 || res.FinalScore > 100 {
					t.Errorf("%s: final score %f outside [0, 100]", res.Hex, res.FinalScore)
				}
				if res.P10DeltaE < 0 || res.MinClusterDeltaE < 0 {
					t.Errorf("%s: negative delta diagnostics %+v", res.Hex, res)
				}
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	f := solidFeatures(255, 255, 255)
	hexes := catalog.Hexes()

	first, err := e.Score(f, hexes)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := e.Score(f, hexes)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d results, first returned %d", run, len(again), len(first))
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d result %d differs: %+v vs %+v", run, i, again[i], first[i])
			}
		}
	}
}

func TestScoreVarianceGuard(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	results, err := e.Score(solidFeatures(255, 255, 255), catalog.Hexes())
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	rawStd := stdDevOf(results, func(r EvaluationResult) float64 { return r.RawScore })
	finalStd := stdDevOf(results, func(r EvaluationResult) float64 { return r.FinalScore })

	guard := DefaultThresholds().PerDesignVarianceGuard
	if finalStd > rawStd*guard+1e-6 {
		t.Errorf("final stddev %f exceeds raw stddev %f * %f", finalStd, rawStd, guard)
	}
}

func TestScorePromotionDriftOnPolarSlate(t *testing.T) {
	// A slate with no candidates near the promotion floor cannot
	// drift.
	hexes := []string{
		"#000000", "#0a0a0a", "#141414", "#1e1e1e",
		"#282828", "#323232", "#f5f5f5", "#ffffff",
	}
	thresholds := DefaultThresholds()
	e := NewEngine(thresholds, nil)

	results, err := e.Score(solidFeatures(255, 255, 255), hexes)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	rawPromoted, finalPromoted := 0, 0
	for _, res := range results {
		if res.RawScore >= thresholds.GoodFloor {
			rawPromoted++
		}
		if res.Suitability == Promoted {
			finalPromoted++
		}
	}

	drift := math.Abs(float64(finalPromoted)-float64(rawPromoted)) / float64(len(hexes))
	if drift > thresholds.PromotionDriftGuard {
		t.Errorf("promotion drift %f exceeds guard %f", drift, thresholds.PromotionDriftGuard)
	}
}

func TestScoreClassificationConsistency(t *testing.T) {
	thresholds := DefaultThresholds()
	e := NewEngine(thresholds, nil)

	results, err := e.Score(solidFeatures(255, 255, 255), catalog.Hexes())
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	for _, res := range results {
		tailStrong := res.P10DeltaE >= thresholds.TailVetoFloor
		switch res.Suitability {
		case Promoted:
			if res.FinalScore < thresholds.GoodFloor || !tailStrong {
				t.Errorf("%s promoted with final %f, p10 %f", res.Hex, res.FinalScore, res.P10DeltaE)
			}
		case Passed:
			if res.FinalScore < thresholds.BorderlineFloor {
				t.Errorf("%s passed with final %f below borderline floor", res.Hex, res.FinalScore)
			}
		case Rejected:
			if res.FinalScore >= thresholds.GoodFloor && tailStrong {
				t.Errorf("%s rejected with final %f and strong tail", res.Hex, res.FinalScore)
			}
		}
	}
}

func TestScoreDegenerateDesign(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	degenerate := solidFeatures(255, 255, 255)
	degenerate.DominantColors = nil
	degenerate.ForegroundLab = nil
	degenerate.ForegroundPixels = 0
	degenerate.TransparencyRatio = 1

	results, err := e.Score(degenerate, catalog.Hexes())
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for _, res := range results {
		if res.Suitability != Rejected {
			t.Errorf("%s: suitability = %v, want REJECTED", res.Hex, res.Suitability)
		}
		if res.OverrideReason != OverrideDegenerate {
			t.Errorf("%s: override reason = %q, want %q", res.Hex, res.OverrideReason, OverrideDegenerate)
		}
		if res.FinalScore != 0 {
			t.Errorf("%s: final score = %f, want 0", res.Hex, res.FinalScore)
		}
	}
}

func TestResultsGet(t *testing.T) {
	e := NewEngine(DefaultThresholds(), nil)
	results, err := e.Score(solidFeatures(0, 0, 0), []string{"#FFFFFF", "#000000"})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	res, ok := results.Get("#ffffff")
	if !ok {
		t.Fatal("Get(#ffffff) not found")
	}
	if res.Hex != "#ffffff" {
		t.Errorf("hex = %q, want #ffffff", res.Hex)
	}

	// Raw-form lookup canonicalises before matching.
	if _, ok := results.Get("FFFFFF"); !ok {
		t.Error("Get(FFFFFF) not found, want canonical match")
	}

	if _, ok := results.Get("#123456"); ok {
		t.Error("Get(#123456) found, want miss")
	}
}

func stdDevOf(results Results, key func(EvaluationResult) float64) float64 {
	n := float64(len(results))
	sum := 0.0
	for _, res := range results {
		sum += key(res)
	}
	mean := sum / n

	sq := 0.0
	for _, res := range results {
		d := key(res) - mean
		sq += d * d
	}
	return math.Sqrt(sq / n)
}
