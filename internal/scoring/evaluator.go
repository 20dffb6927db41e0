package scoring

import (
	"fmt"
	"math"

	"github.com/flowmable/swatch/internal/analysis"
	"github.com/flowmable/swatch/internal/colour"
)

// defaultRewardBudget is used by EvaluateOne, where no candidate
// distribution exists to derive a budget from.
const defaultRewardBudget = 6.0

// Evaluator scores one background colour against a design's features.
// The zero value is not usable; construct with NewEvaluator.
type Evaluator struct {
	thresholds Thresholds

	// overrides maps canonical hex ("#rrggbb") to a market weight that
	// replaces the formula output for that colour.
	overrides map[string]float64
}

// NewEvaluator creates an Evaluator with the given thresholds and
// optional per-hex market overrides (may be nil).
func NewEvaluator(t Thresholds, overrides map[string]float64) *Evaluator {
	return &Evaluator{thresholds: t, overrides: overrides}
}

// EvaluateRaw computes the physics-only score of one background against
// the design. Returns an error only for malformed hex input.
func (e *Evaluator) EvaluateRaw(f *analysis.Features, hex string) (RawScore, error) {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return RawScore{}, fmt.Errorf("background colour: %w", err)
	}

	bgLab := rgb.Lab()
	raw := RawScore{
		BgLab:      bgLab,
		BgChroma:   bgLab.Chroma(),
		BgHue:      bgLab.Hue(),
		MinHueDist: 180,
	}

	// Cluster deltas in dominant order (weight descending, fixed).
	var weightSum, weightedDelta float64
	minCluster := math.Inf(1)
	for _, dc := range f.DominantColors {
		delta := colour.CIEDE2000(dc.Lab, bgLab)
		weightSum += dc.Weight
		weightedDelta += dc.Weight * delta
		if delta < minCluster {
			minCluster = delta
		}
		if dist := colour.HueDistance(dc.Lab.Hue(), raw.BgHue); dist < raw.MinHueDist {
			raw.MinHueDist = dist
		}
	}
	if len(f.DominantColors) == 0 {
		raw.MinClusterDeltaE = 0
		raw.WeightedMeanDeltaE = 0
	} else {
		raw.MinClusterDeltaE = minCluster
		raw.WeightedMeanDeltaE = weightedDelta / weightSum
	}

	raw.P10DeltaE = e.p10Delta(f, bgLab, raw.MinClusterDeltaE)

	// Design resistance and the fragility curve.
	rDarkness := 1.0 - f.NearWhiteRatio
	rStructure := f.EdgeDensity
	rSolidity := 1.0 - f.TransparencyRatio
	resistance := clamp(0.55*rDarkness+0.15*rStructure+0.30*rSolidity, 0, 1)
	raw.Fragility = math.Pow(1.0-resistance, 2.2)

	fragilityBoost := 1.0 + 0.6*raw.Fragility
	if fragilityBoost > 1.6 {
		fragilityBoost = 1.6
	}

	raw.RawContrast = 0.45*raw.WeightedMeanDeltaE +
		0.30*raw.P10DeltaE*fragilityBoost +
		0.20*raw.MinClusterDeltaE

	// Small foregrounds earn less trust in their contrast energy.
	if f.TotalPixels > 0 && float64(f.ForegroundPixels)/float64(f.TotalPixels) < 0.15 {
		raw.RawContrast *= 0.85
	}

	tonalGate := e.thresholds.TailVetoFloor * e.thresholds.TonalTriggerRatio
	if raw.MinHueDist < 15 && raw.MinClusterDeltaE < 25 && raw.P10DeltaE < tonalGate {
		raw.TonalPenalty = -8
	}

	lumGap := math.Abs(bgLab.L - f.ForegroundMeanL)
	if raw.MinHueDist >= 160 && raw.MinHueDist <= 200 &&
		lumGap < 30 &&
		raw.BgChroma > e.thresholds.VibrationChromaRatio*f.ForegroundP75Chroma &&
		f.ForegroundP75Chroma > 15 {
		raw.VibrationPenalty = -5
	}

	return raw, nil
}

// p10Delta computes the 10th-percentile pixel delta-E against the
// background. Small samples are blended toward the cluster minimum to
// keep the tail statistic stable.
func (e *Evaluator) p10Delta(f *analysis.Features, bgLab colour.Lab, minCluster float64) float64 {
	m := len(f.ForegroundLab)
	if m == 0 {
		return minCluster
	}

	deltas := make([]float64, m)
	for i, lab := range f.ForegroundLab {
		deltas[i] = colour.CIEDE2000(lab, bgLab)
	}

	k := int(float64(m) * 0.10)
	p10 := selectKth(deltas, k)

	if m < 200 {
		blend := float64(m) / 200.0
		return blend*p10 + (1-blend)*minCluster
	}
	return p10
}

// evaluateFinal applies the aesthetic and commercial layers to a raw
// score under the given reward budget and aesthetic scale.
func (e *Evaluator) evaluateFinal(raw RawScore, f *analysis.Features, hex string, rewardBudget, aestheticScale float64) EvaluationResult {
	canonical := canonicalHex(hex)

	if f.Degenerate() {
		return EvaluationResult{
			Hex:            canonical,
			Suitability:    Rejected,
			OverrideReason: OverrideDegenerate,
		}
	}

	t := e.thresholds

	// Harmony only rewards candidates that triggered no penalty.
	harmony := 0.0
	if raw.TonalPenalty == 0 && raw.VibrationPenalty == 0 {
		hueFactor := math.Exp(-(raw.MinHueDist / t.HarmonySigma) * (raw.MinHueDist / t.HarmonySigma))
		confidence := math.Min(1, raw.RawContrast/60)
		harmony = 4 * hueFactor * confidence
	}

	outline := 0.0
	if raw.BgLab.L < 15 {
		outline = math.Min(3.5, 10*f.WhiteBlackEdgeRatio)
	}

	chromaRisk := math.Exp(-(raw.BgChroma / 12) * (raw.BgChroma / 12))
	lRisk := math.Exp(-((raw.BgLab.L - 60) / 30) * ((raw.BgLab.L - 60) / 30))
	normP10 := math.Min(1, raw.P10DeltaE/50)
	flatness := -t.FlatnessPenaltyScale * chromaRisk * lRisk * (1 - normP10)

	weight, ok := e.overrides[canonical]
	if !ok {
		weight = marketWeight(raw.BgLab)
	}
	market := 2 * weight

	// Harmony and market both reward hue affinity; halve the market
	// term when harmony already dominates.
	if harmony > 2 {
		market *= 0.5
	}

	positives := harmony + outline + math.Max(0, market)
	if positives > rewardBudget && positives > 0 {
		ratio := rewardBudget / positives
		harmony *= ratio
		outline *= ratio
		if market > 0 {
			market *= ratio
		}
	}

	aestheticTotal := (harmony + outline + flatness) * aestheticScale
	netRaw := raw.NetRaw()
	final := clamp(netRaw+aestheticTotal+market, 0, 100)

	tailStrong := raw.P10DeltaE >= t.TailVetoFloor
	var suitability Suitability
	switch {
	case final >= t.GoodFloor && tailStrong:
		suitability = Promoted
	case final >= t.GoodFloor:
		suitability = Passed
	case final >= t.BorderlineFloor && tailStrong:
		suitability = Passed
	default:
		suitability = Rejected
	}

	return EvaluationResult{
		Hex:              canonical,
		P10DeltaE:        raw.P10DeltaE,
		MinClusterDeltaE: raw.MinClusterDeltaE,
		RawScore:         netRaw,
		AestheticTotal:   aestheticTotal,
		MarketBonus:      market,
		FinalScore:       final,
		Suitability:      suitability,
	}
}

// EvaluateOne scores a single background without a candidate
// distribution: aesthetic scale 1.0 and the default reward budget.
func (e *Evaluator) EvaluateOne(f *analysis.Features, hex string) (EvaluationResult, error) {
	raw, err := e.EvaluateRaw(f, hex)
	if err != nil {
		return EvaluationResult{}, err
	}
	return e.evaluateFinal(raw, f, hex, defaultRewardBudget, 1.0), nil
}

// canonicalHex lower-cases a hex colour and ensures the leading "#".
// Assumes the input already parsed successfully.
func canonicalHex(hex string) string {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return hex
	}
	return rgb.Hex()
}

// selectKth returns the k-th smallest value (0-based) using an
// iterative median-of-three quickselect. The input slice is
// partitioned in place. Deterministic for a given input, and safe at
// full sample size without recursion depth concerns.
func selectKth(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	if k < 0 {
		k = 0
	}
	if k >= len(values) {
		k = len(values) - 1
	}

	lo, hi := 0, len(values)-1
	for lo < hi {
		p := partition(values, lo, hi)
		switch {
		case k == p:
			return values[k]
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return values[k]
}

// partition picks a median-of-three pivot and partitions
// values[lo..hi] around it, returning the pivot's final index.
func partition(values []float64, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if values[mid] < values[lo] {
		values[mid], values[lo] = values[lo], values[mid]
	}
	if values[hi] < values[lo] {
		values[hi], values[lo] = values[lo], values[hi]
	}
	if values[hi] < values[mid] {
		values[hi], values[mid] = values[mid], values[hi]
	}
	// Median now at mid; park it just before hi.
	values[mid], values[hi-1] = values[hi-1], values[mid]
	if hi-lo < 2 {
		return hi
	}
	pivot := values[hi-1]

	i := lo
	for j := lo; j < hi-1; j++ {
		if values[j] < pivot {
			values[i], values[j] = values[j], values[i]
			i++
		}
	}
	values[i], values[hi-1] = values[hi-1], values[i]
	return i
}
