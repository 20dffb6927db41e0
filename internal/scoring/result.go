package scoring

import "github.com/flowmable/swatch/internal/colour"

// Suitability is the three-tier classification of a background colour
// for a design.
type Suitability int

const (
	// Rejected backgrounds should be excluded or require an explicit
	// seller override.
	Rejected Suitability = iota

	// Passed backgrounds are acceptable with a warning.
	Passed

	// Promoted backgrounds are safe to auto-include in a listing.
	Promoted
)

// String returns the display name of the suitability tier.
func (s Suitability) String() string {
	switch s {
	case Promoted:
		return "PROMOTED"
	case Passed:
		return "PASSED"
	default:
		return "REJECTED"
	}
}

// OverrideDegenerate is the override reason reported for designs with
// no foreground content.
const OverrideDegenerate = "DEGENERATE"

// RawScore is the physics-only evaluation of one background against a
// design, produced by the first scoring pass.
type RawScore struct {
	// RawContrast is the positive composite contrast energy before
	// aesthetics.
	RawContrast float64

	// P10DeltaE is the 10th-percentile pixel-to-background CIEDE2000
	// delta, blended with the cluster minimum for small samples.
	P10DeltaE float64

	// MinClusterDeltaE and WeightedMeanDeltaE are the cluster delta-E
	// statistics.
	MinClusterDeltaE   float64
	WeightedMeanDeltaE float64

	// Fragility is (1 - design resistance)^2.2, in [0, 1].
	Fragility float64

	// TonalPenalty and VibrationPenalty are both <= 0.
	TonalPenalty     float64
	VibrationPenalty float64

	// BgLab caches the background colour in CIELAB; BgChroma and BgHue
	// are derived from it. MinHueDist is the smallest circular hue
	// distance between the background and any dominant colour.
	BgLab      colour.Lab
	BgChroma   float64
	BgHue      float64
	MinHueDist float64
}

// NetRaw is the physics score: raw contrast plus both penalties.
func (r RawScore) NetRaw() float64 {
	return r.RawContrast + r.TonalPenalty + r.VibrationPenalty
}

// EvaluationResult is the final per-background record returned to the
// caller.
type EvaluationResult struct {
	// Hex is the evaluated background colour, canonicalised to
	// "#rrggbb".
	Hex string `json:"hex"`

	// P10DeltaE and MinClusterDeltaE are carried through from the raw
	// pass for diagnostics.
	P10DeltaE        float64 `json:"p10_delta_e"`
	MinClusterDeltaE float64 `json:"min_cluster_delta_e"`

	// RawScore is the physics score (net raw).
	RawScore float64 `json:"raw_score"`

	// AestheticTotal is the signed sum of harmony reward, outline
	// boost, and flatness dampener after budget and scale application.
	AestheticTotal float64 `json:"aesthetic_total"`

	// MarketBonus is the signed commercial bias after any double-count
	// scaling.
	MarketBonus float64 `json:"market_bonus"`

	// FinalScore is the clamped composite in [0, 100].
	FinalScore float64 `json:"final_score"`

	// Suitability is the classification tier.
	Suitability Suitability `json:"suitability"`

	// OverrideReason is set iff a safety override fired. Overrides may
	// only lower suitability, never raise it.
	OverrideReason string `json:"override_reason,omitempty"`
}
