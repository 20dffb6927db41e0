// Package scoring evaluates candidate background colours against a
// design's extracted features and classifies their suitability.
package scoring

import "fmt"

// ScoringModelVersion is the opaque model version tag surfaced in
// reports.
const ScoringModelVersion = "3.0"

// MaxSamples is the cap on the Lab pixel sample used for the P10
// statistic.
const MaxSamples = 10000

// Thresholds holds the configurable constants of the scoring model.
type Thresholds struct {
	// GoodFloor is the final-score threshold for Promoted.
	GoodFloor float64

	// BorderlineFloor is the final-score threshold for Passed.
	BorderlineFloor float64

	// TailVetoFloor is the minimum P10 delta-E for a candidate to count
	// as tail-strong.
	TailVetoFloor float64

	// TonalTriggerRatio multiplies TailVetoFloor to form the P10 gate
	// of the tonal penalty.
	TonalTriggerRatio float64

	// VibrationChromaRatio is the background chroma threshold as a
	// multiple of the foreground P75 chroma.
	VibrationChromaRatio float64

	// FlatnessPenaltyScale is the magnitude of the flatness dampener.
	FlatnessPenaltyScale float64

	// HarmonySigma is the width in degrees of the hue-harmony gaussian.
	HarmonySigma float64

	// RawBaselineStdDev is the reference raw-score standard deviation
	// used for reward budgeting.
	RawBaselineStdDev float64

	// AestheticInfluenceMin and AestheticInfluenceMax clamp the
	// influence ratio derived from the candidate slate.
	AestheticInfluenceMin float64
	AestheticInfluenceMax float64

	// PerDesignVarianceGuard bounds the final-score stddev relative to
	// the raw stddev.
	PerDesignVarianceGuard float64

	// PromotionDriftGuard bounds the absolute drift in promotion rate
	// between the raw and final rankings.
	PromotionDriftGuard float64
}

// DefaultThresholds returns the production scoring constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GoodFloor:              34,
		BorderlineFloor:        26,
		TailVetoFloor:          8.0,
		TonalTriggerRatio:      1.8,
		VibrationChromaRatio:   1.2,
		FlatnessPenaltyScale:   1.5,
		HarmonySigma:           25,
		RawBaselineStdDev:      7.42,
		AestheticInfluenceMin:  1.15,
		AestheticInfluenceMax:  1.30,
		PerDesignVarianceGuard: 1.4,
		PromotionDriftGuard:    0.05,
	}
}

// Validate checks the thresholds for internal consistency.
func (t Thresholds) Validate() error {
	if t.BorderlineFloor > t.GoodFloor {
		return fmt.Errorf("borderline floor %.1f exceeds good floor %.1f", t.BorderlineFloor, t.GoodFloor)
	}
	if t.TailVetoFloor < 0 {
		return fmt.Errorf("tail veto floor must be >= 0, got %.1f", t.TailVetoFloor)
	}
	if t.AestheticInfluenceMin > t.AestheticInfluenceMax {
		return fmt.Errorf("aesthetic influence min %.2f exceeds max %.2f", t.AestheticInfluenceMin, t.AestheticInfluenceMax)
	}
	if t.PerDesignVarianceGuard < 1 {
		return fmt.Errorf("variance guard must be >= 1, got %.2f", t.PerDesignVarianceGuard)
	}
	if t.PromotionDriftGuard < 0 || t.PromotionDriftGuard > 1 {
		return fmt.Errorf("promotion drift guard must be in [0, 1], got %.2f", t.PromotionDriftGuard)
	}
	if t.HarmonySigma <= 0 {
		return fmt.Errorf("harmony sigma must be positive, got %.1f", t.HarmonySigma)
	}
	return nil
}
