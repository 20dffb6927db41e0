package scoring

import (
	"image"
	"math"

	"github.com/flowmable/swatch/internal/analysis"
)

// maxRetries bounds the stability loop of the final pass.
const maxRetries = 3

// Results is the ordered outcome of scoring one design against a
// candidate slate. Order follows the input candidate list.
type Results []EvaluationResult

// Get returns the result for a canonical or raw hex string.
func (r Results) Get(hex string) (EvaluationResult, bool) {
	canonical := canonicalHex(hex)
	for _, res := range r {
		if res.Hex == canonical {
			return res, true
		}
	}
	return EvaluationResult{}, false
}

// Engine orchestrates the two-pass scoring of a candidate slate:
// a raw physics pass to establish the variance baseline, a
// distribution-aware reward budget, and a final pass whose aesthetic
// energy is re-scaled under stability guards.
type Engine struct {
	thresholds Thresholds
	evaluator  *Evaluator
}

// NewEngine creates an Engine with the given thresholds and optional
// per-hex market overrides (may be nil).
func NewEngine(t Thresholds, overrides map[string]float64) *Engine {
	return &Engine{
		thresholds: t,
		evaluator:  NewEvaluator(t, overrides),
	}
}

// Score evaluates every candidate background against the design
// features. The returned results are ordered by the input list. An
// empty candidate list yields empty results; a malformed hex aborts
// the whole call with no partial results.
func (e *Engine) Score(f *analysis.Features, hexes []string) (Results, error) {
	n := len(hexes)
	if n == 0 {
		return Results{}, nil
	}

	// Pass 1: raw physics and distribution statistics, in input order.
	raws := make([]RawScore, n)
	sumRaw := 0.0
	sumSqRaw := 0.0
	rawPromoted := 0
	for i, hex := range hexes {
		raw, err := e.evaluator.EvaluateRaw(f, hex)
		if err != nil {
			return nil, err
		}
		raws[i] = raw

		s := raw.NetRaw()
		sumRaw += s
		sumSqRaw += s * s
		if s >= e.thresholds.GoodFloor {
			rawPromoted++
		}
	}

	meanRaw := sumRaw / float64(n)
	rawStdDev := populationStdDev(sumSqRaw, meanRaw, n)
	rawPromotionRate := float64(rawPromoted) / float64(n)

	// Budget derivation: protect against near-zero variance slates
	// inflating the influence ratio, then clamp.
	t := e.thresholds
	effectiveStd := math.Max(rawStdDev, t.RawBaselineStdDev*0.7)
	targetStd := t.RawBaselineStdDev * 1.20
	influenceRatio := clamp(targetStd/effectiveStd, t.AestheticInfluenceMin, t.AestheticInfluenceMax)
	rewardBudget := rawStdDev * influenceRatio

	// Pass 2: final scores under the stability loop. A variance or
	// drift violation decays the aesthetic scale and retries.
	aestheticScale := 1.0
	var results Results
	for attempt := 0; attempt <= maxRetries; attempt++ {
		results = make(Results, 0, n)
		sumFinal := 0.0
		sumSqFinal := 0.0
		finalPromoted := 0

		for i, hex := range hexes {
			res := e.evaluator.evaluateFinal(raws[i], f, hex, rewardBudget, aestheticScale)
			results = append(results, res)

			s := res.FinalScore
			sumFinal += s
			sumSqFinal += s * s
			if res.Suitability == Promoted {
				finalPromoted++
			}
		}

		meanFinal := sumFinal / float64(n)
		finalStdDev := populationStdDev(sumSqFinal, meanFinal, n)
		finalPromotionRate := float64(finalPromoted) / float64(n)

		varianceViolation := finalStdDev > rawStdDev*t.PerDesignVarianceGuard
		driftViolation := math.Abs(finalPromotionRate-rawPromotionRate) > t.PromotionDriftGuard

		if (varianceViolation || driftViolation) && attempt < maxRetries {
			if varianceViolation {
				correction := (rawStdDev * t.PerDesignVarianceGuard) / finalStdDev
				aestheticScale *= math.Min(0.9, correction)
			} else {
				aestheticScale *= 0.9
			}
			continue
		}
		break
	}

	return results, nil
}

// ScoreImage analyzes the image and scores the candidate slate against
// the extracted features.
func (e *Engine) ScoreImage(img image.Image, hexes []string) (Results, *analysis.Features, error) {
	f := analysis.Analyze(img)
	results, err := e.Score(f, hexes)
	if err != nil {
		return nil, nil, err
	}
	return results, f, nil
}

// EvaluateOne scores a single candidate without distribution context.
func (e *Engine) EvaluateOne(f *analysis.Features, hex string) (EvaluationResult, error) {
	return e.evaluator.EvaluateOne(f, hex)
}

// populationStdDev derives the population standard deviation from the
// accumulated sum of squares and the mean.
func populationStdDev(sumSq, mean float64, n int) float64 {
	variance := sumSq/float64(n) - mean*mean
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}
