package scoring

import (
	"math"

	"github.com/flowmable/swatch/internal/colour"
)

// marketWeight computes the background-intrinsic commercial bias from
// the background Lab alone. The blend favours neutral, mid-lightness
// garment colours, penalises high-chroma novelty shades (with a
// protection carve-out for reds, which sell despite their chroma), and
// nudges the cool/warm/magenta hue bands. The result is centred so a
// typical catalogue averages near zero and clamped to [-2, 2]; the
// evaluator scales it by 2.
func marketWeight(bg colour.Lab) float64 {
	l := bg.L
	c := bg.Chroma()
	h := bg.Hue()

	// Neutral garments (black, greys, off-whites) are the commercial
	// backbone.
	neutral := 0.8 * math.Exp(-(c/15)*(c/15))

	// Mid-lightness shirts photograph well across designs.
	midL := 0.3 * math.Exp(-((l-50)/25)*((l-50)/25))

	// High chroma reads as novelty stock, except near red.
	vibrancy := 0.0
	if excess := c - 30; excess > 0 {
		redProtect := 1.0 - 0.8*math.Exp(-(colour.HueDistance(h, 25)/30)*(colour.HueDistance(h, 25)/30))
		vibrancy = -0.02 * excess * redProtect
	}

	// Hue band adjustments apply only to clearly chromatic colours.
	band := 0.0
	if c > 10 {
		switch {
		case h >= 200 && h <= 260:
			band = 0.3
		case h >= 30 && h <= 70:
			band = 0.2
		case h >= 300 && h <= 340:
			band = -0.2
		}
	}

	// Versatility: darker mid tones pair with the widest range of art.
	versatility := 0.15 * math.Exp(-((l-35)/30)*((l-35)/30))

	w := neutral + midL + vibrancy + band + versatility - 0.35
	return clamp(w, -2, 2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
