// Package analysis extracts per-design scoring features from a decoded
// raster image with an alpha channel.
package analysis

import (
	"github.com/flowmable/swatch/internal/colour"
	"github.com/flowmable/swatch/internal/quantize"
)

// LuminanceBins is the number of bins in the foreground luminance
// histogram.
const LuminanceBins = 16

// Features is the immutable result of one-time per-design analysis.
// All fields computed over the foreground are zero (or sentinel) when
// the design has no foreground; see Degenerate.
type Features struct {
	// DominantColors holds up to 8 quantized clusters sorted by
	// coverage weight descending.
	DominantColors []quantize.DominantColor `json:"dominant_colors"`

	// LuminanceHistogram is a normalized 16-bin histogram of
	// foreground relative luminance. Sums to 1 when the foreground is
	// nonempty.
	LuminanceHistogram [LuminanceBins]float64 `json:"luminance_histogram"`

	// MeanLuminance is the mean foreground relative luminance in [0, 1].
	MeanLuminance float64 `json:"mean_luminance"`

	// LuminanceSpread is the standard deviation of foreground relative
	// luminance.
	LuminanceSpread float64 `json:"luminance_spread"`

	// EdgeDensity is the fraction of interior foreground pixels whose
	// Sobel magnitude exceeds 0.1.
	EdgeDensity float64 `json:"edge_density"`

	// TransparencyRatio is the fraction of all pixels with alpha below
	// the foreground threshold.
	TransparencyRatio float64 `json:"transparency_ratio"`

	// ForegroundLab is a deterministic sample of at most 10 000
	// foreground pixels in CIELAB space.
	ForegroundLab []colour.Lab `json:"-"`

	// ForegroundMeanL is the mean L* over all foreground pixels, in
	// [0, 100].
	ForegroundMeanL float64 `json:"foreground_mean_l"`

	// ForegroundP75Chroma is the 75th-percentile chroma over all
	// foreground pixels.
	ForegroundP75Chroma float64 `json:"foreground_p75_chroma"`

	// NearWhiteRatio is the fraction of foreground pixels with L* > 70
	// and chroma < 30.
	NearWhiteRatio float64 `json:"near_white_ratio"`

	// NearBlackRatio is the fraction of foreground pixels with L* < 15
	// and chroma < 30.
	NearBlackRatio float64 `json:"near_black_ratio"`

	// ForegroundPixels and TotalPixels count the downsampled grid.
	ForegroundPixels int `json:"foreground_pixel_count"`
	TotalPixels      int `json:"total_pixel_count"`

	// Legibility percentiles are luminance percentiles over
	// high-frequency (probable-text) pixels, or -1 when the detector
	// declines. They are surfaced for display and never consumed by
	// scoring.
	LegibilityP25       float64 `json:"legibility_p25"`
	LegibilityP50       float64 `json:"legibility_p50"`
	LegibilityP75       float64 `json:"legibility_p75"`
	LegibilityAreaRatio float64 `json:"legibility_area_ratio"`

	// WhiteBlackEdgeRatio is the fraction of edge pixels whose 3x3
	// neighborhood touches both a near-white and a near-black pixel.
	WhiteBlackEdgeRatio float64 `json:"white_black_edge_ratio"`
}

// Degenerate reports whether the design has no foreground content.
func (f *Features) Degenerate() bool {
	return f.ForegroundPixels == 0
}
