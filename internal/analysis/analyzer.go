package analysis

import (
	"image"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/flowmable/swatch/internal/colour"
	"github.com/flowmable/swatch/internal/quantize"
)

const (
	targetSize         = 256
	legibilityMaxSize  = 1024
	dominantColorCount = 8
	alphaThreshold     = 128

	nearWhiteLThreshold = 70.0
	nearBlackLThreshold = 15.0
	chromaThreshold     = 30.0

	edgeMagnitudeThreshold = 0.1
)

// Analyze extracts all scoring features from a design image. The image
// is downsampled to fit within 256x256 before per-pixel work; a
// separate copy bounded to 1024px feeds the legibility detector.
func Analyze(src image.Image) *Features {
	img := downsample(src, targetSize)
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	total := w * h

	foreground := make([]bool, total)
	luminance := make([]float64, total)
	nearWhite := make([]bool, total)
	nearBlack := make([]bool, total)

	fgPixels := make([]quantize.Pixel, 0, total)
	fgLab := make([]colour.Lab, 0, total)

	fgCount := 0
	transparentCount := 0
	nearWhiteCount := 0
	nearBlackCount := 0
	sumL := 0.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			off := img.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			r := img.Pix[off]
			g := img.Pix[off+1]
			b := img.Pix[off+2]
			a := img.Pix[off+3]

			if a < alphaThreshold {
				transparentCount++
				continue
			}

			foreground[idx] = true
			fgCount++
			fgPixels = append(fgPixels, quantize.Pixel{R: r, G: g, B: b})

			luminance[idx] = colour.RelativeLuminance(r, g, b)

			lab := colour.SRGBToLab(r, g, b)
			fgLab = append(fgLab, lab)
			sumL += lab.L

			chroma := lab.Chroma()
			if lab.L > nearWhiteLThreshold && chroma < chromaThreshold {
				nearWhiteCount++
				nearWhite[idx] = true
			}
			if lab.L < nearBlackLThreshold && chroma < chromaThreshold {
				nearBlackCount++
				nearBlack[idx] = true
			}
		}
	}

	if fgCount == 0 {
		return &Features{
			TransparencyRatio:   float64(transparentCount) / float64(total),
			TotalPixels:         total,
			LegibilityP25:       -1,
			LegibilityP50:       -1,
			LegibilityP75:       -1,
			LegibilityAreaRatio: 0,
		}
	}

	f := &Features{
		DominantColors:      quantize.MedianCut(fgPixels, dominantColorCount, fgCount),
		TransparencyRatio:   float64(transparentCount) / float64(total),
		ForegroundMeanL:     sumL / float64(fgCount),
		ForegroundP75Chroma: p75Chroma(fgLab),
		NearWhiteRatio:      float64(nearWhiteCount) / float64(fgCount),
		NearBlackRatio:      float64(nearBlackCount) / float64(fgCount),
		ForegroundPixels:    fgCount,
		TotalPixels:         total,
	}

	// Luminance histogram and spread, single fixed-order pass.
	sumLum := 0.0
	sumSqLum := 0.0
	for idx := 0; idx < total; idx++ {
		if !foreground[idx] {
			continue
		}
		lum := luminance[idx]
		bin := int(lum * LuminanceBins)
		if bin >= LuminanceBins {
			bin = LuminanceBins - 1
		}
		f.LuminanceHistogram[bin]++
		sumLum += lum
		sumSqLum += lum * lum
	}
	for i := range f.LuminanceHistogram {
		f.LuminanceHistogram[i] /= float64(fgCount)
	}
	f.MeanLuminance = sumLum / float64(fgCount)
	variance := sumSqLum/float64(fgCount) - f.MeanLuminance*f.MeanLuminance
	if variance > 0 {
		f.LuminanceSpread = math.Sqrt(variance)
	}

	f.EdgeDensity, f.WhiteBlackEdgeRatio = edgeMetrics(luminance, foreground, nearWhite, nearBlack, w, h)

	f.LegibilityP25, f.LegibilityP50, f.LegibilityP75, f.LegibilityAreaRatio = legibilityMetrics(src)

	f.ForegroundLab = sampleForeground(luminance, foreground, fgLab, w, h, fgCount)

	return f
}

// edgeMetrics runs a 3x3 Sobel on the raw foreground luminance field for
// every interior pixel fully surrounded by foreground. Returns the edge
// density and the fraction of edge pixels adjacent to both near-white
// and near-black pixels.
func edgeMetrics(luminance []float64, foreground, nearWhite, nearBlack []bool, w, h int) (density, wbRatio float64) {
	edges := 0
	wbEdges := 0
	interior := 0

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			if !foreground[idx] {
				continue
			}
			allFg := true
			for dy := -1; dy <= 1 && allFg; dy++ {
				for dx := -1; dx <= 1 && allFg; dx++ {
					if !foreground[(y+dy)*w+(x+dx)] {
						allFg = false
					}
				}
			}
			if !allFg {
				continue
			}
			interior++

			if sobelMagnitude(luminance, w, x, y) <= edgeMagnitudeThreshold {
				continue
			}
			edges++

			hasWhite := false
			hasBlack := false
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nIdx := (y+dy)*w + (x + dx)
					if nearWhite[nIdx] {
						hasWhite = true
					}
					if nearBlack[nIdx] {
						hasBlack = true
					}
				}
			}
			if hasWhite && hasBlack {
				wbEdges++
			}
		}
	}

	if interior > 0 {
		density = float64(edges) / float64(interior)
	}
	if edges > 0 {
		wbRatio = float64(wbEdges) / float64(edges)
	}
	return density, wbRatio
}

// sobelMagnitude applies the standard 3x3 Sobel operator at (x, y).
// Callers must keep (x, y) at least one pixel inside the grid.
func sobelMagnitude(field []float64, w, x, y int) float64 {
	gx := field[(y-1)*w+(x+1)] + 2*field[y*w+(x+1)] + field[(y+1)*w+(x+1)] -
		field[(y-1)*w+(x-1)] - 2*field[y*w+(x-1)] - field[(y+1)*w+(x-1)]
	gy := field[(y+1)*w+(x-1)] + 2*field[(y+1)*w+x] + field[(y+1)*w+(x+1)] -
		field[(y-1)*w+(x-1)] - 2*field[(y-1)*w+x] - field[(y-1)*w+(x+1)]
	return math.Sqrt(gx*gx + gy*gy)
}

// legibilityMetrics detects probable-text regions on a copy of the image
// bounded to 1024px and returns luminance percentiles over them. The
// detector declines (sentinels -1, -1, -1, 0) when too few
// high-frequency pixels survive the threshold.
func legibilityMetrics(src image.Image) (p25, p50, p75, areaRatio float64) {
	img := downsample(src, legibilityMaxSize)
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	luminance := make([]float64, w*h)
	alpha := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			luminance[y*w+x] = colour.RelativeLuminance(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			alpha[y*w+x] = img.Pix[off+3]
		}
	}

	gradients := make([]float64, w*h)
	sumGrad := 0.0
	sumSqGrad := 0.0
	gradCount := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			grad := sobelMagnitude(luminance, w, x, y)
			gradients[y*w+x] = grad
			sumGrad += grad
			sumSqGrad += grad * grad
			gradCount++
		}
	}
	if gradCount == 0 {
		return -1, -1, -1, 0
	}

	meanGrad := sumGrad / float64(gradCount)
	varGrad := sumSqGrad/float64(gradCount) - meanGrad*meanGrad
	stdGrad := 0.0
	if varGrad > 0 {
		stdGrad = math.Sqrt(varGrad)
	}
	threshold := math.Max(meanGrad+2.0*stdGrad, 0.08)

	var highFreq []float64
	for i, grad := range gradients {
		if grad > threshold && alpha[i] > alphaThreshold {
			highFreq = append(highFreq, luminance[i])
		}
	}

	minCount := math.Max(100, float64(w*h)*0.0001)
	if float64(len(highFreq)) < minCount {
		return -1, -1, -1, 0
	}

	sort.Float64s(highFreq)
	n := len(highFreq)
	p25 = highFreq[n/4]
	p50 = highFreq[n/2]
	p75 = highFreq[n*3/4]
	areaRatio = float64(n) / float64(w*h)
	return p25, p50, p75, areaRatio
}

// p75Chroma sorts all foreground chromas ascending and takes the value
// at index floor(0.75*N), clamped to N-1.
func p75Chroma(labs []colour.Lab) float64 {
	if len(labs) == 0 {
		return 0
	}
	chromas := make([]float64, len(labs))
	for i, lab := range labs {
		chromas[i] = lab.Chroma()
	}
	sort.Float64s(chromas)
	k := int(float64(len(chromas)) * 0.75)
	if k >= len(chromas) {
		k = len(chromas) - 1
	}
	return chromas[k]
}

// downsample scales the image to fit within target x target preserving
// aspect ratio, using bilinear resampling. Images already within the
// bound are converted to NRGBA without scaling. Dimensions are rounded
// and kept >= 1.
func downsample(src image.Image, target int) *image.NRGBA {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()

	scale := math.Min(float64(target)/float64(w), float64(target)/float64(h))
	if scale >= 1.0 {
		if nrgba, ok := src.(*image.NRGBA); ok {
			return nrgba
		}
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}

	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
