package analysis

import (
	"sort"

	"github.com/flowmable/swatch/internal/colour"
)

const (
	maxSampledPixels = 10000
	gridRows         = 10
	gridCols         = 10

	topEdgeFraction = 0.02
	topEdgeMin      = 100
	topEdgeMax      = 500
)

// sampleForeground selects at most maxSampledPixels foreground Lab
// triples for the downstream P10 contrast statistic. When the
// foreground fits the budget, the full set is returned in row-major
// order. Otherwise edges are overweighted: the top-K pixels by Sobel
// magnitude on a Gaussian-smoothed luminance field come first, and the
// remainder is filled by stratified round-robin over a 10x10 grid of
// image cells. The selection is fully deterministic.
func sampleForeground(rawLuminance []float64, foreground []bool, fgLab []colour.Lab, w, h, count int) []colour.Lab {
	if count <= maxSampledPixels {
		out := make([]colour.Lab, len(fgLab))
		copy(out, fgLab)
		return out
	}

	blurred := gaussian5x5(rawLuminance, w, h)

	// Foreground pixel indices in row-major order, with a parallel
	// map from grid index to fgLab index.
	validIndices := make([]int, 0, count)
	labIndex := make([]int, w*h)
	labIdx := 0
	for i := 0; i < w*h; i++ {
		labIndex[i] = -1
		if foreground[i] {
			labIndex[i] = labIdx
			labIdx++
			validIndices = append(validIndices, i)
		}
	}

	sobel := make([]float64, w*h)
	for _, i := range validIndices {
		x := i % w
		y := i / w
		if x < 2 || x >= w-2 || y < 2 || y >= h-2 {
			continue
		}
		sobel[i] = sobelMagnitude(blurred, w, x, y)
	}

	topK := int(float64(count) * topEdgeFraction)
	if topK < topEdgeMin {
		topK = topEdgeMin
	}
	if topK > topEdgeMax {
		topK = topEdgeMax
	}

	// Descending by magnitude, stable so ties keep pixel-index order.
	byMagnitude := make([]int, len(validIndices))
	copy(byMagnitude, validIndices)
	sort.SliceStable(byMagnitude, func(a, b int) bool {
		return sobel[byMagnitude[a]] > sobel[byMagnitude[b]]
	})

	selected := make([]bool, w*h)
	result := make([]colour.Lab, 0, maxSampledPixels)
	for i := 0; i < topK && i < len(byMagnitude); i++ {
		idx := byMagnitude[i]
		selected[idx] = true
		result = append(result, fgLab[labIndex[idx]])
	}

	if len(result) >= maxSampledPixels {
		return result[:maxSampledPixels]
	}

	// Stratified grid fill: bucket the unpicked pixels by cell in
	// pixel-index order, then visit cells round-robin in row-major
	// order until the budget is exhausted.
	cellW := w / gridCols
	if cellW < 1 {
		cellW = 1
	}
	cellH := h / gridRows
	if cellH < 1 {
		cellH = 1
	}

	cells := make([][]int, gridRows*gridCols)
	available := 0
	for _, idx := range validIndices {
		if selected[idx] {
			continue
		}
		x := idx % w
		y := idx / w
		cx := x / cellW
		if cx > gridCols-1 {
			cx = gridCols - 1
		}
		cy := y / cellH
		if cy > gridRows-1 {
			cy = gridRows - 1
		}
		cell := cy*gridCols + cx
		cells[cell] = append(cells[cell], idx)
		available++
	}

	cursors := make([]int, len(cells))
	cellIdx := 0
	for len(result) < maxSampledPixels && available > 0 {
		cell := cells[cellIdx]
		if cursors[cellIdx] < len(cell) {
			idx := cell[cursors[cellIdx]]
			cursors[cellIdx]++
			available--
			result = append(result, fgLab[labIndex[idx]])
		}
		cellIdx = (cellIdx + 1) % len(cells)
	}

	return result
}

// gaussian5x5 applies the classic 1,4,6,4,1 separable low-pass (kernel
// sum 256) to the field, skipping the 2-pixel border.
func gaussian5x5(input []float64, w, h int) []float64 {
	kernel := [25]float64{
		1, 4, 6, 4, 1,
		4, 16, 24, 16, 4,
		6, 24, 36, 24, 6,
		4, 16, 24, 16, 4,
		1, 4, 6, 4, 1,
	}

	output := make([]float64, w*h)
	for y := 2; y < h-2; y++ {
		for x := 2; x < w-2; x++ {
			sum := 0.0
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += input[(y+ky)*w+(x+kx)] * kernel[(ky+2)*5+(kx+2)]
				}
			}
			output[y*w+x] = sum / 256.0
		}
	}
	return output
}
