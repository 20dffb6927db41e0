// Package quantize implements deterministic median-cut colour
// quantization over foreground pixel bags.
package quantize

import (
	"sort"

	"github.com/flowmable/swatch/internal/colour"
)

// Pixel is one 8-bit sRGB foreground pixel.
type Pixel struct {
	R, G, B uint8
}

// DominantColor is a quantized cluster: the rounded channel means, the
// cached CIELAB triple, and a coverage weight in [0, 1] equal to the
// cluster pixel count over the total foreground count.
type DominantColor struct {
	RGB    colour.RGB `json:"rgb"`
	Lab    colour.Lab `json:"lab"`
	Weight float64    `json:"weight"`
}

// MedianCut quantizes the pixel bag into at most k buckets and returns
// one DominantColor per non-empty bucket, sorted by weight descending.
// k should be a power of two; other values are accepted but may
// terminate early. totalForeground is the denominator for weights, so
// callers may pass a bag that is a subset of the full foreground.
//
// The algorithm is deterministic: bucket iteration order, the R > G > B
// channel tie-break, and stable sorts guarantee identical output for
// identical input sequences.
func MedianCut(pixels []Pixel, k, totalForeground int) []DominantColor {
	if len(pixels) == 0 || k < 1 || totalForeground < 1 {
		return nil
	}

	bag := make([]Pixel, len(pixels))
	copy(bag, pixels)
	buckets := [][]Pixel{bag}

	for len(buckets) < k {
		next := make([][]Pixel, 0, len(buckets)*2)
		split := false
		for i, bucket := range buckets {
			// Splitting grows the round total by one; once the
			// projected count reaches k, pass the rest through.
			remaining := len(buckets) - i
			if len(bucket) <= 1 || len(next)+remaining >= k {
				next = append(next, bucket)
				continue
			}
			lo, hi, ok := splitBucket(bucket)
			if !ok {
				next = append(next, bucket)
				continue
			}
			next = append(next, lo, hi)
			split = true
		}
		buckets = next
		if !split {
			break
		}
	}

	result := make([]DominantColor, 0, len(buckets))
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		var rSum, gSum, bSum int64
		for _, px := range bucket {
			rSum += int64(px.R)
			gSum += int64(px.G)
			bSum += int64(px.B)
		}
		n := int64(len(bucket))
		rgb := colour.RGB{
			R: roundChannel(rSum, n),
			G: roundChannel(gSum, n),
			B: roundChannel(bSum, n),
		}
		result = append(result, DominantColor{
			RGB:    rgb,
			Lab:    rgb.Lab(),
			Weight: float64(len(bucket)) / float64(totalForeground),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}

// splitBucket sorts the bucket by its widest channel (tie-break R > G > B)
// and splits it at the median index. Returns ok=false for a bucket with
// zero range on all channels.
func splitBucket(bucket []Pixel) (lo, hi []Pixel, ok bool) {
	minR, maxR := uint8(255), uint8(0)
	minG, maxG := uint8(255), uint8(0)
	minB, maxB := uint8(255), uint8(0)
	for _, px := range bucket {
		minR, maxR = minU8(minR, px.R), maxU8(maxR, px.R)
		minG, maxG = minU8(minG, px.G), maxU8(maxG, px.G)
		minB, maxB = minU8(minB, px.B), maxU8(maxB, px.B)
	}

	rangeR := int(maxR) - int(minR)
	rangeG := int(maxG) - int(minG)
	rangeB := int(maxB) - int(minB)
	if rangeR == 0 && rangeG == 0 && rangeB == 0 {
		return nil, nil, false
	}

	var channel func(Pixel) uint8
	switch {
	case rangeR >= rangeG && rangeR >= rangeB:
		channel = func(px Pixel) uint8 { return px.R }
	case rangeG >= rangeB:
		channel = func(px Pixel) uint8 { return px.G }
	default:
		channel = func(px Pixel) uint8 { return px.B }
	}

	sort.SliceStable(bucket, func(i, j int) bool {
		return channel(bucket[i]) < channel(bucket[j])
	})

	mid := len(bucket) / 2
	return bucket[:mid], bucket[mid:], true
}

func roundChannel(sum, n int64) uint8 {
	v := (sum + n/2) / n
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
