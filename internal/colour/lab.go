// Package colour provides colour space conversions and perceptual
// distance metrics for the scoring pipeline.
package colour

import (
	"fmt"
	"math"
	"strings"
)

// D65 reference white point.
const (
	xn = 0.95047
	yn = 1.00000
	zn = 1.08883
)

// RGB represents an 8-bit sRGB colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Lab returns the CIELAB representation of the colour.
func (rgb RGB) Lab() Lab {
	return SRGBToLab(rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a hex colour string of the form "#RRGGBB" or "RRGGBB",
// case-insensitive. Returns an error for any other shape.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	var v uint32
	for i := 0; i < 6; i++ {
		c := h[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return RGB{}, fmt.Errorf("invalid hex colour %q: bad digit %q", s, c)
		}
		v = v<<4 | d
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Lab represents a colour in CIELAB space (D65 illuminant).
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Chroma returns the chroma C* = sqrt(a*^2 + b*^2).
func (c Lab) Chroma() float64 {
	return math.Sqrt(c.A*c.A + c.B*c.B)
}

// Hue returns the hue angle in degrees [0, 360).
// Achromatic colours (a* = b* = 0) report hue 0.
func (c Lab) Hue() float64 {
	h := math.Atan2(c.B, c.A) * 180.0 / math.Pi
	if h < 0 {
		h += 360.0
	}
	return h
}

// SRGBToLab converts an 8-bit sRGB triple to CIELAB (D65).
func SRGBToLab(r, g, b uint8) Lab {
	rl := gammaExpand(float64(r) / 255.0)
	gl := gammaExpand(float64(g) / 255.0)
	bl := gammaExpand(float64(b) / 255.0)

	// Linear RGB -> XYZ, sRGB/BT.709 primaries.
	x := 0.4124564*rl + 0.3575761*gl + 0.1804375*bl
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := 0.0193339*rl + 0.1191920*gl + 0.9503041*bl

	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)

	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// RelativeLuminance computes the WCAG relative luminance of an 8-bit sRGB
// triple. Returns a value in [0, 1].
func RelativeLuminance(r, g, b uint8) float64 {
	return 0.2126*gammaExpand(float64(r)/255.0) +
		0.7152*gammaExpand(float64(g)/255.0) +
		0.0722*gammaExpand(float64(b)/255.0)
}

// gammaExpand linearises one sRGB channel in [0, 1].
func gammaExpand(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// labF is the CIE XYZ -> Lab transfer function.
func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return (903.3*t + 16.0) / 116.0
}

// HueDistance returns the smallest circular distance between two hue
// angles in degrees. The result is in [0, 180].
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(h1 - h2)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
