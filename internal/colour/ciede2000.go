package colour

import "math"

// CIEDE2000 computes the CIEDE2000 colour difference between two CIELAB
// colours, following Sharma, Wu, Dalal (2005). The result is >= 0 and 0
// for identical inputs. Hue angles are handled in degrees and wrapped at
// 360.
func CIEDE2000(c1, c2 Lab) float64 {
	const pow25to7 = 6103515625.0 // 25^7

	chr1 := math.Sqrt(c1.A*c1.A + c1.B*c1.B)
	chr2 := math.Sqrt(c2.A*c2.A + c2.B*c2.B)
	cBar := (chr1 + chr2) / 2.0

	cBar7 := pow7(cBar)
	g := 0.5 * (1.0 - math.Sqrt(cBar7/(cBar7+pow25to7)))

	a1p := c1.A * (1.0 + g)
	a2p := c2.A * (1.0 + g)

	c1p := math.Sqrt(a1p*a1p + c1.B*c1.B)
	c2p := math.Sqrt(a2p*a2p + c2.B*c2.B)
	cBarP := (c1p + c2p) / 2.0
	dCp := c2p - c1p

	h1p := hueAngleDeg(c1.B, a1p)
	h2p := hueAngleDeg(c2.B, a2p)

	var dhp float64
	switch {
	case c1p == 0 || c2p == 0:
		dhp = 0
	case math.Abs(h2p-h1p) <= 180:
		dhp = h2p - h1p
	case h2p-h1p > 180:
		dhp = h2p - h1p - 360
	default:
		dhp = h2p - h1p + 360
	}

	dHp := 2.0 * math.Sqrt(c1p*c2p) * math.Sin(radians(dhp)/2.0)

	var hBarP float64
	switch {
	case c1p == 0 || c2p == 0:
		hBarP = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hBarP = (h1p + h2p) / 2.0
	case h1p+h2p < 360:
		hBarP = (h1p + h2p + 360) / 2.0
	default:
		hBarP = (h1p + h2p - 360) / 2.0
	}

	t := 1.0 -
		0.17*math.Cos(radians(hBarP-30)) +
		0.24*math.Cos(radians(2*hBarP)) +
		0.32*math.Cos(radians(3*hBarP+6)) -
		0.20*math.Cos(radians(4*hBarP-63))

	lBar := (c1.L + c2.L) / 2.0
	lBar50sq := (lBar - 50.0) * (lBar - 50.0)
	sl := 1.0 + 0.015*lBar50sq/math.Sqrt(20.0+lBar50sq)
	sc := 1.0 + 0.045*cBarP
	sh := 1.0 + 0.015*cBarP*t

	dTheta := 30.0 * math.Exp(-((hBarP-275.0)/25.0)*((hBarP-275.0)/25.0))

	cBarP7 := pow7(cBarP)
	rc := 2.0 * math.Sqrt(cBarP7/(cBarP7+pow25to7))
	rt := -math.Sin(radians(2*dTheta)) * rc

	dL := c2.L - c1.L

	lTerm := dL / sl
	cTerm := dCp / sc
	hTerm := dHp / sh

	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm)
}

// hueAngleDeg returns atan2(b, a') mapped to [0, 360) degrees.
func hueAngleDeg(b, ap float64) float64 {
	if b == 0 && ap == 0 {
		return 0
	}
	h := math.Atan2(b, ap) * 180.0 / math.Pi
	if h < 0 {
		h += 360.0
	}
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func pow7(x float64) float64 {
	x2 := x * x
	x3 := x2 * x
	return x3 * x3 * x
}
