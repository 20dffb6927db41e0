package colour

import (
	"math"
	"testing"
)

func TestSRGBToLabReferenceValues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		check   func(t *testing.T, lab Lab)
	}{
		{
			name: "white",
			r:    255, g: 255, b: 255,
			check: func(t *testing.T, lab Lab) {
				if math.Abs(lab.L-100) > 0.1 {
					t.Errorf("L = %f, want ~100", lab.L)
				}
				if math.Abs(lab.A) > 0.5 || math.Abs(lab.B) > 0.5 {
					t.Errorf("a, b = %f, %f, want ~0, ~0", lab.A, lab.B)
				}
			},
		},
		{
			name: "black",
			r:    0, g: 0, b: 0,
			check: func(t *testing.T, lab Lab) {
				if math.Abs(lab.L) > 0.01 || math.Abs(lab.A) > 0.01 || math.Abs(lab.B) > 0.01 {
					t.Errorf("lab = %+v, want (0, 0, 0)", lab)
				}
			},
		},
		{
			name: "mid grey",
			r:    128, g: 128, b: 128,
			check: func(t *testing.T, lab Lab) {
				if math.Abs(lab.L-53.6) > 0.5 {
					t.Errorf("L = %f, want ~53.6", lab.L)
				}
				if math.Abs(lab.A) > 0.5 || math.Abs(lab.B) > 0.5 {
					t.Errorf("a, b = %f, %f, want ~0, ~0", lab.A, lab.B)
				}
			},
		},
		{
			name: "pure red",
			r:    255, g: 0, b: 0,
			check: func(t *testing.T, lab Lab) {
				if math.Abs(lab.L-53.2) > 0.5 {
					t.Errorf("L = %f, want ~53.2", lab.L)
				}
				if lab.A <= 70 {
					t.Errorf("a = %f, want > 70", lab.A)
				}
				if lab.B <= 50 {
					t.Errorf("b = %f, want > 50", lab.B)
				}
			},
		},
		{
			name: "pure green",
			r:    0, g: 255, b: 0,
			check: func(t *testing.T, lab Lab) {
				if math.Abs(lab.L-87.7) > 0.5 {
					t.Errorf("L = %f, want ~87.7", lab.L)
				}
				if lab.A >= -70 {
					t.Errorf("a = %f, want < -70", lab.A)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, SRGBToLab(tt.r, tt.g, tt.b))
		})
	}
}

func TestRelativeLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
		tol     float64
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0, tol: 0.001},
		{name: "white", r: 255, g: 255, b: 255, want: 1, tol: 0.001},
		{name: "mid grey", r: 128, g: 128, b: 128, want: 0.2158, tol: 0.005},
		{name: "pure green dominates", r: 0, g: 255, b: 0, want: 0.7152, tol: 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeLuminance(tt.r, tt.g, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("RelativeLuminance(%d, %d, %d) = %f, want %f", tt.r, tt.g, tt.b, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("luminance %f out of [0, 1]", got)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "lowercase with hash", input: "#1a2b3c", want: RGB{R: 0x1a, G: 0x2b, B: 0x3c}},
		{name: "uppercase with hash", input: "#FFF7E7", want: RGB{R: 0xff, G: 0xf7, B: 0xe7}},
		{name: "no hash", input: "a80d27", want: RGB{R: 0xa8, G: 0x0d, B: 0x27}},
		{name: "mixed case", input: "#AbCdEf", want: RGB{R: 0xab, G: 0xcd, B: 0xef}},
		{name: "surrounding whitespace", input: " #000000 ", want: RGB{}},
		{name: "too short", input: "#fff", wantErr: true},
		{name: "too long", input: "#ff00ff00", wantErr: true},
		{name: "bad digit", input: "#gg0000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHex(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	rgb := RGB{R: 0x91, G: 0x5c, B: 0x5c}
	parsed, err := ParseHex(rgb.Hex())
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if parsed != rgb {
		t.Errorf("round trip = %+v, want %+v", parsed, rgb)
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		name   string
		h1, h2 float64
		want   float64
	}{
		{name: "identical", h1: 40, h2: 40, want: 0},
		{name: "simple", h1: 10, h2: 50, want: 40},
		{name: "wraparound", h1: 350, h2: 10, want: 20},
		{name: "opposite", h1: 0, h2: 180, want: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HueDistance(tt.h1, tt.h2); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HueDistance(%f, %f) = %f, want %f", tt.h1, tt.h2, got, tt.want)
			}
		})
	}
}

func TestChromaAndHue(t *testing.T) {
	lab := Lab{L: 50, A: 3, B: 4}
	if got := lab.Chroma(); math.Abs(got-5) > 1e-9 {
		t.Errorf("Chroma = %f, want 5", got)
	}

	hue := Lab{L: 50, A: 0, B: -10}.Hue()
	if math.Abs(hue-270) > 1e-9 {
		t.Errorf("Hue = %f, want 270", hue)
	}

	if got := (Lab{L: 50}).Hue(); got != 0 {
		t.Errorf("achromatic hue = %f, want 0", got)
	}
}
