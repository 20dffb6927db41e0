// Test design generator for creating sample artwork with alpha
// channels for exercising the scoring pipeline by hand.
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	width := 400
	height := 400

	// Solid opaque white covering the whole canvas, the classic
	// dark-garment design.
	solid := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			solid.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	save("testdata/solid_white.png", solid)

	// Thin white text-like lines on transparency.
	lines := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		if y%8 != 0 {
			continue
		}
		for x := 0; x < width; x++ {
			lines.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	save("testdata/text_lines.png", lines)

	// Horizontal black-to-white gradient, fully opaque.
	gradient := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			gradient.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	save("testdata/gradient.png", gradient)

	println("Test designs created under testdata/")
}

func save(path string, img image.Image) {
	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}
}
