// Swatch - background colour scoring for print-on-demand apparel
//
// Swatch analyses a design image and scores how well candidate garment
// background colours pair with it.
package main

import (
	"github.com/flowmable/swatch/internal/cli"
)

func main() {
	cli.Execute()
}
