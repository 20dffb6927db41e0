package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowmable/swatch/internal/analysis"
	"github.com/flowmable/swatch/internal/image"
)

var analyzeFormat string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <design>",
	Short: "Extract and display design features",
	Long: `Analyze a design image and display the extracted features: dominant
colours with coverage weights, luminance statistics, edge density,
transparency, and the legibility detector output.

This is the same analysis the score command runs internally; use it to
understand why a design scores the way it does.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format (text, json)")
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	designPath := args[0]

	if err := image.ValidateImagePath(designPath); err != nil {
		return fmt.Errorf("invalid design path: %w", err)
	}

	loader := image.NewSmartLoader()
	img, err := loader.Load(designPath)
	if err != nil {
		return fmt.Errorf("failed to load design: %w", err)
	}

	bounds := img.Bounds()
	logger.Debug("design loaded", "width", bounds.Dx(), "height", bounds.Dy())

	features := analysis.Analyze(img)

	switch analyzeFormat {
	case "json":
		data, err := json.MarshalIndent(features, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode features: %w", err)
		}
		fmt.Println(string(data))
	case "text":
		printFeatures(features)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", analyzeFormat)
	}

	return nil
}

// printFeatures renders the feature record as a human-readable block.
func printFeatures(f *analysis.Features) {
	if f.Degenerate() {
		fmt.Println("Design is degenerate: no foreground content above the alpha threshold.")
		fmt.Printf("Transparency ratio: %.3f\n", f.TransparencyRatio)
		return
	}

	fmt.Printf("Foreground pixels : %d / %d (transparency %.3f)\n",
		f.ForegroundPixels, f.TotalPixels, f.TransparencyRatio)
	fmt.Printf("Mean luminance    : %.3f (spread %.3f)\n", f.MeanLuminance, f.LuminanceSpread)
	fmt.Printf("Foreground mean L*: %.1f (P75 chroma %.1f)\n", f.ForegroundMeanL, f.ForegroundP75Chroma)
	fmt.Printf("Near white / black: %.3f / %.3f\n", f.NearWhiteRatio, f.NearBlackRatio)
	fmt.Printf("Edge density      : %.3f (white-black edge ratio %.3f)\n", f.EdgeDensity, f.WhiteBlackEdgeRatio)
	fmt.Printf("Lab sample size   : %d\n", len(f.ForegroundLab))

	if f.LegibilityP50 >= 0 {
		fmt.Printf("Legibility        : P25=%.3f P50=%.3f P75=%.3f (area %.4f)\n",
			f.LegibilityP25, f.LegibilityP50, f.LegibilityP75, f.LegibilityAreaRatio)
	} else {
		fmt.Println("Legibility        : no significant high-frequency content")
	}

	fmt.Println("\nDominant colours:")
	table := NewTable([]string{"Hex", "Weight", "L*", "a*", "b*"})
	table.AlignRight(1, 2, 3, 4)
	for _, dc := range f.DominantColors {
		table.AddRow([]string{
			dc.RGB.Hex(),
			fmt.Sprintf("%.3f", dc.Weight),
			fmt.Sprintf("%.1f", dc.Lab.L),
			fmt.Sprintf("%.1f", dc.Lab.A),
			fmt.Sprintf("%.1f", dc.Lab.B),
		})
	}
	fmt.Print(table.Render())
}
