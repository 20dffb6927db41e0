package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/flowmable/swatch/internal/catalog"
	"github.com/flowmable/swatch/internal/image"
	"github.com/flowmable/swatch/internal/scoring"
	"github.com/flowmable/swatch/internal/security"
	"github.com/flowmable/swatch/internal/util/imagecache"
)

var (
	// Score command flags
	scoreBackgrounds []string
	scoreOverrides   string
	scoreFormat      string
	scoreAudit       bool
	scoreStats       bool
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <design>",
	Short: "Score background colours against a design",
	Long: `Score every candidate background colour against a design image and
print a ranked recommendation report.

The design argument may be an image file, a directory of designs, or an
HTTPS URL. Remote designs are downloaded and cached locally first.
By default candidates come from the built-in garment catalogue; use
--backgrounds to supply your own hex codes.

Examples:
  # Score a design against the full garment catalogue
  swatch score artwork.png

  # Score a directory of designs and print aggregate statistics
  swatch score --stats designs/

  # Score against a custom slate
  swatch score --backgrounds "#000000,#263040,#ffffff" artwork.png

  # Verify that two runs produce bit-identical scores
  swatch score --audit artwork.png

  # Machine-readable output
  swatch score --format json artwork.png`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	bindScoreFlags(scoreCmd.Flags())
}

// bindScoreFlags registers the score command flags on the given set.
func bindScoreFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&scoreBackgrounds, "backgrounds", "b", nil, "candidate background hex codes (default: built-in catalogue)")
	fs.StringVar(&scoreOverrides, "overrides", "", "JSON file mapping hex codes to market weight overrides")
	fs.StringVarP(&scoreFormat, "format", "f", "report", "output format (report, json)")
	fs.BoolVar(&scoreAudit, "audit", false, "run the scoring twice and verify bit-identical results")
	fs.BoolVar(&scoreStats, "stats", false, "print aggregate statistics across all designs")
}

// runScore executes the score command.
func runScore(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	designPath := args[0]

	if err := image.ValidateImagePath(designPath); err != nil {
		return fmt.Errorf("invalid design path: %w", err)
	}

	hexes := scoreBackgrounds
	if len(hexes) == 0 {
		hexes = catalog.Hexes()
	}

	var overrides map[string]float64
	if scoreOverrides != "" {
		data, err := os.ReadFile(scoreOverrides) // #nosec G304 - User-specified overrides file
		if err != nil {
			return fmt.Errorf("failed to read overrides file: %w", err)
		}
		overrides, err = catalog.ParseOverrides(data)
		if err != nil {
			return err
		}
		logger.Debug("loaded market overrides", "count", len(overrides))
	}

	thresholds := scoring.DefaultThresholds()
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	engine := scoring.NewEngine(thresholds, overrides)

	paths, err := resolveDesigns(designPath, logger)
	if err != nil {
		return err
	}

	if scoreFormat != "report" && scoreFormat != "json" {
		return fmt.Errorf("unsupported format: %s (supported: report, json)", scoreFormat)
	}

	if scoreFormat == "report" {
		printHeader(thresholds)
	}

	loader := image.NewFileLoader()
	var allResults []scoring.EvaluationResult
	var spearmans []float64
	jsonOut := make(map[string]scoring.Results, len(paths))

	for _, path := range paths {
		logger.Debug("scoring design", "path", path)
		img, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load design: %w", err)
		}

		results, features, err := engine.ScoreImage(img, hexes)
		if err != nil {
			return fmt.Errorf("failed to score %s: %w", path, err)
		}

		if scoreAudit {
			again, err := engine.Score(features, hexes)
			if err != nil {
				return err
			}
			if err := compareRuns(results, again); err != nil {
				return fmt.Errorf("determinism audit failed for %s: %w", path, err)
			}
			logger.Info("determinism audit passed", "design", filepath.Base(path))
		}

		rho := spearman(results)
		spearmans = append(spearmans, rho)
		allResults = append(allResults, results...)

		if scoreFormat == "json" {
			jsonOut[filepath.Base(path)] = results
			continue
		}

		printDesignReport(filepath.Base(path), results, rho)
	}

	if scoreFormat == "json" {
		data, err := json.MarshalIndent(jsonOut, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if scoreStats && len(allResults) > 0 {
		printGlobalStats(allResults, spearmans, thresholds)
		printMarketDistribution(allResults)
	}

	return nil
}

// resolveDesigns expands the input path into local design files,
// downloading and caching remote URLs.
func resolveDesigns(path string, logger hclog.Logger) ([]string, error) {
	paths, err := image.ResolveDesignPaths(path)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			if err := security.ValidateRemoteDesignURL(p); err != nil {
				return nil, fmt.Errorf("refusing to fetch design: %w", err)
			}
			logger.Debug("downloading remote design", "url", p)
			cached, err := imagecache.DownloadAndCache(context.Background(), p, imagecache.CacheOptions{})
			if err != nil {
				return nil, fmt.Errorf("failed to fetch remote design: %w", err)
			}
			out = append(out, cached)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// compareRuns verifies that two scoring runs are bit-identical.
func compareRuns(a, b scoring.Results) error {
	if len(a) != len(b) {
		return fmt.Errorf("result count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("mismatch for %s: %+v vs %+v", a[i].Hex, a[i], b[i])
		}
	}
	return nil
}

// printHeader prints the report banner with the model version and
// classification gates.
func printHeader(t scoring.Thresholds) {
	fmt.Println(strings.Repeat("=", 63))
	fmt.Println("  BACKGROUND RECOMMENDER — Benchmark Report")
	fmt.Println(strings.Repeat("=", 63))
	fmt.Printf("Model version: %s\n", scoring.ScoringModelVersion)
	fmt.Printf("Promoted >= %.0f | Passed >= %.0f | Raw baseline stddev = %.2f\n",
		t.GoodFloor, t.BorderlineFloor, t.RawBaselineStdDev)
}

// printDesignReport prints the ranked tiers for one design.
func printDesignReport(name string, results scoring.Results, rho float64) {
	fmt.Printf("\n%s\nDesign: %s\n", strings.Repeat("-", 63), name)

	ranked := make(scoring.Results, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	tiers := []struct {
		title string
		want  scoring.Suitability
	}{
		{"BEST (Promoted)", scoring.Promoted},
		{"ACCEPTABLE (Passed)", scoring.Passed},
		{"AVOID (Rejected)", scoring.Rejected},
	}

	counts := make(map[scoring.Suitability]int)
	for _, tier := range tiers {
		table := NewTable([]string{"Colour", "Hex", "Final", "Raw", "P10", "Market", "Note"})
		table.SetColumnMaxWidth(0, nameColumnWidth())
		table.AlignRight(2, 3, 4, 5)

		rows := 0
		for _, res := range ranked {
			if res.Suitability != tier.want {
				continue
			}
			counts[res.Suitability]++
			table.AddRow([]string{
				catalog.NameOf(res.Hex),
				res.Hex,
				fmt.Sprintf("%.1f", res.FinalScore),
				fmt.Sprintf("%.1f", res.RawScore),
				fmt.Sprintf("%.1f", res.P10DeltaE),
				fmt.Sprintf("%+.2f", res.MarketBonus),
				res.OverrideReason,
			})
			rows++
		}

		fmt.Printf("\n%s:\n", tier.title)
		if rows == 0 {
			fmt.Println("  (none)")
			continue
		}
		fmt.Print(table.Render())
	}

	fmt.Printf("\nDistribution: promoted=%d passed=%d rejected=%d\n",
		counts[scoring.Promoted], counts[scoring.Passed], counts[scoring.Rejected])
	fmt.Printf("Rank stability (Spearman rho vs raw): %.3f\n", rho)
}

// printGlobalStats prints the aggregate block across all scored
// designs.
func printGlobalStats(all []scoring.EvaluationResult, spearmans []float64, t scoring.Thresholds) {
	n := len(all)
	sum := 0.0
	for _, res := range all {
		sum += res.FinalScore
	}
	mean := sum / float64(n)

	sqDiff := 0.0
	promoted, passed, rejected, rawPromoted := 0, 0, 0, 0
	for _, res := range all {
		d := res.FinalScore - mean
		sqDiff += d * d
		switch res.Suitability {
		case scoring.Promoted:
			promoted++
		case scoring.Passed:
			passed++
		default:
			rejected++
		}
		if res.RawScore >= t.GoodFloor {
			rawPromoted++
		}
	}
	stdDev := math.Sqrt(sqDiff / float64(n))

	pct := func(c int) float64 { return float64(c) / float64(n) * 100 }
	drift := pct(promoted) - pct(rawPromoted)

	avgRho := 0.0
	for _, rho := range spearmans {
		avgRho += rho
	}
	if len(spearmans) > 0 {
		avgRho /= float64(len(spearmans))
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 63))
	fmt.Printf("  GLOBAL AGGREGATE (N=%d)\n", n)
	fmt.Println(strings.Repeat("=", 63))
	fmt.Printf("  Final score mean  : %.2f\n", mean)
	fmt.Printf("  Final score stddev: %.2f (raw baseline: %.2f)\n", stdDev, t.RawBaselineStdDev)
	fmt.Printf("  Promoted: %d (%.1f%%) [drift vs raw: %+.1f%%]\n", promoted, pct(promoted), drift)
	fmt.Printf("  Passed  : %d (%.1f%%)\n", passed, pct(passed))
	fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, pct(rejected))
	fmt.Printf("  Rank stability (avg rho): %.3f (target > 0.85)\n", avgRho)
}

// printMarketDistribution summarises the market bonus across unique
// hexes.
func printMarketDistribution(all []scoring.EvaluationResult) {
	weights := make(map[string]float64)
	for _, res := range all {
		if _, seen := weights[res.Hex]; !seen {
			weights[res.Hex] = res.MarketBonus
		}
	}

	if len(weights) == 0 {
		return
	}

	minW, maxW := math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, w := range weights {
		minW = math.Min(minW, w)
		maxW = math.Max(maxW, w)
		sum += w
	}
	mean := sum / float64(len(weights))

	sqDiff := 0.0
	for _, w := range weights {
		d := w - mean
		sqDiff += d * d
	}
	stdDev := math.Sqrt(sqDiff / float64(len(weights)))

	fmt.Println(strings.Repeat("=", 63))
	fmt.Printf("  MARKET BONUS DISTRIBUTION (unique hexes = %d)\n", len(weights))
	fmt.Printf("  Min: %+5.2f | Max: %+5.2f | Mean: %+5.2f | StdDev: %.3f\n", minW, maxW, mean, stdDev)
	fmt.Println(strings.Repeat("=", 63))
}

// spearman computes the Spearman rank correlation between the raw and
// final rankings of one candidate slate.
func spearman(results scoring.Results) float64 {
	n := len(results)
	if n <= 1 {
		return 1.0
	}

	rawRank := rankBy(results, func(r scoring.EvaluationResult) float64 { return r.RawScore })
	finalRank := rankBy(results, func(r scoring.EvaluationResult) float64 { return r.FinalScore })

	sumDSq := 0.0
	for i := range results {
		d := float64(rawRank[i] - finalRank[i])
		sumDSq += d * d
	}

	nf := float64(n)
	return 1.0 - (6.0*sumDSq)/(nf*(nf*nf-1))
}

// rankBy assigns descending ranks (1 = highest) by the given key,
// stable over input order for ties.
func rankBy(results scoring.Results, key func(scoring.EvaluationResult) float64) []int {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return key(results[order[a]]) > key(results[order[b]])
	})

	ranks := make([]int, len(results))
	for rank, idx := range order {
		ranks[idx] = rank + 1
	}
	return ranks
}

// nameColumnWidth caps the colour name column on narrow terminals.
func nameColumnWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width >= 100 {
		return 0 // no limit
	}
	w := width / 5
	if w < 8 {
		w = 8
	}
	return w
}
