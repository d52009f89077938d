package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zakaut/zakaut/internal/pipeline"
	"github.com/zakaut/zakaut/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	fromManifest bool
	// noFooter is defined in extract.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <root-dir|manifest>",
	Short: "Extract multiple policy sets in parallel",
	Long: `Batch processes multiple policy sets concurrently:
- Each subdirectory of the root is one independent policy set
- With --manifest, the argument is a file listing one directory per line
- Sets are processed in parallel with configurable worker count
- Each set gets its own JSON and Markdown report

Example:
  zakaut batch ./policies
  zakaut batch ./policies --concurrency 8 --output-dir ./reports
  zakaut batch sets.txt --manifest`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./zakaut-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&fromManifest, "manifest", false, "treat the argument as a manifest file, one directory per line")

	// Shared extraction flags
	batchCmd.Flags().Int64Var(&maxFileBytes, "max-bytes", 20_000_000, "max bytes per source file")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-document cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&strictCoverage, "strict-coverage", false, "fail a run when evidence coverage is below 1.0")
	batchCmd.Flags().StringVar(&mergeURL, "merge-url", "", "external similarity-merge endpoint (empty disables)")
	batchCmd.Flags().IntVar(&spanCap, "span-cap", 5, "max evidence spans kept per benefit")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Zakaut Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          openai/%s\n", llmModel)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)

	var results []*worker.ExtractResult
	if fromManifest {
		fmt.Fprintf(os.Stderr, "⚙️  Reading policy sets from manifest...\n")
		results, err = processor.ProcessFile(ctx, target)
	} else {
		fmt.Fprintf(os.Stderr, "⚙️  Discovering policy sets under %s...\n", target)
		results, err = processor.ProcessRoot(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d policy sets with %d workers\n", len(results), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Dir, result.Error)
			continue
		}

		successCount++

		slug := reportSlug(result.Dir)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Dir, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Dir, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d benefits, coverage %.2f)\n",
			result.Dir, result.Report.Metrics.BenefitsCount, result.Report.Metrics.EvidenceCoverageRatio)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d policy sets\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportSlug derives a filesystem-safe report name from a set directory
func reportSlug(dir string) string {
	s := filepath.Base(filepath.Clean(dir))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." {
		s = "report"
	}

	return s
}
