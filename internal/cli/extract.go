package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zakaut/zakaut/internal/model"
	"github.com/zakaut/zakaut/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	timeout        time.Duration
	maxFileBytes   int64
	noCache        bool
	noFooter       bool
	strictCoverage bool
	mergeURL       string
	spanCap        int
	llmEnabled     bool
	llmModel       string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <dir>",
	Short: "Extract benefits from one policy-set directory",
	Long: `Extract reads every supported document in a directory (PDF, DOCX,
HTML, Markdown, plain text) and:
- Indexes clause references and headings in Hebrew and English
- Harvests rights-conferring paragraphs into benefit records
- Anchors every benefit to a verbatim quote with clause, heading, and page
- Gates monetary amounts on the presence of a schedule document
- Deduplicates near-identical benefits and validates evidence coverage

Example:
  zakaut extract ./policies/acme
  zakaut extract ./policies/acme --json report.json --md report.md
  zakaut extract ./policies/acme --strict-coverage
  zakaut extract ./policies/acme --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output flags
	extractCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	extractCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Run flags
	extractCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	extractCmd.Flags().Int64Var(&maxFileBytes, "max-bytes", 20_000_000, "max bytes per source file")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-document cache")
	extractCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	extractCmd.Flags().BoolVar(&strictCoverage, "strict-coverage", false, "fail the run when evidence coverage is below 1.0")
	extractCmd.Flags().StringVar(&mergeURL, "merge-url", "", "external similarity-merge endpoint (empty disables)")
	extractCmd.Flags().IntVar(&spanCap, "span-cap", 5, "max evidence spans kept per benefit")

	// LLM flags
	extractCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.RunDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d documents\n", len(result.Report.Documents))
		fmt.Fprintf(os.Stderr, "✓ Exported %d benefits (%d rejected)\n",
			result.Report.Metrics.BenefitsCount, result.Report.Metrics.RejectedCount)
		fmt.Fprintf(os.Stderr, "✓ Evidence coverage: %.2f\n", result.Report.Metrics.EvidenceCoverageRatio)
		if result.Report.LLM != nil && result.Report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", result.Report.LLM.Provider, result.Report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(result.Report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig applies the shared extraction flags on top of the defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Intake.MaxFileBytes = maxFileBytes
	if noCache {
		cfg.Intake.CacheTTL = 0
	}
	cfg.Validation.StrictCoverage = strictCoverage
	cfg.Dedup.MergeURL = mergeURL
	cfg.Dedup.SpanCap = spanCap
	cfg.Output.IncludeFooter = !noFooter

	if mergeURL != "" {
		cfg.Dedup.MergeAPIKey = os.Getenv("ZAKAUT_MERGE_API_KEY")
	}

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictEvidence = true // Always enforce

		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}
