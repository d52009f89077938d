package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zakaut/zakaut/internal/cache"
	"github.com/zakaut/zakaut/internal/dedup"
	"github.com/zakaut/zakaut/internal/harvest"
	"github.com/zakaut/zakaut/internal/intake"
	"github.com/zakaut/zakaut/internal/llm"
	"github.com/zakaut/zakaut/internal/model"
	"github.com/zakaut/zakaut/internal/validate"
)

// Pipeline orchestrates the complete extraction process
type Pipeline struct {
	loader       *intake.Loader
	harvester    *harvest.Harvester
	deduplicator *dedup.Deduplicator
	validator    *validate.Validator
	renderer     *Renderer
	summarizer   *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config       *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.LLM)
		s, err := llm.NewSummarizer(llmConfig)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var docCache cache.Cache
	if cfg.Intake.CacheTTL > 0 {
		ttl := time.Duration(cfg.Intake.CacheTTL) * time.Second
		docCache = cache.NewMemoryCache(ttl, 2*ttl)
	}

	var mergeClient dedup.MergeClient
	if cfg.Dedup.MergeURL != "" {
		mergeClient = dedup.NewHTTPMergeClient(
			cfg.Dedup.MergeURL,
			cfg.Dedup.MergeAPIKey,
			time.Duration(cfg.Dedup.Timeout)*time.Second,
			cfg.Dedup.MergeRPS,
		)
	}

	return &Pipeline{
		loader:       intake.NewLoader(cfg.Intake.MaxFileBytes, docCache, time.Duration(cfg.Intake.CacheTTL)*time.Second),
		harvester:    harvest.New(),
		deduplicator: dedup.New(cfg.Dedup.SpanCap, cfg.Dedup.MaxBenefits, mergeClient),
		validator:    validate.New(cfg.Validation.StrictCoverage),
		renderer:     NewRenderer(cfg.Output.IncludeFooter),
		summarizer:   summarizer,
		config:       cfg,
	}
}

// RunResult contains the complete extraction result
type RunResult struct {
	Report *model.Report
}

// RunDir extracts benefits from every supported document in a directory
// and generates a complete report.
func (p *Pipeline) RunDir(ctx context.Context, dir string) (*RunResult, error) {
	// 1. Intake
	docs, intakeWarnings, err := p.loader.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}

	report, err := p.run(ctx, dir, docs, intakeWarnings)
	if err != nil {
		return nil, err
	}
	return &RunResult{Report: report}, nil
}

// RunDocuments extracts benefits from already-loaded documents. Serve
// mode uses this for uploaded files.
func (p *Pipeline) RunDocuments(ctx context.Context, source string, docs []model.Document) (*RunResult, error) {
	report, err := p.run(ctx, source, docs, nil)
	if err != nil {
		return nil, err
	}
	return &RunResult{Report: report}, nil
}

func (p *Pipeline) run(ctx context.Context, source string, docs []model.Document, warnings []string) (*model.Report, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no readable documents in %s", source)
	}

	hasSchedule := model.HasSchedule(docs)
	if !model.HasPolicy(docs) {
		warnings = append(warnings, "no policy document found in the run")
	}

	// 2. Harvest. Each document gets a fresh dedup state: the chunk-level
	// filter is per-document, cross-document folding happens later.
	var benefits []model.Benefit
	for _, doc := range docs {
		state := harvest.NewDedupState()
		benefits = append(benefits, p.harvester.Harvest(doc, hasSchedule, state)...)
	}

	// 3. Normalize (fuzzy fold, span cap, optional external merge)
	normalized, dedupWarnings := p.deduplicator.Normalize(ctx, benefits)
	warnings = append(warnings, dedupWarnings...)

	// 4. Validate
	result, err := p.validator.Run(normalized, !hasSchedule)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	metrics := result.Metrics
	metrics.Warnings = append(warnings, metrics.Warnings...)

	report := &model.Report{
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Documents:   documentSummaries(docs),
		Benefits:    result.Valid,
		Metrics:     metrics,
	}

	// 5. Generate LLM summary if enabled (AFTER validation, never affects
	// the benefit set)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		llmSummary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			// Don't fail the entire run, just warn
			fmt.Printf("Warning: LLM summary generation failed: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	return report, nil
}

func documentSummaries(docs []model.Document) []model.DocumentSummary {
	summaries := make([]model.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, model.DocumentSummary{
			ID:          doc.ID,
			DisplayName: doc.DisplayName,
			DocType:     doc.DocType,
			PageCount:   doc.PageCount,
		})
	}
	return summaries
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Render LLM summary to separate file if present
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := p.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			fmt.Printf("Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(report)

	return nil
}
