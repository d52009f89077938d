package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/zakaut/zakaut/internal/model"
)

// Renderer writes reports to disk and prints the run summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes a human-readable benefit report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var sb strings.Builder

	sb.WriteString("# Benefit Extraction Report\n\n")
	sb.WriteString(fmt.Sprintf("- Source: %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))
	sb.WriteString(fmt.Sprintf("- Benefits: %d (rejected: %d)\n", report.Metrics.BenefitsCount, report.Metrics.RejectedCount))
	sb.WriteString(fmt.Sprintf("- Evidence coverage: %.2f\n\n", report.Metrics.EvidenceCoverageRatio))

	sb.WriteString("## Documents\n\n")
	for _, doc := range report.Documents {
		sb.WriteString(fmt.Sprintf("- %s (%s, %d pages)\n", doc.DisplayName, doc.DocType, doc.PageCount))
	}
	sb.WriteString("\n")

	if len(report.Metrics.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range report.Metrics.Warnings {
			sb.WriteString(fmt.Sprintf("- ⚠️ %s\n", w))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Benefits\n\n")
	for _, b := range report.Benefits {
		sb.WriteString(fmt.Sprintf("### %s\n\n", b.Title))
		sb.WriteString(fmt.Sprintf("- Layer: %s | Status: %s\n", b.Layer, b.Status))
		if b.Summary != "" {
			sb.WriteString(fmt.Sprintf("- Summary: %s\n", b.Summary))
		}
		if len(b.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("- Tags: %s\n", strings.Join(b.Tags, ", ")))
		}
		sb.WriteString(renderAmounts(b.Amounts))
		for _, span := range b.Evidence.Spans {
			sb.WriteString(fmt.Sprintf("- Evidence (%s, p.%d): %q\n", span.DocumentName, span.Page, span.Quote))
		}
		sb.WriteString("\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n")
		sb.WriteString("Every benefit above is backed by a verbatim quote from the source documents. Amounts are withheld when no schedule document is present.\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func renderAmounts(amounts model.Amounts) string {
	if amounts.ValueState == model.ValueUnknownScheduleRequired {
		return "- Amounts: unknown (schedule document required)\n"
	}
	if len(amounts.Values) == 0 {
		return ""
	}
	var parts []string
	for _, v := range amounts.Values {
		parts = append(parts, v.Raw)
	}
	return fmt.Sprintf("- Amounts: %s\n", strings.Join(parts, "; "))
}

// RenderLLMMarkdown writes a pre-rendered LLM summary to its own file
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return os.WriteFile(path, []byte(markdown), 0o644)
}

// RenderSummary prints a one-screen run summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nSource: %s\n", report.Source)
	fmt.Printf("Documents: %d | Benefits: %d | Rejected: %d | Coverage: %.2f\n",
		len(report.Documents), report.Metrics.BenefitsCount, report.Metrics.RejectedCount,
		report.Metrics.EvidenceCoverageRatio)

	for layer, count := range report.Metrics.LayerDistribution {
		fmt.Printf("  %s: %d\n", layer, count)
	}

	for _, w := range report.Metrics.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
}
