// Package validate enforces the evidence-completeness invariant: no
// benefit leaves the pipeline without at least one span carrying a
// non-empty quote, document id, and page.
package validate

import (
	"fmt"

	"github.com/zakaut/zakaut/internal/model"
)

// Validator partitions a benefit list and computes coverage metrics.
type Validator struct {
	// StrictCoverage turns a coverage ratio below 1.0 into a run-level
	// failure instead of a warning. See DESIGN.md for the policy choice.
	StrictCoverage bool
}

// New creates a Validator.
func New(strictCoverage bool) *Validator {
	return &Validator{StrictCoverage: strictCoverage}
}

// Result is the outcome of validation. Invalid benefits are kept for
// inspection by the caller but are never exported or persisted.
type Result struct {
	Valid   []model.Benefit
	Invalid []model.Benefit
	Metrics model.RunQualityMetrics
}

// Run partitions benefits into valid and invalid, computes the evidence
// coverage ratio and layer distribution, and emits structural warnings.
// scheduleMissing reports whether amounts were withheld upstream for
// lack of a schedule document.
//
// In strict mode a coverage ratio below 1.0 returns an error alongside
// the full result; otherwise the valid subset is exported and the gap
// becomes a warning.
func (v *Validator) Run(benefits []model.Benefit, scheduleMissing bool) (Result, error) {
	res := Result{
		Valid:   []model.Benefit{},
		Invalid: []model.Benefit{},
	}

	for _, b := range benefits {
		if b.HasCompleteEvidence() {
			res.Valid = append(res.Valid, b)
		} else {
			res.Invalid = append(res.Invalid, b)
		}
	}

	total := len(res.Valid) + len(res.Invalid)
	ratio := 0.0
	if total > 0 {
		ratio = float64(len(res.Valid)) / float64(total)
	}

	dist := make(map[model.Layer]int)
	for _, b := range res.Valid {
		dist[b.Layer]++
	}

	var warnings []string
	if scheduleMissing {
		warnings = append(warnings, "no schedule document in run: monetary amounts withheld (unknown_schedule_required)")
	}
	if n := len(res.Invalid); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d benefits rejected for incomplete evidence", n))
	}

	res.Metrics = model.RunQualityMetrics{
		EvidenceCoverageRatio: ratio,
		BenefitsCount:         len(res.Valid),
		RejectedCount:         len(res.Invalid),
		LayerDistribution:     dist,
		Warnings:              warnings,
	}

	if v.StrictCoverage && ratio < 1.0 {
		return res, fmt.Errorf("evidence coverage %.2f below 1.0 with strict coverage enabled", ratio)
	}
	return res, nil
}
