package model

// Layer classifies a benefit's conditionality
type Layer string

const (
	LayerCertain     Layer = "certain"     // Guaranteed right
	LayerConditional Layer = "conditional" // Requires approval, waiting period, or condition
	LayerService     Layer = "service"     // Assistance/helpline, not a payment
)

// Status marks whether the benefit is granted or carved out
type Status string

const (
	StatusIncluded Status = "included"
	StatusExcluded Status = "excluded"
)

// ValueState tells whether monetary values may be trusted
type ValueState string

const (
	// ValueKnown means a schedule document backed the extracted numbers
	ValueKnown ValueState = "known"
	// ValueUnknownScheduleRequired means no schedule document was present
	// in the run; numeric amounts in the text are withheld
	ValueUnknownScheduleRequired ValueState = "unknown_schedule_required"
)

// AmountValue is one monetary figure located in the source text.
type AmountValue struct {
	Raw      string  `json:"raw"`      // Text as matched, e.g. "5,000 ILS"
	Numeric  float64 `json:"numeric"`  // Parsed value
	Position int     `json:"position"` // Byte offset of the number within the chunk
}

// Amounts carries the schedule-gated monetary figures of a benefit.
type Amounts struct {
	ValueState ValueState    `json:"value_state"`
	Values     []AmountValue `json:"values"`
}

// Benefit is a single claimed insurance right extracted from policy text.
// Created by the harvester with exactly one evidence span, possibly merged
// with near-duplicates by the deduplicator, then read-only.
type Benefit struct {
	BenefitID       string            `json:"benefit_id"`
	Layer           Layer             `json:"layer"`
	Title           string            `json:"title"`
	Summary         string            `json:"summary"`
	Status          Status            `json:"status"`
	Evidence        EvidenceSet       `json:"evidence_set"`
	Tags            []string          `json:"tags,omitempty"`
	Eligibility     map[string]string `json:"eligibility,omitempty"`
	Amounts         Amounts           `json:"amounts"`
	ActionableSteps []string          `json:"actionable_steps,omitempty"`
}

// HasCompleteEvidence reports whether the benefit carries at least one
// span and every span satisfies the evidence-completeness rule.
func (b Benefit) HasCompleteEvidence() bool {
	if len(b.Evidence.Spans) == 0 {
		return false
	}
	for _, s := range b.Evidence.Spans {
		if !s.Complete() {
			return false
		}
	}
	return true
}
