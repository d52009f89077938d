// Package harvest turns document text into benefit candidates: it
// segments the text into paragraph-like chunks, keeps only
// rights-conferring ones, classifies them, and backs every benefit with
// exactly one evidence span at creation time.
package harvest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/zakaut/zakaut/internal/enrich"
	"github.com/zakaut/zakaut/internal/lexicon"
	"github.com/zakaut/zakaut/internal/model"
)

const (
	dedupKeyChars  = 100 // Chunk prefix length used as the within-document dedup key
	pageProbeChars = 50  // Chunk prefix length used to resolve the page
	baseConfidence = 0.85
)

// DedupState tracks which chunks were already harvested from a document.
// It is passed explicitly through the stage rather than kept as hidden
// package state; create a fresh one per document.
type DedupState struct {
	seen map[string]bool
}

// NewDedupState creates an empty state.
func NewDedupState() *DedupState {
	return &DedupState{seen: make(map[string]bool)}
}

// Seen records the chunk and reports whether its normalized key was
// already present.
func (s *DedupState) Seen(chunk string) bool {
	key := normalizeChunkKey(chunk)
	if s.seen[key] {
		return true
	}
	s.seen[key] = true
	return false
}

func normalizeChunkKey(chunk string) string {
	key := strings.ToLower(strings.Join(strings.Fields(chunk), " "))
	return truncateRunes(key, dedupKeyChars)
}

// Harvester extracts benefits from a single document.
type Harvester struct {
	enricher *enrich.Enricher
}

// New creates a Harvester.
func New() *Harvester {
	return &Harvester{enricher: enrich.New()}
}

// Harvest runs the full per-document extraction. hasSchedule gates the
// amount scanner for the whole run; state deduplicates chunks within
// this document. Every returned benefit carries exactly one evidence
// span.
func (h *Harvester) Harvest(doc model.Document, hasSchedule bool, state *DedupState) []model.Benefit {
	if strings.TrimSpace(doc.Text) == "" {
		return nil
	}

	di := h.enricher.Index(doc.Text)

	var benefits []model.Benefit
	for _, chunk := range Segment(doc.Text) {
		if !lexicon.HasRightKeyword(chunk.Text) {
			continue
		}
		if state.Seen(chunk.Text) {
			continue
		}

		page := resolvePage(doc.PageTexts, chunk.Text)
		span := h.enricher.Enrich(di, enrich.Input{
			DocumentID:   doc.ID,
			DocumentName: doc.DisplayName,
			DocType:      doc.DocType,
			Quote:        chunk.Text,
			Page:         page,
			Confidence:   baseConfidence,
		})

		benefits = append(benefits, buildBenefit(doc, chunk.Text, span, hasSchedule))
	}
	return benefits
}

func buildBenefit(doc model.Document, chunk string, span model.EvidenceSpan, hasSchedule bool) model.Benefit {
	tags := []string{string(doc.DocType)}
	if span.IsAnnex {
		tags = append(tags, "annex")
	}

	return model.Benefit{
		BenefitID: benefitID(doc.ID, chunk),
		Layer:     classifyLayer(chunk),
		Title:     synthesizeTitle(chunk, span.HeadingTitle),
		Summary:   synthesizeSummary(chunk),
		Status:    classifyStatus(chunk),
		Evidence:  model.EvidenceSet{Spans: []model.EvidenceSpan{span}},
		Tags:      tags,
		Amounts:   scanAmounts(chunk, hasSchedule),
	}
}

// resolvePage returns the 1-based index of the first page containing the
// chunk's prefix, defaulting to page 1.
func resolvePage(pageTexts []string, chunk string) int {
	probe := truncateRunes(chunk, pageProbeChars)
	for i, page := range pageTexts {
		if strings.Contains(page, probe) {
			return i + 1
		}
	}
	return 1
}

func benefitID(docID, chunk string) string {
	h := sha256.Sum256([]byte(docID + "|" + normalizeChunkKey(chunk)))
	return "bf-" + hex.EncodeToString(h[:6])
}
