// Package enrich turns a quoted excerpt into a full evidence span:
// nearest clause reference, nearest heading, paragraph anchor,
// surrounding context, highlighted sentence, and annex status.
package enrich

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zakaut/zakaut/internal/index"
	"github.com/zakaut/zakaut/internal/lexicon"
	"github.com/zakaut/zakaut/internal/model"
)

const (
	contextWindow   = 150 // Bytes of context taken on each side of the quote
	anchorWordCount = 8   // Words kept from the containing paragraph
)

// annexLabelRe locates annex labels in text for annex-name resolution.
var annexLabelRe = regexp.MustCompile(`(?:נספח\s+\S+|הרחבה\s+\S+|(?i:annex|appendix|rider|endorsement)\s+\S+)`)

// annexNameRe classifies a document as an annex by its display name.
var annexNameRe = regexp.MustCompile(`(?i:annex|schedule|rider|endorsement)|נספח|הרחבה|רשימה|דף פרטי`)

// DocumentIndex is the per-document structural index the enricher works
// against. Build it once per document and reuse it for every quote.
type DocumentIndex struct {
	Text     string
	Refs     []index.ClauseReference
	Headings []index.Heading
}

// Enricher resolves evidence spans against document indexes.
type Enricher struct {
	indexer *index.Indexer
}

// New creates an Enricher.
func New() *Enricher {
	return &Enricher{indexer: index.New()}
}

// Index builds the structural index for one document's full text.
func (e *Enricher) Index(text string) *DocumentIndex {
	return &DocumentIndex{
		Text:     text,
		Refs:     e.indexer.ClauseReferences(text),
		Headings: e.indexer.Headings(text),
	}
}

// Input carries everything needed to construct one evidence span.
type Input struct {
	DocumentID   string
	DocumentName string
	DocType      model.DocType
	Quote        string
	Page         int
	Confidence   float64
}

// Enrich constructs an EvidenceSpan for the quote. The quote is located
// by its first occurrence in the full document text; when it cannot be
// found the positional fields are omitted but the span is still built
// around the raw quote.
func (e *Enricher) Enrich(di *DocumentIndex, in Input) model.EvidenceSpan {
	span := model.EvidenceSpan{
		EvidenceID:   evidenceID(in.DocumentID, in.Page, in.Quote),
		DocumentID:   in.DocumentID,
		DocumentName: in.DocumentName,
		Page:         in.Page,
		Quote:        in.Quote,
		Confidence:   in.Confidence,
		Verbatim:     true,
	}

	// Highlighted sentence depends only on the quote itself
	span.HighlightedText = highlightSentence(in.Quote)

	offset := strings.Index(di.Text, in.Quote)

	// Annex detection is driven by document type and display name, with
	// the nearest in-text annex label as the name when one exists
	if in.DocType == model.DocTypeEndorsement || annexNameRe.MatchString(in.DocumentName) {
		span.IsAnnex = true
		span.AnnexName = nearestAnnexLabel(di.Text, offset)
		if span.AnnexName == "" {
			span.AnnexName = in.DocumentName
		}
	}

	if offset < 0 {
		return span
	}

	if ref, ok := nearestClause(di.Refs, offset); ok {
		span.ClauseNumber = ref.Number
		span.SectionPath = index.SectionPath(ref)
	} else {
		span.ParagraphAnchor = paragraphAnchor(di.Text, offset)
	}

	if h, ok := nearestHeading(di.Headings, offset); ok {
		span.HeadingTitle = h.Text
	}

	span.ExcerptContext = excerptContext(di.Text, offset, len(in.Quote))

	return span
}

// nearestClause selects the clause reference at or before offset with the
// minimum distance. Ties are broken by earliest-found ordering: the scan
// only replaces the candidate on a strictly smaller distance.
func nearestClause(refs []index.ClauseReference, offset int) (index.ClauseReference, bool) {
	var best index.ClauseReference
	bestDist := -1
	for _, ref := range refs {
		if ref.Position > offset {
			continue
		}
		d := offset - ref.Position
		if bestDist < 0 || d < bestDist {
			best = ref
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// nearestHeading returns the last heading strictly before offset.
func nearestHeading(heads []index.Heading, offset int) (index.Heading, bool) {
	var best index.Heading
	found := false
	for _, h := range heads {
		if h.Position >= offset {
			break
		}
		best = h
		found = true
	}
	return best, found
}

// paragraphAnchor returns the first words of the paragraph containing
// offset. A paragraph starts after the nearest preceding blank line.
func paragraphAnchor(text string, offset int) string {
	start := 0
	if i := strings.LastIndex(text[:offset], "\n\n"); i >= 0 {
		start = i + 2
	}
	words := strings.Fields(text[start:])
	if len(words) > anchorWordCount {
		words = words[:anchorWordCount]
	}
	return strings.Join(words, " ")
}

// excerptContext returns up to contextWindow bytes before and after the
// quote, trimmed to sentence boundaries when a period falls inside the
// window. Both cut points are snapped to rune boundaries so the context
// is always valid UTF-8 even when no sentence boundary is found.
func excerptContext(text string, offset, quoteLen int) string {
	start := offset - contextWindow
	if start < 0 {
		start = 0
	}
	quoteEnd := offset + quoteLen
	end := quoteEnd + contextWindow
	if end > len(text) {
		end = len(text)
	}

	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	// Advance past the first sentence boundary in the leading window so
	// the context does not open mid-sentence
	if i := strings.Index(text[start:offset], ". "); i >= 0 {
		start += i + 2
	}
	// Cut at the first sentence boundary in the trailing window
	if i := strings.Index(text[quoteEnd:end], "."); i >= 0 {
		end = quoteEnd + i + 1
	}

	return strings.TrimSpace(text[start:end])
}

// highlightSentence picks the first sentence inside the quote containing
// a right-conferring keyword, falling back to the first sentence longer
// than 20 characters.
func highlightSentence(quote string) string {
	sentences := splitSentences(quote)
	for _, s := range sentences {
		if lexicon.HasRightKeyword(s) {
			return s
		}
	}
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > 20 {
			return s
		}
	}
	return ""
}

// splitSentences performs a simple terminator split, good enough for the
// short quotes the harvester produces.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// nearestAnnexLabel returns the annex label closest before offset, or the
// first label in the document when the quote was not located.
func nearestAnnexLabel(text string, offset int) string {
	matches := annexLabelRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return ""
	}
	if offset < 0 {
		return text[matches[0][0]:matches[0][1]]
	}
	best := ""
	for _, m := range matches {
		if m[0] > offset {
			break
		}
		best = text[m[0]:m[1]]
	}
	if best == "" {
		best = text[matches[0][0]:matches[0][1]]
	}
	return best
}

// evidenceID derives a stable id from the citation coordinates.
func evidenceID(docID string, page int, quote string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", docID, page, quote)))
	return "ev-" + hex.EncodeToString(h[:6])
}
