// Package dedup merges near-duplicate benefits. The fuzzy pass always
// runs locally; an external similarity-merge service is consulted only
// when the benefit count still exceeds the configured ceiling, and a
// simpler local merge covers service failure. The service is never
// required for correctness.
package dedup

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/zakaut/zakaut/internal/lexicon"
	"github.com/zakaut/zakaut/internal/model"
)

const (
	fuzzyKeyChars    = 40
	fallbackKeyChars = 50
)

// Deduplicator normalizes a run's benefit list.
type Deduplicator struct {
	spanCap     int
	maxBenefits int
	client      MergeClient // nil when no external service is configured
}

// New creates a Deduplicator. client may be nil.
func New(spanCap, maxBenefits int, client MergeClient) *Deduplicator {
	if spanCap <= 0 {
		spanCap = 5
	}
	if maxBenefits <= 0 {
		maxBenefits = 500
	}
	return &Deduplicator{spanCap: spanCap, maxBenefits: maxBenefits, client: client}
}

// Normalize runs the fuzzy pass, caps evidence spans, and invokes the
// size-gated external merge when needed. Returns the merged list plus
// any warnings produced along the way.
func (d *Deduplicator) Normalize(ctx context.Context, benefits []model.Benefit) ([]model.Benefit, []string) {
	var warnings []string

	merged := foldByKey(benefits, fuzzyKey)
	for i := range merged {
		merged[i].Evidence.Spans = capSpans(merged[i].Evidence.Spans, d.spanCap)
	}

	if len(merged) <= d.maxBenefits {
		return merged, warnings
	}

	if d.client != nil {
		external, method, err := d.client.Merge(ctx, merged, d.maxBenefits)
		if err == nil {
			for i := range external {
				external[i].Evidence.Spans = capSpans(external[i].Evidence.Spans, d.spanCap)
			}
			warnings = append(warnings, fmt.Sprintf("benefit count %d exceeded ceiling %d: merged externally (%s)", len(merged), d.maxBenefits, method))
			return external, warnings
		}
		warnings = append(warnings, fmt.Sprintf("external merge failed, using local fallback: %v", err))
	}

	fallback := foldByKey(merged, fallbackKey)
	if len(fallback) > d.maxBenefits {
		fallback = fallback[:d.maxBenefits]
	}
	for i := range fallback {
		fallback[i].Evidence.Spans = capSpans(fallback[i].Evidence.Spans, d.spanCap)
	}
	warnings = append(warnings, fmt.Sprintf("benefit count capped locally at %d", len(fallback)))
	return fallback, warnings
}

// foldByKey merges benefits sharing a dedup key, left to right,
// preserving first-seen order. The key function depends only on the
// title text, so the result is order-independent as a set.
func foldByKey(benefits []model.Benefit, key func(string) string) []model.Benefit {
	byKey := make(map[string]int)
	var out []model.Benefit
	for _, b := range benefits {
		k := key(b.Title)
		if i, ok := byKey[k]; ok {
			out[i] = merge(out[i], b)
			continue
		}
		byKey[k] = len(out)
		out = append(out, b)
	}
	return out
}

// merge combines two benefits considered duplicates: the longer summary
// wins, evidence spans are unioned (deduped by exact quote), and tags
// are unioned. Identity and classification stay with the first-seen
// benefit.
func merge(a, b model.Benefit) model.Benefit {
	if len(b.Summary) > len(a.Summary) {
		a.Summary = b.Summary
	}
	a.Evidence.Spans = unionSpans(a.Evidence.Spans, b.Evidence.Spans)
	a.Tags = unionStrings(a.Tags, b.Tags)
	if a.Amounts.ValueState == model.ValueKnown && len(a.Amounts.Values) == 0 && len(b.Amounts.Values) > 0 {
		a.Amounts = b.Amounts
	}
	return a
}

func unionSpans(a, b []model.EvidenceSpan) []model.EvidenceSpan {
	seen := make(map[string]bool, len(a))
	out := make([]model.EvidenceSpan, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s.Quote] {
			seen[s.Quote] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s.Quote] {
			seen[s.Quote] = true
			out = append(out, s)
		}
	}
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// fuzzyKey normalizes a title into the dedup key: generic prefixes
// dropped, punctuation/bidi marks/digits/whitespace removed, lowercased,
// truncated to fuzzyKeyChars runes.
func fuzzyKey(title string) string {
	return normalizeTitle(title, fuzzyKeyChars)
}

// fallbackKey is the simpler key used by the local fallback merge.
func fallbackKey(title string) string {
	return normalizeTitle(title, fallbackKeyChars)
}

func normalizeTitle(title string, limit int) string {
	s := strings.ToLower(strings.TrimSpace(title))

	// Drop generic leading words until a meaningful one appears
	for {
		stripped := false
		for _, prefix := range lexicon.GenericTitlePrefixes {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	runes := []rune(sb.String())
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes)
}
