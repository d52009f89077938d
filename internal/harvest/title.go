package harvest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minTitleChars   = 10
	maxTitleChars   = 70
	maxHeadingTitle = 80
	minHeadingTitle = 5
	maxSummaryChars = 200
)

// leadingClauseRe strips clause numbering from the front of a chunk:
// "12.3 ", "4) ", "סעיף 7: ".
var leadingClauseRe = regexp.MustCompile(`^(?:סעיף\s+\d+(?:\.\d+)*[:.]?\s*|\d+(?:\.\d+)*[.)]?\s+|[א-ת][.)']\s+)`)

// boilerplatePrefixes are legal throat-clearing openers that never
// belong in a title or summary.
var boilerplatePrefixes = []string{
	"על אף האמור לעיל,",
	"על אף האמור לעיל",
	"מובהר בזאת כי",
	"מובהר כי",
	"למען הסר ספק,",
	"למען הסר ספק",
	"notwithstanding the foregoing,",
	"notwithstanding the foregoing",
	"it is hereby clarified that",
	"for the avoidance of doubt,",
	"for the avoidance of doubt",
}

// rightPhraseRe extracts the right-conferring phrase a title is built
// from: the text following an entitlement pattern.
var rightPhraseRe = regexp.MustCompile(`(?i)(?:זכאי ל|זכאית ל|זכאות ל|כיסוי ל|כיסוי בגין|החזר בגין|החזר עבור|entitled to|coverage for|reimbursement (?:of|for)|benefit for)\s*([^.!?\n]+)`)

// stripBoilerplate removes leading clause numbers and legal boilerplate
// prefixes from a chunk.
func stripBoilerplate(text string) string {
	s := strings.TrimSpace(text)
	s = leadingClauseRe.ReplaceAllString(s, "")
	lower := strings.ToLower(s)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}
	return strings.TrimSpace(s)
}

// synthesizeTitle builds a benefit title. The enricher's heading is
// preferred when it has a reasonable length; otherwise a
// right-conferring phrase is extracted from the chunk, falling back to
// the first sentence and finally to a word-boundary-truncated prefix.
func synthesizeTitle(chunk, headingTitle string) string {
	if n := utf8.RuneCountInString(headingTitle); n >= minHeadingTitle && n <= maxHeadingTitle {
		return headingTitle
	}

	stripped := stripBoilerplate(chunk)

	if m := rightPhraseRe.FindStringSubmatchIndex(stripped); m != nil {
		phrase := strings.TrimSpace(stripped[m[2]:m[3]])
		if n := utf8.RuneCountInString(phrase); n >= minTitleChars {
			if n > maxTitleChars {
				phrase = truncateAtWord(phrase, maxTitleChars)
			}
			return phrase
		}
	}

	if sentence := firstSentence(stripped); sentence != "" && utf8.RuneCountInString(sentence) <= maxHeadingTitle {
		return sentence
	}

	return truncateAtWord(stripped, maxTitleChars)
}

// synthesizeSummary truncates the boilerplate-stripped chunk to
// maxSummaryChars at a sentence or word boundary, with an ellipsis when
// cut mid-text.
func synthesizeSummary(chunk string) string {
	stripped := stripBoilerplate(chunk)
	if utf8.RuneCountInString(stripped) <= maxSummaryChars {
		return stripped
	}

	// Prefer ending at the last full sentence inside the budget
	head := truncateRunes(stripped, maxSummaryChars)
	if i := strings.LastIndexAny(head, ".!?"); i > 0 {
		return strings.TrimSpace(head[:i+1])
	}
	return truncateAtWord(stripped, maxSummaryChars) + "…"
}

func firstSentence(text string) string {
	for _, term := range []string{". ", "! ", "? ", ".\n", "\n"} {
		if i := strings.Index(text, term); i > 0 {
			return strings.TrimSpace(text[:i+1])
		}
	}
	if strings.HasSuffix(text, ".") {
		return text
	}
	return ""
}

// truncateAtWord cuts text to at most limit runes without splitting a
// word.
func truncateAtWord(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return strings.TrimSpace(text)
	}
	head := truncateRunes(text, limit)
	if i := strings.LastIndex(head, " "); i > 0 {
		head = head[:i]
	}
	return strings.TrimSpace(head)
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
