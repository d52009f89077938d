// Package index scans raw policy text for structural markers: typed
// clause references (section, chapter, annex, exclusion, ...) and
// headings, in both Hebrew and English surface forms.
//
// The indexer only locates markers. When several rules match the same
// region all matches are kept; disambiguation happens downstream via
// nearest-before search in the enricher.
package index

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ClauseReference is a located structural marker. Positions are byte
// offsets into the text the indexer was given.
type ClauseReference struct {
	Type         ClauseType
	Number       string
	Language     Language
	OriginalText string
	Position     int
}

// Heading is a detected section title. Level 1 covers topic and all-caps
// headings, level 2 covers colon and numbered ones.
type Heading struct {
	Text     string
	Level    int
	Position int // Byte offset of the line start
	Kind     string
}

// Indexer holds the compiled rule tables. Safe for concurrent use; it
// carries no per-document state.
type Indexer struct{}

// New returns an Indexer over the package rule tables.
func New() *Indexer {
	return &Indexer{}
}

// ClauseReferences returns every clause-reference match in text, ordered
// by position. The sort is stable so that rule-table order breaks ties
// at equal positions.
func (ix *Indexer) ClauseReferences(text string) []ClauseReference {
	var refs []ClauseReference
	for _, rule := range clauseRules {
		for _, m := range rule.pattern.FindAllStringSubmatchIndex(text, -1) {
			refs = append(refs, ClauseReference{
				Type:         rule.kind,
				Number:       text[m[2]:m[3]],
				Language:     rule.lang,
				OriginalText: text[m[0]:m[1]],
				Position:     m[0],
			})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Position < refs[j].Position
	})
	return refs
}

// SectionPath renders a clause reference with the bilingual label table.
func SectionPath(ref ClauseReference) string {
	labels, ok := sectionLabels[ref.Type]
	if !ok {
		return ref.OriginalText
	}
	format, ok := labels[ref.Language]
	if !ok {
		return ref.OriginalText
	}
	return strings.Replace(format, "%s", ref.Number, 1)
}

// Headings returns every heading-like line in text, ordered by position.
//
// A line qualifies when it matches one of:
//
//	(a) ends with a colon and is 3-60 characters   → level 2
//	(b) a numbered Hebrew/English list item < ~50  → level 2
//	(c) starts with a known Hebrew section topic   → level 1
//	(d) short all-caps English                     → level 1
func (ix *Indexer) Headings(text string) []Heading {
	var heads []Heading
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if h, ok := classifyHeading(strings.TrimRight(line, "\n"), offset); ok {
			heads = append(heads, h)
		}
		offset += len(line)
	}
	return heads
}

func classifyHeading(line string, offset int) (Heading, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Heading{}, false
	}
	n := utf8.RuneCountInString(trimmed)

	switch {
	case strings.HasSuffix(trimmed, ":") && n >= 3 && n <= 60:
		return Heading{Text: strings.TrimSuffix(trimmed, ":"), Level: 2, Position: offset, Kind: "colon"}, true
	case isListHeading(trimmed) && n < 50:
		return Heading{Text: trimmed, Level: 2, Position: offset, Kind: "numbered"}, true
	case startsWithTopicWord(trimmed):
		return Heading{Text: trimmed, Level: 1, Position: offset, Kind: "topic"}, true
	case isShortAllCaps(trimmed, n):
		return Heading{Text: trimmed, Level: 1, Position: offset, Kind: "caps"}, true
	}
	return Heading{}, false
}

// isListHeading matches numbered list openers: "3.", "12)", "א.", "ב)".
func isListHeading(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	switch {
	case r >= '0' && r <= '9':
		i := size
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i < len(s) && (s[i] == '.' || s[i] == ')')
	case r >= 'א' && r <= 'ת':
		rest := s[size:]
		return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")") || strings.HasPrefix(rest, "'")
	}
	return false
}

func startsWithTopicWord(s string) bool {
	for _, w := range hebrewTopicWords {
		if strings.HasPrefix(s, w) {
			return true
		}
	}
	return false
}

// isShortAllCaps accepts English lines like "GENERAL EXCLUSIONS": at
// least one letter, no lowercase, no Hebrew, 3-60 characters.
func isShortAllCaps(s string, n int) bool {
	if n < 3 || n > 60 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case unicode.IsLower(r) || (r >= 'א' && r <= 'ת'):
			return false
		case unicode.IsDigit(r) || r == ' ' || r == ',' || r == '&' || r == '\'' || r == '-' || r == '.':
			// allowed filler
		default:
			return false
		}
	}
	return hasLetter
}
