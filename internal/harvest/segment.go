package harvest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minChunkChars = 30
	maxChunkChars = 2000
)

// listMarkerRe opens a new chunk even without a preceding blank line:
// "3.", "12)", "א.", "b)" at the start of a line.
var listMarkerRe = regexp.MustCompile(`^\s*(?:\d{1,2}[.)]|[א-ת][.)']|[a-z][.)])\s+`)

// Chunk is one paragraph-like candidate with its byte offset in the
// document text.
type Chunk struct {
	Text   string
	Offset int
}

// Segment splits text into paragraph-like chunks at blank lines or at
// the start of numbered/lettered list items, then discards chunks
// shorter than minChunkChars or longer than maxChunkChars.
func Segment(text string) []Chunk {
	var chunks []Chunk
	var current strings.Builder
	start := 0
	offset := 0

	flush := func() {
		raw := current.String()
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
			n := utf8.RuneCountInString(trimmed)
			if n >= minChunkChars && n <= maxChunkChars {
				chunks = append(chunks, Chunk{Text: trimmed, Offset: start + lead})
			}
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		blank := strings.TrimSpace(line) == ""
		switch {
		case blank:
			flush()
			start = offset + len(line)
		case listMarkerRe.MatchString(line) && current.Len() > 0:
			flush()
			start = offset
			current.WriteString(line)
		default:
			if current.Len() == 0 {
				start = offset
			}
			current.WriteString(line)
		}
		offset += len(line)
	}
	flush()

	return chunks
}
